package gsheets_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/gsheets"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/caiohscruz/organizze-reports/internal/util/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetID = "sheet-123"

func setup(t *testing.T, routes ...testutil.HTTPTestRoute) *gsheets.Writer {
	t.Helper()

	server := testutil.NewHTTPTestServer(t, routes)
	writer, err := gsheets.New(t.Context(), "BRL",
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	return writer
}

func testTables() []*report.Table {
	return []*report.Table{
		report.TransactionsTable(report.SheetCurrentTransactions, []*domain.MappedTransaction{
			{
				Description:       "Almoço",
				Date:              domain.NewDate(mustParseDate("2024-05-02")),
				Amount:            decimal.RequireFromString("-45.50"),
				TotalInstallments: 1,
				Installment:       1,
				Category:          "Alimentação > Restaurantes",
			},
		}),
		report.SummaryTable([]*report.SummaryRow{
			{CategoryName: "Alimentação > Restaurantes", TotalCurrentMonth: decimal.RequireFromString("-45.50")},
			{CategoryName: report.TotalRowName, TotalCurrentMonth: decimal.RequireFromString("-45.50")},
		}),
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("creates sheets, writes values and formats columns", func(t *testing.T) {
		t.Parallel()

		writer := setup(t,
			testutil.HTTPTestRoute{
				Method: http.MethodPost,
				URL:    "/v4/spreadsheets",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					body := testutil.DecodeRequestBody[sheets.Spreadsheet](t, r)
					require.Equal(t, "financial_report_20240515093000", body.Properties.Title)
					require.Len(t, body.Sheets, 2)
					require.Equal(t, "TransaçõesMesAtual", body.Sheets[0].Properties.Title)
					require.Equal(t, "CompiladoMesAtual", body.Sheets[1].Properties.Title)

					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "create_spreadsheet.json")(w, r)
				},
			},
			testutil.HTTPTestRoute{
				Method: http.MethodPost,
				URL:    "/v4/spreadsheets/" + spreadsheetID + "/values:batchUpdate",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					body := testutil.DecodeRequestBody[sheets.BatchUpdateValuesRequest](t, r)
					require.Equal(t, "RAW", body.ValueInputOption)
					require.Len(t, body.Data, 2)

					transactions := body.Data[0]
					require.Equal(t, "'TransaçõesMesAtual'!A1", transactions.Range)
					require.Len(t, transactions.Values, 2)
					require.Equal(t, "Description", transactions.Values[0][0])
					require.Equal(t, "Almoço", transactions.Values[1][0])
					require.InDelta(t, 45414, transactions.Values[1][1], 0)
					require.InDelta(t, -45.5, transactions.Values[1][2], 0)
					require.Equal(t, false, transactions.Values[1][5])

					summary := body.Data[1]
					require.Equal(t, "'CompiladoMesAtual'!A1", summary.Range)
					require.Len(t, summary.Values, 3)
					require.Equal(t, report.TotalRowName, summary.Values[2][0])

					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "batch_update_values.json")(w, r)
				},
			},
			testutil.HTTPTestRoute{
				Method: http.MethodPost,
				URL:    "/v4/spreadsheets/" + spreadsheetID + ":batchUpdate",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					body := testutil.DecodeRequestBody[sheets.BatchUpdateSpreadsheetRequest](t, r)
					// date and amount columns, then eight summary columns
					require.Len(t, body.Requests, 10)

					date := body.Requests[0].RepeatCell
					require.Equal(t, "DATE", date.Cell.UserEnteredFormat.NumberFormat.Type)
					require.Equal(t, int64(1), date.Range.StartColumnIndex)

					amount := body.Requests[1].RepeatCell
					require.Equal(t, "CURRENCY", amount.Cell.UserEnteredFormat.NumberFormat.Type)
					require.Equal(t, `"R$" #,##0.00`, amount.Cell.UserEnteredFormat.NumberFormat.Pattern)
					require.Equal(t, int64(2), amount.Range.StartColumnIndex)
					require.Equal(t, int64(3), amount.Range.EndColumnIndex)
					require.Equal(t, int64(1), amount.Range.StartRowIndex)
					require.Equal(t, int64(2), amount.Range.EndRowIndex)
					require.Equal(t, "userEnteredFormat.numberFormat", amount.Fields)

					summary := body.Requests[2].RepeatCell
					require.Equal(t, int64(1185), summary.Range.SheetId)
					require.Equal(t, int64(1), summary.Range.StartColumnIndex)
					require.Equal(t, int64(3), summary.Range.EndRowIndex)

					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "batch_update.json")(w, r)
				},
			},
		)

		spreadsheet, err := writer.Write(t.Context(), "financial_report_20240515093000", testTables())
		require.NoError(t, err)
		require.Equal(t, &gsheets.Spreadsheet{
			ID:  spreadsheetID,
			URL: "https://docs.google.com/spreadsheets/d/sheet-123/edit",
		}, spreadsheet)
	})

	t.Run("returns API error", func(t *testing.T) {
		t.Parallel()

		writer := setup(t, testutil.HTTPTestRoute{
			Method:  http.MethodPost,
			URL:     "/v4/spreadsheets",
			Handler: testutil.ServeJSONTestDataHandler(t, http.StatusForbidden, "error.json"),
		})

		spreadsheet, err := writer.Write(t.Context(), "report", testTables())
		require.Nil(t, spreadsheet)
		require.ErrorContains(t, err, "create spreadsheet")

		var apiErr *googleapi.Error
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusForbidden, apiErr.Code)
	})

	t.Run("returns error when no tables", func(t *testing.T) {
		t.Parallel()

		writer := setup(t)

		_, err := writer.Write(t.Context(), "report", nil)
		require.EqualError(t, err, "no tables to write")
	})
}
