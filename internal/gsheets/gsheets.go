package gsheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/log"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInputRaw      = "RAW"
	numberFormatFields = "userEnteredFormat.numberFormat"
	currencyFormatType = "CURRENCY"
	dateFormatType     = "DATE"
	datePattern        = "dd/mm/yyyy"
)

// Spreadsheet identifies an uploaded report.
type Spreadsheet struct {
	ID  string
	URL string
}

// Writer uploads report tables as a new Google spreadsheet.
type Writer struct {
	service  *sheets.Service
	currency string
}

func New(ctx context.Context, currency string, opts ...option.ClientOption) (*Writer, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	if currency == "" {
		currency = domain.DefaultCurrency
	}

	return &Writer{
		service:  service,
		currency: currency,
	}, nil
}

// Write creates a spreadsheet named title with one sheet per table, writes the values and
// number-formats currency and date columns.
func (w *Writer) Write(ctx context.Context, title string, tables []*report.Table) (*Spreadsheet, error) {
	if len(tables) == 0 {
		return nil, errors.New("no tables to write")
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
		Sheets: lo.Map(tables, func(t *report.Table, _ int) *sheets.Sheet {
			return &sheets.Sheet{
				Properties: &sheets.SheetProperties{
					Title: t.Name,
				},
			}
		}),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create spreadsheet: %w", err)
	}

	logger := log.FromContext(ctx).With(slog.String("spreadsheet.id", created.SpreadsheetId))
	logger.DebugContext(ctx, "created spreadsheet", slog.String("spreadsheet.url", created.SpreadsheetUrl))

	_, err = w.service.Spreadsheets.Values.BatchUpdate(created.SpreadsheetId, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             lo.Map(tables, toValueRange),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("write values: %w", err)
	}

	sheetIDs := lo.SliceToMap(created.Sheets, func(s *sheets.Sheet) (string, int64) {
		return s.Properties.Title, s.Properties.SheetId
	})

	requests := lo.FlatMap(tables, func(t *report.Table, _ int) []*sheets.Request {
		return w.formatRequests(sheetIDs[t.Name], t)
	})

	if len(requests) > 0 {
		_, err = w.service.Spreadsheets.BatchUpdate(created.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("format columns: %w", err)
		}
	}

	logger.InfoContext(ctx, "uploaded report",
		slog.Int("sheet.count", len(tables)),
		slog.String("spreadsheet.url", created.SpreadsheetUrl),
	)

	return &Spreadsheet{
		ID:  created.SpreadsheetId,
		URL: created.SpreadsheetUrl,
	}, nil
}

func (w *Writer) formatRequests(sheetID int64, t *report.Table) []*sheets.Request {
	if len(t.Rows) == 0 {
		return nil
	}

	currencyFormat := &sheets.NumberFormat{
		Type:    currencyFormatType,
		Pattern: domain.CurrencyNumberFormat(w.currency),
	}
	dateFormat := &sheets.NumberFormat{
		Type:    dateFormatType,
		Pattern: datePattern,
	}

	requests := make([]*sheets.Request, 0, len(t.Columns))
	for column := range t.Columns {
		var format *sheets.NumberFormat
		switch {
		case t.IsCurrencyColumn(column):
			format = currencyFormat
		case t.IsDateColumn(column):
			format = dateFormat
		default:
			continue
		}

		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      int64(len(t.Rows) + 1),
					StartColumnIndex: int64(column),
					EndColumnIndex:   int64(column + 1),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: format,
					},
				},
				Fields: numberFormatFields,
			},
		})
	}

	return requests
}

func toValueRange(t *report.Table, _ int) *sheets.ValueRange {
	values := make([][]any, 0, len(t.Rows)+1)
	values = append(values, lo.ToAnySlice(t.Columns))

	for _, row := range t.Rows {
		values = append(values, lo.Map(row, func(value any, _ int) any {
			return cellValue(value)
		}))
	}

	return &sheets.ValueRange{
		Range:  fmt.Sprintf("'%s'!A1", t.Name),
		Values: values,
	}
}

// cellValue converts values to what the Sheets API accepts as raw input. Dates are sent as
// spreadsheet serial numbers so the date format applies.
func cellValue(value any) any {
	switch v := value.(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case domain.Date:
		return serialDate(v)
	default:
		return v
	}
}

// sheetsEpoch is day zero of spreadsheet serial dates.
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func serialDate(d domain.Date) int64 {
	return int64(d.Sub(sheetsEpoch) / (24 * time.Hour))
}
