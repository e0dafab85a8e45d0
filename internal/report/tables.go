package report

import (
	"slices"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	SheetCurrentTransactions = "TransaçõesMesAtual"
	SheetSummary             = "CompiladoMesAtual"
	SheetFutureTransactions  = "TransaçõesFuturas"
	SheetFutureEstimation    = "EstimativaFutura"

	monthColumnFormat = "01/2006"
)

var (
	transactionColumns = []string{
		"Description",
		"Date",
		"Amount",
		"TotalInstallments",
		"Installment",
		"Recurring",
		"Account",
		"Category",
		"CreditCard",
	}
	summaryColumns = []string{
		"CategoryName",
		"TotalCurrentMonth",
		"TotalLastMonth",
		"MonthlyProportionLast3Months",
		"MonthlyProportionLast6Months",
		"MonthlyProportionLast12Months",
		"TotalLast3Months",
		"TotalLast6Months",
		"TotalLast12Months",
	}
)

// Table is a named sheet of rows. Cells hold string, int, bool, domain.Date or decimal.Decimal values.
// CurrencyColumns and DateColumns are zero-based indices of columns rendered as money and as dates.
type Table struct {
	Name            string
	Columns         []string
	Rows            [][]any
	CurrencyColumns []int
	DateColumns     []int
}

func (t *Table) IsCurrencyColumn(column int) bool {
	return slices.Contains(t.CurrencyColumns, column)
}

func (t *Table) IsDateColumn(column int) bool {
	return slices.Contains(t.DateColumns, column)
}

func TransactionsTable(name string, rows []*domain.MappedTransaction) *Table {
	return &Table{
		Name:    name,
		Columns: slices.Clone(transactionColumns),
		Rows: lo.Map(rows, func(row *domain.MappedTransaction, _ int) []any {
			return []any{
				row.Description,
				row.Date,
				row.Amount,
				row.TotalInstallments,
				row.Installment,
				row.Recurring,
				row.Account,
				row.Category,
				row.CreditCard,
			}
		}),
		CurrencyColumns: []int{2},
		DateColumns:     []int{1},
	}
}

func SummaryTable(rows []*SummaryRow) *Table {
	return &Table{
		Name:    SheetSummary,
		Columns: slices.Clone(summaryColumns),
		Rows: lo.Map(rows, func(row *SummaryRow, _ int) []any {
			return namedRow(row.CategoryName, row.Values())
		}),
		CurrencyColumns: numericColumns(len(summaryColumns) - 1),
	}
}

func FutureEstimationTable(rows []*FutureEstimationRow, periods []Period) *Table {
	columns := append([]string{"CategoryName"}, lo.Map(periods, func(p Period, _ int) string {
		return p.Start.Format(monthColumnFormat)
	})...)

	return &Table{
		Name:    SheetFutureEstimation,
		Columns: columns,
		Rows: lo.Map(rows, func(row *FutureEstimationRow, _ int) []any {
			return namedRow(row.CategoryName, row.Months)
		}),
		CurrencyColumns: numericColumns(len(periods)),
	}
}

func namedRow(name string, values []decimal.Decimal) []any {
	row := make([]any, 0, len(values)+1)
	row = append(row, name)
	for _, value := range values {
		row = append(row, value)
	}

	return row
}

// numericColumns returns the indices 1..n, every column after the name.
func numericColumns(n int) []int {
	return lo.RangeFrom(1, n)
}
