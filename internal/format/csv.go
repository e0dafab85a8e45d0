package format

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const FormatTypeCSV FormatType = "csv"

func init() {
	register(FormatTypeCSV, func(w io.Writer, opts Options) Formatter {
		return NewCSVFormatter(w, opts.Currency)
	})
}

// CSVFormatter writes each table as a section: the sheet name, the header and the rows,
// with an empty line between sections.
type CSVFormatter struct {
	writer   *csv.Writer
	currency string
	tables   int
}

func NewCSVFormatter(w io.Writer, currency string) *CSVFormatter {
	return &CSVFormatter{
		writer:   csv.NewWriter(w),
		currency: currency,
	}
}

func (f *CSVFormatter) WriteTable(t *report.Table) error {
	if f.tables > 0 {
		if err := f.writer.Write([]string{}); err != nil {
			return err
		}
	}
	f.tables++

	if err := f.writer.Write([]string{t.Name}); err != nil {
		return err
	}

	if err := f.writer.Write(t.Columns); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := lo.Map(row, func(value any, column int) string {
			return f.cell(value, t.IsCurrencyColumn(column))
		})

		if err := f.writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func (f *CSVFormatter) cell(value any, currency bool) string {
	switch v := value.(type) {
	case string:
		return v
	case decimal.Decimal:
		if currency {
			return domain.MoneyFromDecimal(v, f.currency).String()
		}
		return v.String()
	case domain.Date:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func (f *CSVFormatter) Flush() error {
	f.writer.Flush()

	return f.writer.Error()
}
