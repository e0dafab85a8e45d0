package format

import (
	"fmt"
	"io"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	FormatTypeXLSX FormatType = "xlsx"

	defaultSheet  = "Sheet1"
	dateNumberFmt = "dd/mm/yyyy"
	columnWidth   = 18
	firstDataRow  = 2
)

func init() {
	register(FormatTypeXLSX, func(w io.Writer, opts Options) Formatter {
		return NewXLSXFormatter(w, opts.Currency)
	})
}

// XLSXFormatter builds a workbook with one sheet per table and writes it on Flush.
type XLSXFormatter struct {
	w        io.Writer
	file     *excelize.File
	currency string
	sheets   int
}

func NewXLSXFormatter(w io.Writer, currency string) *XLSXFormatter {
	return &XLSXFormatter{
		w:        w,
		file:     excelize.NewFile(),
		currency: currency,
	}
}

func (x *XLSXFormatter) WriteTable(t *report.Table) error {
	if err := x.addSheet(t.Name); err != nil {
		return err
	}

	if err := x.file.SetSheetRow(t.Name, "A1", &t.Columns); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+firstDataRow)
		if err != nil {
			return err
		}

		values := lo.Map(row, func(value any, _ int) any {
			return cellValue(value)
		})

		if err := x.file.SetSheetRow(t.Name, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if len(t.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Columns))
		if err != nil {
			return err
		}

		if err := x.file.SetColWidth(t.Name, "A", last, columnWidth); err != nil {
			return err
		}
	}

	return x.applyStyles(t)
}

func (x *XLSXFormatter) addSheet(name string) error {
	defer func() { x.sheets++ }()

	if x.sheets == 0 {
		return x.file.SetSheetName(defaultSheet, name)
	}

	_, err := x.file.NewSheet(name)
	return err
}

// applyStyles number-formats currency and date columns. It runs after the rows are written
// so the column style replaces the default styles excelize gives to time values.
func (x *XLSXFormatter) applyStyles(t *report.Table) error {
	currencyFmt := domain.CurrencyNumberFormat(x.currency)
	currencyStyle, err := x.file.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return fmt.Errorf("currency style: %w", err)
	}

	dateFmt := dateNumberFmt
	dateStyle, err := x.file.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	for column := range t.Columns {
		style := 0
		switch {
		case t.IsCurrencyColumn(column):
			style = currencyStyle
		case t.IsDateColumn(column):
			style = dateStyle
		default:
			continue
		}

		name, err := excelize.ColumnNumberToName(column + 1)
		if err != nil {
			return err
		}

		if err := x.file.SetColStyle(t.Name, name, style); err != nil {
			return fmt.Errorf("column %s style: %w", name, err)
		}
	}

	return nil
}

func (x *XLSXFormatter) Flush() error {
	defer x.file.Close()

	if err := x.file.Write(x.w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

func cellValue(value any) any {
	switch v := value.(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case domain.Date:
		return v.Time
	default:
		return v
	}
}
