package format

import (
	"fmt"
	"io"
	"slices"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/report"
)

type FormatType string

// Extension returns the file extension, including the dot, for files of this format.
func (f FormatType) Extension() string {
	return "." + string(f)
}

type Formatter interface {
	WriteTable(t *report.Table) error
	// Flush writes any buffered output. A Formatter must not be used after Flush.
	Flush() error
}

type Options struct {
	Currency string
}

type constructor func(io.Writer, Options) Formatter

var registry = make(map[FormatType]constructor)

func register(format FormatType, constructor constructor) {
	registry[format] = constructor
}

func NewFormatter(format FormatType, w io.Writer, opts Options) (Formatter, error) {
	constructor, exists := registry[format]
	if !exists {
		return nil, fmt.Errorf("unsupported format type: %s", format)
	}

	if opts.Currency == "" {
		opts.Currency = domain.DefaultCurrency
	}

	return constructor(w, opts), nil
}

func All() []FormatType {
	formats := make([]FormatType, 0, len(registry))
	for format := range registry {
		formats = append(formats, format)
	}

	slices.Sort(formats)

	return formats
}

// WriteAll writes every table in order and flushes the formatter.
func WriteAll(formatter Formatter, tables []*report.Table) error {
	for _, table := range tables {
		if err := formatter.WriteTable(table); err != nil {
			return fmt.Errorf("write table %s: %w", table.Name, err)
		}
	}

	if err := formatter.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}
