package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/format"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/caiohscruz/organizze-reports/internal/util/sliceutil"
	"github.com/spf13/cobra"
)

const (
	stdoutPath         = "-"
	reportFilePrefix   = "financial_report_"
	reportTimestampFmt = "20060102150405"
)

type outputOptions struct {
	Path     string
	Format   string
	Currency string
}

func addOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	cmd.Flags().StringVarP(&opts.Path, "output", "o", "", fmt.Sprintf("output file, %q for stdout (default %s<timestamp>.<format>)", stdoutPath, reportFilePrefix))
	cmd.Flags().StringVar(&opts.Format, "format", string(format.FormatTypeXLSX), fmt.Sprintf("output format (options: %s)", sliceutil.ToDelimitedString(format.All())))
	cmd.Flags().StringVar(&opts.Currency, "currency", domain.DefaultCurrency, "ISO 4217 currency of the amounts")
}

// defaultReportName returns the timestamped name shared by report files and uploaded spreadsheets.
func defaultReportName(now time.Time) string {
	return reportFilePrefix + now.Format(reportTimestampFmt)
}

// writeTables writes tables to the output file, or to stdout when the path is "-".
// It returns the path written to.
func writeTables(stdout io.Writer, opts *outputOptions, tables []*report.Table, now time.Time) (_ string, err error) {
	formatType, err := parseFormat(opts.Format)
	if err != nil {
		return "", err
	}

	path := opts.Path
	if path == "" {
		path = defaultReportName(now) + formatType.Extension()
	}

	var w io.Writer = stdout
	if path != stdoutPath {
		file, createErr := os.Create(path)
		if createErr != nil {
			return "", fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			err = closeOutput(file, err)
		}()

		w = file
	}

	formatter, err := format.NewFormatter(formatType, w, format.Options{Currency: opts.Currency})
	if err != nil {
		return "", fmt.Errorf("formatter: %w", err)
	}

	if err := format.WriteAll(formatter, tables); err != nil {
		return "", err
	}

	return path, nil
}

// closeOutput closes c and joins any close failure to err.
func closeOutput(c io.Closer, err error) error {
	if closeErr := c.Close(); closeErr != nil {
		return errors.Join(err, fmt.Errorf("close output: %w", closeErr))
	}

	return err
}

func parseFormat(value string) (format.FormatType, error) {
	formatType := format.FormatType(strings.ToLower(strings.TrimSpace(value)))
	if !slices.Contains(format.All(), formatType) {
		return "", fmt.Errorf("unsupported format type: %s (options: %s)", value, sliceutil.ToDelimitedString(format.All()))
	}

	return formatType, nil
}
