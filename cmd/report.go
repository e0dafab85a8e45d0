package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/log"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	organizzeOptions
	outputOptions
	Today             string
	IgnoredCategories []string
	PlanCap           string
	Concurrency       int
	AccountID         int64
	GoogleSheets      bool
	GoogleClientID    string
	GoogleSecret      string
}

func newReportCommand() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the spending report",
		Long: `Build the spending report: current month transactions, a per category summary of the current month and the
last 1, 3, 6 and 12 months, the transactions scheduled for the next 12 months and a 12 month estimate with a
spending containment plan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uploadOnly := opts.GoogleSheets && !cmd.Flags().Changed("output")

			err := runReport(cmd.Context(), cmd.OutOrStdout(), opts, uploadOnly)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}

			return nil
		},
	}

	addOrganizzeFlags(cmd, &opts.organizzeOptions)
	addOutputFlags(cmd, &opts.outputOptions)
	addReportFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.GoogleSheets, "google-sheets", false, fmt.Sprintf("upload the report to a new Google spreadsheet (requires %s and %s)", envGoogleClientID, envGoogleClientSecret))
	cmd.Flags().StringVar(&opts.GoogleClientID, "google-client-id", "", fmt.Sprintf("Google OAuth client id (alternative: set %s)", envGoogleClientID))
	cmd.Flags().StringVar(&opts.GoogleSecret, "google-client-secret", "", fmt.Sprintf("Google OAuth client secret (alternative: set %s)", envGoogleClientSecret))

	return cmd
}

func addReportFlags(cmd *cobra.Command, opts *reportOptions) {
	cmd.Flags().StringVar(&opts.Today, "today", "", "reference date (YYYY-MM-DD, default today)")
	cmd.Flags().StringArrayVar(&opts.IgnoredCategories, "ignore-category", nil, "category to leave out of the report, raw or \"Parent > Child\" name (repeatable)")
	cmd.Flags().StringVar(&opts.PlanCap, "plan-cap", report.DefaultContainmentCap.String(), "monthly spending cap of the containment plan")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", report.DefaultConcurrency, "number of months fetched in parallel")
	cmd.Flags().Int64Var(&opts.AccountID, "account", 0, "only include transactions of this account id")
}

// generatorOptions converts the flags into validated report options.
func (o *reportOptions) generatorOptions(now time.Time) (report.Options, error) {
	today := now
	if o.Today != "" {
		parsed, err := parseDate(o.Today)
		if err != nil {
			return report.Options{}, fmt.Errorf("today: %w", err)
		}
		today = parsed
	}

	planCap, err := decimal.NewFromString(o.PlanCap)
	if err != nil {
		return report.Options{}, fmt.Errorf("plan cap: %w", err)
	}

	return report.Options{
		Today:             today,
		IgnoredCategories: o.IgnoredCategories,
		ContainmentCap:    planCap,
		Currency:          o.Currency,
		Concurrency:       o.Concurrency,
		AccountID:         domain.AccountID(o.AccountID),
	}, nil
}

func (o *reportOptions) newGenerator(ctx context.Context, now time.Time) (*report.Generator, error) {
	if _, err := parseFormat(o.Format); err != nil {
		return nil, err
	}

	genOpts, err := o.generatorOptions(now)
	if err != nil {
		return nil, err
	}

	client, err := o.newClient(ctx)
	if err != nil {
		return nil, err
	}

	return report.New(ctx, client, genOpts)
}

func runReport(ctx context.Context, output io.Writer, opts *reportOptions, uploadOnly bool) error {
	now := time.Now()
	logger := log.FromContext(ctx)

	var uploader *sheetsUploader
	if opts.GoogleSheets {
		var err error
		uploader, err = newSheetsUploader(ctx, opts.GoogleClientID, opts.GoogleSecret, opts.Currency)
		if err != nil {
			return err
		}
	}

	generator, err := opts.newGenerator(ctx, now)
	if err != nil {
		return err
	}

	result, err := generator.Generate(ctx)
	if err != nil {
		return err
	}

	tables := result.Tables()

	if !uploadOnly {
		path, err := writeTables(output, &opts.outputOptions, tables, now)
		if err != nil {
			return err
		}

		if path != stdoutPath {
			logger.InfoContext(ctx, "wrote report", slog.String("report.path", path))
		}
	}

	if uploader != nil {
		spreadsheet, err := uploader.upload(ctx, defaultReportName(now), tables)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(output, spreadsheet.URL)
	}

	return nil
}
