package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/log"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/spf13/cobra"
)

type transactionsOptions struct {
	reportOptions
	StartDate string
	EndDate   string
}

func newTransactionsCommand() *cobra.Command {
	opts := &transactionsOptions{}

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Export mapped transactions",
		Long: `Export transactions with account, category and credit card names resolved.
Without dates the current month is exported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runTransactions(cmd.Context(), cmd.OutOrStdout(), opts)
			if err != nil {
				return fmt.Errorf("transactions: %w", err)
			}

			return nil
		},
	}

	addOrganizzeFlags(cmd, &opts.organizzeOptions)
	addOutputFlags(cmd, &opts.outputOptions)
	cmd.Flags().StringArrayVar(&opts.IgnoredCategories, "ignore-category", nil, "category to leave out, raw or \"Parent > Child\" name (repeatable)")
	cmd.Flags().Int64Var(&opts.AccountID, "account", 0, "only include transactions of this account id")
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "end date (YYYY-MM-DD, default end of the start month)")

	return cmd
}

// period returns nil for the current month.
func (o *transactionsOptions) period() (*report.Period, error) {
	if o.StartDate == "" {
		if o.EndDate != "" {
			return nil, errors.New("end date requires a start date")
		}

		return nil, nil
	}

	start, err := parseDate(o.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	period := report.MonthOf(start, 0)
	period.Start = domain.NewDate(start)

	if o.EndDate != "" {
		end, err := parseDate(o.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
		period.End = domain.NewDate(end)
	}

	if period.End.Before(period.Start.Time) {
		return nil, fmt.Errorf("end date %q must not be before start date %q", period.End, period.Start)
	}

	return &period, nil
}

func runTransactions(ctx context.Context, output io.Writer, opts *transactionsOptions) error {
	now := time.Now()

	period, err := opts.period()
	if err != nil {
		return err
	}

	opts.PlanCap = report.DefaultContainmentCap.String()
	opts.Concurrency = report.DefaultConcurrency

	generator, err := opts.newGenerator(ctx, now)
	if err != nil {
		return err
	}

	lookups, err := generator.Lookups(ctx)
	if err != nil {
		return err
	}

	rows, err := generator.Transactions(ctx, lookups, period)
	if err != nil {
		return err
	}

	table := report.TransactionsTable(report.SheetCurrentTransactions, rows)
	path, err := writeTables(output, &opts.outputOptions, []*report.Table{table}, now)
	if err != nil {
		return err
	}

	if path != stdoutPath {
		log.FromContext(ctx).InfoContext(ctx, "wrote transactions",
			slog.String("report.path", path),
			slog.Int("transaction.count", len(rows)),
		)
	}

	return nil
}
