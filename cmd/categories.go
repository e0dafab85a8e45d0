package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/format"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/spf13/cobra"
)

func newCategoriesCommand() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the report categories",
		Long:  `List the categories used as report rows, after parent names are prefixed and archived, parent and ignored categories are removed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runCategories(cmd.Context(), cmd.OutOrStdout(), opts)
			if err != nil {
				return fmt.Errorf("categories: %w", err)
			}

			return nil
		},
	}

	addOrganizzeFlags(cmd, &opts.organizzeOptions)
	cmd.Flags().StringArrayVar(&opts.IgnoredCategories, "ignore-category", nil, "category to leave out, raw or \"Parent > Child\" name (repeatable)")

	return cmd
}

func runCategories(ctx context.Context, output io.Writer, opts *reportOptions) error {
	opts.Format = string(format.FormatTypeCSV)
	opts.Currency = domain.DefaultCurrency
	opts.PlanCap = report.DefaultContainmentCap.String()
	opts.Concurrency = report.DefaultConcurrency

	generator, err := opts.newGenerator(ctx, time.Now())
	if err != nil {
		return err
	}

	lookups, err := generator.Lookups(ctx)
	if err != nil {
		return err
	}

	for _, category := range lookups.Categories() {
		if _, err := fmt.Fprintln(output, category.Name); err != nil {
			return err
		}
	}

	return nil
}
