package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/caiohscruz/organizze-reports/internal/api/organizze"
	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 4
	PastMonthCount     = 12
	FutureMonthCount   = 12
)

type Options struct {
	Today             time.Time
	IgnoredCategories []string
	ContainmentCap    decimal.Decimal
	Currency          string
	Concurrency       int
	AccountID         domain.AccountID
}

func (o Options) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &o,
		validation.Field(&o.Today, validation.Required.Error("is required")),
		validation.Field(&o.ContainmentCap, validation.By(func(value any) error {
			amount, ok := value.(decimal.Decimal)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a decimal")
			}

			if amount.IsNegative() {
				return validation.NewError("validation_negative_cap", "must not be negative")
			}

			return nil
		})),
		validation.Field(&o.Currency, validation.Required.Error("is required"), validation.By(func(value any) error {
			code, _ := value.(string)
			if code != "" && money.GetCurrency(code) == nil {
				return validation.NewError("validation_unknown_currency", "must be an ISO 4217 currency code")
			}

			return nil
		})),
		validation.Field(&o.Concurrency, validation.By(func(value any) error {
			// Min skips zero values.
			if n, _ := value.(int); n < 1 {
				return validation.NewError("validation_min_concurrency", "must be at least 1")
			}

			return nil
		})),
		validation.Field(&o.AccountID, validation.Min(domain.AccountID(0)).Error("must not be negative")),
	)
}

// FetchError is returned when a resource could not be fetched. No report is produced.
type FetchError struct {
	Resource string
	Period   *Period
	Err      error
}

func (e *FetchError) Error() string {
	if e.Period == nil {
		return fmt.Sprintf("%s: %v", e.Resource, e.Err)
	}

	return fmt.Sprintf("%s (%s): %v", e.Resource, e.Period, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Report holds every derived table of a single run.
type Report struct {
	RunID               uuid.UUID
	Today               time.Time
	Categories          []*domain.Category
	CurrentTransactions []*domain.MappedTransaction
	FutureTransactions  []*domain.MappedTransaction
	FuturePeriods       []Period
	Summary             []*SummaryRow
	FutureEstimation    []*FutureEstimationRow
}

// Tables returns the sheets in workbook order.
func (r *Report) Tables() []*Table {
	return []*Table{
		TransactionsTable(SheetCurrentTransactions, r.CurrentTransactions),
		SummaryTable(r.Summary),
		TransactionsTable(SheetFutureTransactions, r.FutureTransactions),
		FutureEstimationTable(r.FutureEstimation, r.FuturePeriods),
	}
}

type Generator struct {
	client organizze.Client
	opts   Options
}

func New(ctx context.Context, client organizze.Client, opts Options) (*Generator, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}

	if err := opts.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Generator{
		client: client,
		opts:   opts,
	}, nil
}

// Generate fetches the lookups, the current month and every past and future month, then aggregates them.
// Any failed fetch aborts the run.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	runID := uuid.New()
	ctx, logger := log.With(ctx, slog.String("report.run_id", runID.String()))

	lookups, err := g.Lookups(ctx)
	if err != nil {
		return nil, err
	}

	// Today may be pinned, so the current month is requested by date rather than by the API default.
	currentPeriod := MonthOf(g.opts.Today, 0)
	current, err := g.Transactions(ctx, lookups, &currentPeriod)
	if err != nil {
		return nil, err
	}

	pastPeriods := PastMonths(g.opts.Today, PastMonthCount)
	past, err := g.fetchPeriods(ctx, lookups, pastPeriods)
	if err != nil {
		return nil, err
	}

	futurePeriods := FutureMonths(g.opts.Today, FutureMonthCount)
	future, err := g.fetchPeriods(ctx, lookups, futurePeriods)
	if err != nil {
		return nil, err
	}

	categories := lookups.Categories()
	report := &Report{
		RunID:               runID,
		Today:               g.opts.Today,
		Categories:          categories,
		CurrentTransactions: current,
		FutureTransactions:  lo.Flatten(future),
		FuturePeriods:       futurePeriods,
		Summary:             Summarize(categories, current, lo.Flatten(past), g.opts.Today),
		FutureEstimation: EstimateFuture(categories, lo.Flatten(future), futurePeriods, ContainmentPlan{
			Cap: g.opts.ContainmentCap,
		}),
	}

	logger.InfoContext(ctx, "generated report",
		slog.Int("category.count", len(categories)),
		slog.Int("transaction.count", len(current)),
		slog.String("category.total", domain.MoneyFromDecimal(report.Summary[len(report.Summary)-1].TotalCurrentMonth, g.opts.Currency).Display()),
	)

	return report, nil
}

// Lookups fetches categories, accounts and credit cards concurrently.
func (g *Generator) Lookups(ctx context.Context) (*Lookups, error) {
	var (
		categories  []*domain.Category
		accounts    []*domain.Account
		creditCards []*domain.CreditCard
	)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() (err error) {
		categories, err = g.client.FetchCategories(ctx)
		return wrapFetchError("categories", nil, err)
	})
	errg.Go(func() (err error) {
		accounts, err = g.client.FetchAccounts(ctx)
		return wrapFetchError("accounts", nil, err)
	})
	errg.Go(func() (err error) {
		creditCards, err = g.client.FetchCreditCards(ctx)
		return wrapFetchError("credit cards", nil, err)
	})

	if err := errg.Wait(); err != nil {
		return nil, err
	}

	log.FromContext(ctx).DebugContext(ctx, "fetched lookups",
		slog.Int("category.count", len(categories)),
		slog.Int("account.count", len(accounts)),
		slog.Int("credit_card.count", len(creditCards)),
	)

	return NewLookups(categories, accounts, creditCards, g.opts.IgnoredCategories), nil
}

// Transactions fetches and maps the transactions of period. A nil period is the current month.
func (g *Generator) Transactions(ctx context.Context, lookups *Lookups, period *Period) ([]*domain.MappedTransaction, error) {
	opts := organizze.FetchTransactionOptions{
		AccountID: g.opts.AccountID,
	}
	if period != nil {
		opts.Start = period.Start.Time
		opts.End = period.End.Time
	}

	label := "current"
	if period != nil {
		label = period.String()
	}
	ctx, logger := log.With(ctx, slog.String("period", label))

	txns, err := g.client.FetchTransactions(ctx, opts)
	if err != nil {
		return nil, wrapFetchError("transactions", period, err)
	}

	if len(txns) >= organizze.MaxTransactionsPerRequest {
		logger.WarnContext(ctx, "transaction limit reached, results may be truncated",
			slog.Int("transaction.count", len(txns)),
		)
	}

	mapped := MapTransactions(lookups, txns)

	logger.DebugContext(ctx, "fetched transactions",
		slog.Int("transaction.count", len(txns)),
		slog.Int("transaction.mapped", len(mapped)),
	)

	return mapped, nil
}

// fetchPeriods fetches each period concurrently. Results keep the order of periods.
func (g *Generator) fetchPeriods(ctx context.Context, lookups *Lookups, periods []Period) ([][]*domain.MappedTransaction, error) {
	results := make([][]*domain.MappedTransaction, len(periods))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.opts.Concurrency)

	for i, period := range periods {
		errg.Go(func() error {
			rows, err := g.Transactions(ctx, lookups, &period)
			if err != nil {
				return err
			}

			results[i] = rows
			return nil
		})
	}

	if err := errg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func wrapFetchError(resource string, period *Period, err error) error {
	if err == nil {
		return nil
	}

	return &FetchError{
		Resource: resource,
		Period:   period,
		Err:      err,
	}
}
