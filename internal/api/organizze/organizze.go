package organizze

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/api"
	"github.com/caiohscruz/organizze-reports/internal/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	resty "resty.dev/v3"
)

const (
	prodAPI              = "https://api.organizze.com.br/rest/v2"
	getCategoriesRoute   = "/categories"
	getAccountsRoute     = "/accounts"
	getCreditCardsRoute  = "/credit_cards"
	getTransactionsRoute = "/transactions"
	queryDateFormat      = time.DateOnly

	// MaxTransactionsPerRequest is the most records a single transactions call returns.
	MaxTransactionsPerRequest = 500
)

type Client interface {
	FetchCategories(ctx context.Context) ([]*domain.Category, error)
	FetchAccounts(ctx context.Context) ([]*domain.Account, error)
	FetchCreditCards(ctx context.Context) ([]*domain.CreditCard, error)
	// FetchTransactions returns the current month when no dates are given.
	FetchTransactions(ctx context.Context, opts FetchTransactionOptions) ([]*domain.Transaction, error)
}

var _ Client = (*client)(nil)

type client struct {
	api *api.BaseClient
}

// Credentials identify the Organizze user. The API key is generated in the Organizze web app.
type Credentials struct {
	Name   string
	Email  string
	APIKey string
}

func (c Credentials) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.Name, validation.Required.Error("is required")),
		validation.Field(&c.Email, validation.Required.Error("is required")),
		validation.Field(&c.APIKey, validation.Required.Error("is required")),
	)
}

// UserAgent is the identification Organizze requires on every request.
func (c Credentials) UserAgent() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Email)
}

func New(httpClient *http.Client, credentials Credentials, opts ...api.Option) *client {
	options := []api.Option{
		api.WithErrorUnmarshaller(func(r *resty.Response) error {
			return UnmarshalError(r.StatusCode(), r.Bytes())
		}),
		api.WithBasicAuth(credentials.Email, credentials.APIKey),
		api.WithUserAgent(credentials.UserAgent()),
	}

	return &client{
		api: api.New(prodAPI, httpClient, append(options, opts...)...),
	}
}

func (c *client) FetchCategories(ctx context.Context) ([]*domain.Category, error) {
	result, err := api.ExecuteRequest[[]*domain.Category](ctx, c.api, http.MethodGet, getCategoriesRoute, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	return result, nil
}

func (c *client) FetchAccounts(ctx context.Context) ([]*domain.Account, error) {
	result, err := api.ExecuteRequest[[]*domain.Account](ctx, c.api, http.MethodGet, getAccountsRoute, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}

	return result, nil
}

func (c *client) FetchCreditCards(ctx context.Context) ([]*domain.CreditCard, error) {
	result, err := api.ExecuteRequest[[]*domain.CreditCard](ctx, c.api, http.MethodGet, getCreditCardsRoute, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("fetch credit cards: %w", err)
	}

	return result, nil
}

func (c *client) FetchTransactions(ctx context.Context, opts FetchTransactionOptions) ([]*domain.Transaction, error) {
	if err := opts.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	values := url.Values{}
	if !opts.Start.IsZero() {
		values.Add("start_date", opts.Start.Format(queryDateFormat))
	}

	if !opts.End.IsZero() {
		values.Add("end_date", opts.End.Format(queryDateFormat))
	}

	if opts.AccountID != 0 {
		values.Add("account_id", strconv.FormatInt(int64(opts.AccountID), 10))
	}

	result, err := api.ExecuteRequest[[]*domain.Transaction](ctx, c.api, http.MethodGet, getTransactionsRoute, values)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	return result, nil
}

type FetchTransactionOptions struct {
	Start     time.Time
	End       time.Time
	AccountID domain.AccountID
}

func (fto FetchTransactionOptions) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &fto,
		validation.Field(&fto.Start, validation.When(!fto.End.IsZero() && !fto.Start.IsZero(), validation.By(func(value any) error {
			start, ok := value.(time.Time)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a valid time")
			}

			if start.After(fto.End) {
				return validation.NewError("validation_invalid_time_range", "must not be after End")
			}

			return nil
		}))),
		validation.Field(&fto.AccountID, validation.Min(domain.AccountID(0)).Error("must not be negative")),
	)
}
