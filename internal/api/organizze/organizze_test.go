package organizze_test

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/api"
	"github.com/caiohscruz/organizze-reports/internal/api/organizze"
	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/util/testutil"
	"github.com/stretchr/testify/require"
)

var credentials = organizze.Credentials{
	Name:   "Maria",
	Email:  "maria@example.com",
	APIKey: "mock-key",
}

func setup(t *testing.T, routes ...testutil.HTTPTestRoute) organizze.Client {
	t.Helper()

	server := testutil.NewHTTPTestServer(t, routes)
	client := organizze.New(&http.Client{}, credentials,
		api.WithBaseURL(server.URL),
		api.WithRetryCount(0),
	)

	return client
}

func expectedHeaders() http.Header {
	header := http.Header{}
	header.Add("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("maria@example.com:mock-key")))
	header.Add("User-Agent", "Maria (maria@example.com)")
	return header
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		client := organizze.New(nil, organizze.Credentials{})
		require.NotNil(t, client)
	})
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		credentials organizze.Credentials
		expectedErr string
	}{
		"valid": {
			credentials: credentials,
		},
		"missing email": {
			credentials: organizze.Credentials{Name: "Maria", APIKey: "mock-key"},
			expectedErr: "Email: is required.",
		},
		"missing everything": {
			credentials: organizze.Credentials{},
			expectedErr: "APIKey: is required; Email: is required; Name: is required.",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := test.credentials.Validate(t.Context())
			if test.expectedErr != "" {
				require.EqualError(t, err, test.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("user agent", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "Maria (maria@example.com)", credentials.UserAgent())
	})
}

func TestFetchCategories(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		route       testutil.HTTPTestRoute
		expected    []*domain.Category
		expectedErr *organizze.Error
		assertFn    func(t *testing.T, items []*domain.Category)
	}{
		"successful fetch": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/categories",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					testutil.AssertRequest(t, r, http.MethodGet, expectedHeaders(), url.Values{})
					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "categories.json")(w, r)
				},
			},
			expected: testutil.MarshalTestDataFile[[]*domain.Category](t, "categories.json"),
			assertFn: func(t *testing.T, items []*domain.Category) {
				t.Helper()

				require.Len(t, items, 3)
				require.Nil(t, items[0].ParentID)
				require.NotNil(t, items[1].ParentID)
				require.Equal(t, domain.CategoryID(1), *items[1].ParentID)
				require.True(t, items[2].Archived)
			},
		},
		"returns API error": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/categories",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					testutil.AssertRequest(t, r, http.MethodGet, nil, nil)
					testutil.ServeJSONTestDataHandler(t, http.StatusUnauthorized, "error.json")(w, r)
				},
			},
			expectedErr: &organizze.Error{
				HTTPStatus: http.StatusUnauthorized,
				Message:    "Invalid credentials",
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := setup(t, test.route)
			items, err := client.FetchCategories(t.Context())

			if test.expectedErr != nil {
				require.Empty(t, items)
				requireErrorEqual(t, *test.expectedErr, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, test.expected, items)
				if test.assertFn != nil {
					test.assertFn(t, items)
				}
			}
		})
	}
}

func TestFetchAccounts(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		route       testutil.HTTPTestRoute
		expected    []*domain.Account
		expectedErr *organizze.Error
	}{
		"successful fetch": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/accounts",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					testutil.AssertRequest(t, r, http.MethodGet, expectedHeaders(), url.Values{})
					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "accounts.json")(w, r)
				},
			},
			expected: []*domain.Account{
				{ID: 10, Name: "Conta Corrente", InstitutionName: "Banco X", Type: "checking"},
			},
		},
		"returns API error": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/accounts",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusForbidden)
				},
			},
			expectedErr: &organizze.Error{
				HTTPStatus: http.StatusForbidden,
				Message:    "Forbidden",
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := setup(t, test.route)
			items, err := client.FetchAccounts(t.Context())

			if test.expectedErr != nil {
				require.Empty(t, items)
				requireErrorEqual(t, *test.expectedErr, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, test.expected, items)
			}
		})
	}
}

func TestFetchCreditCards(t *testing.T) {
	t.Parallel()

	client := setup(t, testutil.HTTPTestRoute{
		Method: http.MethodGet,
		URL:    "/credit_cards",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			testutil.AssertRequest(t, r, http.MethodGet, expectedHeaders(), url.Values{})
			testutil.ServeJSONTestDataHandler(t, http.StatusOK, "credit_cards.json")(w, r)
		},
	})

	items, err := client.FetchCreditCards(t.Context())
	require.NoError(t, err)
	require.Equal(t, []*domain.CreditCard{
		{ID: 20, Name: "Cartão Platinum", CardNetwork: "visa", ClosingDay: 3, DueDay: 10},
	}, items)
}

func TestFetchTransactions(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		route         testutil.HTTPTestRoute
		opts          organizze.FetchTransactionOptions
		expectedItems []*domain.Transaction
		expectedErr   error
		assertFn      func(t *testing.T, items []*domain.Transaction)
	}{
		"successful fetch for a month": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/transactions",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					query := url.Values{}
					query.Add("start_date", "2024-05-01")
					query.Add("end_date", "2024-05-31")

					testutil.AssertRequest(t, r, http.MethodGet, expectedHeaders(), query)
					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "transactions.json")(w, r)
				},
			},
			opts: organizze.FetchTransactionOptions{
				Start: start,
				End:   end,
			},
			expectedItems: testutil.MarshalTestDataFile[[]*domain.Transaction](t, "transactions.json"),
			assertFn: func(t *testing.T, items []*domain.Transaction) {
				t.Helper()

				require.Len(t, items, 3)
				require.Equal(t, domain.TransactionID(100), items[0].ID)
				require.Equal(t, int64(-4550), *items[0].AmountCents)
				require.Equal(t, "2024-05-02", items[0].Date.String())
				require.Nil(t, items[1].AccountID)
				require.Equal(t, domain.CreditCardID(20), *items[1].CreditCardID)
				require.Nil(t, items[2].AmountCents)
				require.Nil(t, items[2].CategoryID)
			},
		},
		"sends no dates for the current month": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/transactions",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					testutil.AssertRequest(t, r, http.MethodGet, expectedHeaders(), url.Values{})
					testutil.ServeJSONTestDataHandler(t, http.StatusOK, "transactions.json")(w, r)
				},
			},
			expectedItems: testutil.MarshalTestDataFile[[]*domain.Transaction](t, "transactions.json"),
		},
		"sends account filter": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/transactions",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					query := url.Values{}
					query.Add("account_id", "10")

					testutil.AssertRequest(t, r, http.MethodGet, expectedHeaders(), query)
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte("[]"))
				},
			},
			opts: organizze.FetchTransactionOptions{
				AccountID: 10,
			},
			expectedItems: []*domain.Transaction{},
		},
		"returns error when invalid options": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/transactions",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					t.Error("request must not be sent")
				},
			},
			opts: organizze.FetchTransactionOptions{
				Start: end,
				End:   start,
			},
			expectedErr: errors.New("Start: must not be after End"),
		},
		"returns validation error from API": {
			route: testutil.HTTPTestRoute{
				Method: http.MethodGet,
				URL:    "/transactions",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					testutil.ServeJSONTestDataHandler(t, http.StatusUnprocessableEntity, "validation_error.json")(w, r)
				},
			},
			opts: organizze.FetchTransactionOptions{
				Start: start,
				End:   end,
			},
			expectedErr: errors.New("end_date: is invalid, is before start_date; start_date: is invalid (http status=422)"),
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := setup(t, test.route)

			items, err := client.FetchTransactions(t.Context(), test.opts)
			if test.expectedErr != nil {
				require.Empty(t, items)
				require.ErrorContains(t, err, test.expectedErr.Error())
			} else {
				require.NoError(t, err)
				require.Equal(t, test.expectedItems, items)
				if test.assertFn != nil {
					test.assertFn(t, items)
				}
			}
		})
	}
}

func TestUnmarshalError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status   int
		body     string
		expected organizze.Error
	}{
		"error message": {
			status:   http.StatusUnauthorized,
			body:     `{"error": "Invalid credentials"}`,
			expected: organizze.Error{HTTPStatus: http.StatusUnauthorized, Message: "Invalid credentials"},
		},
		"field errors sorted by field": {
			status:   http.StatusUnprocessableEntity,
			body:     `{"errors": {"b": ["x"], "a": ["y", "z"]}}`,
			expected: organizze.Error{HTTPStatus: http.StatusUnprocessableEntity, Message: "a: y, z; b: x"},
		},
		"plain text body": {
			status:   http.StatusBadGateway,
			body:     " upstream down \n",
			expected: organizze.Error{HTTPStatus: http.StatusBadGateway, Message: "upstream down"},
		},
		"empty body": {
			status:   http.StatusNotFound,
			expected: organizze.Error{HTTPStatus: http.StatusNotFound, Message: "Not Found"},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := organizze.UnmarshalError(test.status, []byte(test.body))
			requireErrorEqual(t, test.expected, err)
		})
	}
}

func requireErrorEqual(t *testing.T, expectedErr organizze.Error, err error) {
	t.Helper()

	require.Error(t, err)

	var apiErr organizze.Error
	ok := errors.As(err, &apiErr)
	require.True(t, ok)

	require.Equal(t, expectedErr.HTTPStatus, apiErr.HTTPStatus)
	require.Equal(t, expectedErr.Message, apiErr.Message)
}
