package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/log"
	resty "resty.dev/v3"
)

const (
	defaultTimeout          = 1 * time.Minute
	defaultRetryCount       = 3
	defaultRetryWaitTime    = 2 * time.Second
	defaultMaxRetryWaitTime = 10 * time.Second
)

type BaseClient struct {
	resty               *resty.Client
	errorUnmarshallerFn func(r *resty.Response) error
}

type Option func(*BaseClient)

func New(baseURL string, httpClient *http.Client, opts ...Option) *BaseClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &BaseClient{}
	c.resty = resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultMaxRetryWaitTime).
		AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
			req := r.Request
			ctx := req.Context()

			log.FromContext(ctx).DebugContext(ctx, "performed HTTP request",
				slog.String("http.url", req.URL),
				slog.String("http.method", req.Method),
				slog.Any("err", r.Err),
				slog.Duration("http.duration_ms", r.ReceivedAt().Sub(req.Time)),
				slog.Int("http.status_code", r.StatusCode()),
			)
			return nil
		}).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(c)
	}

	return c
}

// WithBasicAuth authenticates every request with HTTP Basic credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *BaseClient) {
		c.resty.SetBasicAuth(username, password)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *BaseClient) {
		c.resty.SetHeader("User-Agent", userAgent)
	}
}

func WithBaseURL(url string) Option {
	return func(c *BaseClient) {
		c.resty.SetBaseURL(url)
	}
}

// WithRetryCount overrides the number of retries on transport errors and 5xx responses.
func WithRetryCount(count int) Option {
	return func(c *BaseClient) {
		c.resty.SetRetryCount(count)
	}
}

func WithRetryWaitTime(wait, maxWait time.Duration) Option {
	return func(c *BaseClient) {
		c.resty.SetRetryWaitTime(wait).SetRetryMaxWaitTime(maxWait)
	}
}

func WithErrorUnmarshaller(unmarshallerFn func(r *resty.Response) error) Option {
	return func(c *BaseClient) {
		c.errorUnmarshallerFn = unmarshallerFn
	}
}

// ExecuteRequest performs the request and decodes a successful JSON body into a new T.
func ExecuteRequest[T any](ctx context.Context, c *BaseClient, method, route string, values url.Values) (T, error) {
	var result T

	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&result).
		SetUnescapeQueryParams(false).
		SetQueryParamsFromValues(values).
		Execute(method, route)
	if err != nil {
		return result, fmt.Errorf("%s %s failed: %w", method, route, err)
	}

	if resp.IsError() {
		if c.errorUnmarshallerFn != nil {
			return result, c.errorUnmarshallerFn(resp)
		}

		return result, fmt.Errorf("HTTP request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	return result, nil
}
