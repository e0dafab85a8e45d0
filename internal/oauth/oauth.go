package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/caiohscruz/organizze-reports/internal/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/int128/oauth2cli"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/sheets/v4"
)

const defaultBindAddress = "127.0.0.1:0"

// Config describes an installed application using the loopback redirect flow.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       []string
	BindAddress  string // Local address for the redirect listener. A zero port picks a free one.
}

// GoogleSheetsConfig returns a Config for a Google "Desktop app" OAuth client allowed to create spreadsheets.
func GoogleSheetsConfig(clientID, clientSecret string) *Config {
	return &Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      google.Endpoint.AuthURL,
		TokenURL:     google.Endpoint.TokenURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

func (c *Config) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.ClientID, validation.Required.Error("client id is required")),
		validation.Field(&c.ClientSecret, validation.Required.Error("client secret is required")),
		validation.Field(&c.AuthURL, validation.Required.Error("auth url is required")),
		validation.Field(&c.TokenURL, validation.Required.Error("token url is required")),
		validation.Field(&c.Scopes, validation.Required.Error("at least one scope is required")),
	)
}

func (c *Config) ToOAuth2Config() oauth2.Config {
	return oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.AuthURL,
			TokenURL: c.TokenURL,
		},
		Scopes: c.Scopes,
	}
}

// Client returns an HTTP client that authorizes requests with token and refreshes it when it expires.
func (c *Config) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	cfg := c.ToOAuth2Config()
	return cfg.Client(ctx, token)
}

// Exchange opens the consent page in a browser and waits for the redirect carrying the authorization code.
func Exchange(ctx context.Context, cfg *Config) (*oauth2.Token, error) {
	if err := cfg.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid oauth2 config: %w", err)
	}

	bindAddress := cfg.BindAddress
	if bindAddress == "" {
		bindAddress = defaultBindAddress
	}

	ready := make(chan string, 1)
	defer close(ready)

	token, err := exchangeToken(ctx, ready, &oauth2cli.Config{
		OAuth2Config:           cfg.ToOAuth2Config(),
		LocalServerReadyChan:   ready,
		LocalServerBindAddress: []string{bindAddress},
		Logf: func(format string, args ...any) {
			log.FromContext(ctx).DebugContext(ctx, fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).DebugContext(ctx, "exchanged oauth token", slog.Time("oauth.expiry", token.Expiry))

	return token, nil
}

func exchangeToken(ctx context.Context, ready chan string, cfg *oauth2cli.Config) (*oauth2.Token, error) {
	var token *oauth2.Token

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return LoginWithBrowser(ctx, ready, browser.OpenURL)
	})

	errg.Go(func() error {
		oauthToken, err := oauth2cli.GetToken(ctx, *cfg)
		if err != nil {
			return fmt.Errorf("could not get oauth token: %w", err)
		}
		token = oauthToken
		return nil
	})

	if err := errg.Wait(); err != nil {
		return nil, fmt.Errorf("authorization error: %w", err)
	}

	return token, nil
}

// LoginWithBrowser waits for the local redirect server and opens the login URL it reports.
// A browser that fails to open is only logged, the URL can still be opened by hand.
func LoginWithBrowser(ctx context.Context, ready <-chan string, browserOpenURLFn func(string) error) error {
	select {
	case loginURL := <-ready:
		logger := log.FromContext(ctx)
		logger.InfoContext(ctx, "you will be redirected to your web browser to authorize Google Sheets access")
		logger.InfoContext(ctx, fmt.Sprintf("if the page did not open automatically, open this URL manually: %s", loginURL))

		if err := browserOpenURLFn(loginURL); err != nil {
			logger.WarnContext(ctx, "could not open browser", slog.Any("err", err))
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done while waiting for auth: %w", ctx.Err())
	}
}
