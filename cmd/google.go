package cmd

import (
	"context"
	"fmt"

	"github.com/caiohscruz/organizze-reports/internal/gsheets"
	"github.com/caiohscruz/organizze-reports/internal/oauth"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"google.golang.org/api/option"
)

const (
	envGoogleClientID     = "GOOGLE_CLIENT_ID"
	envGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
)

type sheetsUploader struct {
	config   *oauth.Config
	currency string
}

// newSheetsUploader checks the Google client credentials before any report data is fetched.
func newSheetsUploader(ctx context.Context, clientID, clientSecret, currency string) (*sheetsUploader, error) {
	config := oauth.GoogleSheetsConfig(
		fromFlagOrEnv(ctx, clientID, envGoogleClientID),
		fromFlagOrEnv(ctx, clientSecret, envGoogleClientSecret),
	)

	if err := config.Validate(ctx); err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}

	return &sheetsUploader{
		config:   config,
		currency: currency,
	}, nil
}

func (u *sheetsUploader) upload(ctx context.Context, title string, tables []*report.Table) (*gsheets.Spreadsheet, error) {
	token, err := oauth.Exchange(ctx, u.config)
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}

	writer, err := gsheets.New(ctx, u.currency, option.WithHTTPClient(u.config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}

	spreadsheet, err := writer.Write(ctx, title, tables)
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}

	return spreadsheet, nil
}
