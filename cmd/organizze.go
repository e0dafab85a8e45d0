package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/api"
	"github.com/caiohscruz/organizze-reports/internal/api/organizze"
	"github.com/caiohscruz/organizze-reports/internal/log"
	"github.com/spf13/cobra"
)

const (
	timeFormat = time.DateOnly
	timeout    = 30 * time.Second

	envName   = "ORGANIZZE_NAME"
	envEmail  = "ORGANIZZE_EMAIL"
	envAPIKey = "ORGANIZZE_API_KEY"
)

type organizzeOptions struct {
	Name    string
	Email   string
	APIKey  string
	Timeout time.Duration
	BaseURL string
}

func addOrganizzeFlags(cmd *cobra.Command, opts *organizzeOptions) {
	cmd.Flags().StringVar(&opts.Name, "name", "", fmt.Sprintf("Organizze user name, sent in the User-Agent (alternative: set %s)", envName))
	cmd.Flags().StringVar(&opts.Email, "email", "", fmt.Sprintf("Organizze login email (alternative: set %s)", envEmail))
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", fmt.Sprintf("Organizze API key (alternative: set %s)", envAPIKey))
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", timeout, "API request timeout")
	cmd.Flags().StringVar(&opts.BaseURL, "api-url", "", "Organizze API base URL")
	_ = cmd.Flags().MarkHidden("api-url")
}

// credentials resolves each value from its flag first, then from the environment.
func (o *organizzeOptions) credentials(ctx context.Context) (organizze.Credentials, error) {
	credentials := organizze.Credentials{
		Name:   fromFlagOrEnv(ctx, o.Name, envName),
		Email:  fromFlagOrEnv(ctx, o.Email, envEmail),
		APIKey: fromFlagOrEnv(ctx, o.APIKey, envAPIKey),
	}

	if err := credentials.Validate(ctx); err != nil {
		return credentials, fmt.Errorf("credentials: %w", err)
	}

	return credentials, nil
}

func (o *organizzeOptions) newClient(ctx context.Context) (organizze.Client, error) {
	credentials, err := o.credentials(ctx)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout: o.Timeout,
	}

	var opts []api.Option
	if o.BaseURL != "" {
		opts = append(opts, api.WithBaseURL(o.BaseURL))
	}

	return organizze.New(client, credentials, opts...), nil
}

func fromFlagOrEnv(ctx context.Context, flagValue string, envVar string) string {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value
	}

	value := strings.TrimSpace(os.Getenv(envVar))
	if value != "" {
		log.FromContext(ctx).DebugContext(ctx, "using value from environment variable", slog.String("env.var", envVar))
	}

	return value
}

func parseDate(str string) (time.Time, error) {
	return time.Parse(timeFormat, str)
}
