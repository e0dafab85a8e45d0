package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/caiohscruz/organizze-reports/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "embed"
)

const defaultEnvFile = ".env"

var (
	BuildVersion  = `(missing)`
	BuildShortSHA = `(missing)`

	//go:embed cmd_example.txt
	cmdExample string
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "organizze-reports",
		Short:   "Organizze spending reports",
		Long:    `A CLI that builds spending reports by category from your Organizze data.`,
		Version: fmt.Sprintf("%s (%s)", BuildVersion, BuildShortSHA),
		Example: cmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			format, err := logFormat(cmd)
			if err != nil {
				return err
			}

			logger := log.New(
				log.WithWriter(cmd.ErrOrStderr()),
				log.WithVerbose(verbose),
				log.WithFormat(format),
				log.WithAttrs(
					slog.String("build.version", BuildVersion),
					slog.String("build.sha", BuildShortSHA),
				),
			)

			ctx := log.WithContext(cmd.Context(), logger)
			cmd.SetContext(ctx)

			envFile, _ := cmd.Flags().GetString("env-file")
			return loadEnvFile(ctx, envFile, cmd.Flags().Changed("env-file"))
		},
	}

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("no-colour", "", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolP("json", "", false, "log as JSON")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, colour or json (overrides --json and --no-colour)")
	rootCmd.PersistentFlags().String("env-file", defaultEnvFile, "file with environment variables to load")

	rootCmd.AddCommand(
		newReportCommand(),
		newTransactionsCommand(),
		newCategoriesCommand(),
	)

	return rootCmd
}

func logFormat(cmd *cobra.Command) (log.Format, error) {
	if value, _ := cmd.Flags().GetString("log-format"); value != "" {
		return log.ParseFormat(value)
	}

	noColour, _ := cmd.Flags().GetBool("no-colour")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	switch {
	case jsonOutput:
		return log.FormatJSON, nil
	case noColour:
		return log.FormatText, nil
	default:
		return log.FormatColour, nil
	}
}

// loadEnvFile loads variables that are not already set. A missing default file is not an error.
func loadEnvFile(ctx context.Context, path string, explicit bool) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("env file %s: %w", path, err)
	}

	log.FromContext(ctx).DebugContext(ctx, "loaded env file", slog.String("env.file", path))
	return nil
}

func Main(ctx context.Context, args []string, output io.Writer, errOutput io.Writer) error {
	rootCmd := newRootCommand()
	rootCmd.SetOut(output)
	rootCmd.SetErr(errOutput)
	rootCmd.SetArgs(args[1:])

	return rootCmd.ExecuteContext(ctx)
}
