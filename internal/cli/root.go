package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/reactkit-labs/reactkit/internal/branding"
	"github.com/reactkit-labs/reactkit/internal/config"
	"github.com/reactkit-labs/reactkit/internal/logging"
	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagLogLevel  string
	flagLogFormat string
)

// Populated by the root PersistentPreRunE.
var (
	settings config.Values
	logger   = zerolog.Nop()
)

// Replaced in tests.
var (
	lookPath  toolchain.LookPathFunc = exec.LookPath
	newRunner                        = func(cmd *cobra.Command) toolchain.Runner {
		return &toolchain.ExecRunner{
			Stdout:  cmd.ErrOrStderr(),
			Stderr:  cmd.ErrOrStderr(),
			Timeout: settings.CommandTimeout,
			Logger:  logger,
		}
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console or json (default from config)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds React + TypeScript projects with testing, linting,
formatting and documentation configured, and commits the result to a new git repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		settings = config.Settings()
		if flagLogLevel != "" {
			settings.LogLevel = flagLogLevel
		}
		if flagLogFormat != "" {
			settings.LogFormat = flagLogFormat
		}
		logger = logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
		return nil
	},
}

// newValidator builds the request validator for projects created under
// parent.
func newValidator(r toolchain.Runner, parent string) *project.Validator {
	return &project.Validator{
		Tools:           &toolchain.Checker{Runner: r, LookPath: lookPath},
		Requirements:    toolchain.DefaultRequirements(settings.NodeVersion),
		ParentDir:       parent,
		DefaultTemplate: settings.DefaultTemplate,
	}
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the running command.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
