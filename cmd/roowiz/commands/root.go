// Package commands implements the CLI commands for roowiz.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rooforge/roowiz/internal/config"
	"github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/logging"
	"github.com/rooforge/roowiz/internal/wizard"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// projectFlag holds the value of the --project flag.
var projectFlag string

// registryURLFlag holds the value of the --registry-url flag.
var registryURLFlag string

// noCacheFlag holds the value of the --no-cache flag.
var noCacheFlag bool

// configFile holds the value of the --config flag.
var configFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedOptions holds the configuration loaded during initConfig.
var loadedOptions *config.Options

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "",
		"project root containing .roo/mcp.json and .roomodes (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&registryURLFlag, "registry-url", "",
		"override the connector registry base URL")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false,
		"bypass the registry response cache")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then ~/.config/roowiz/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	// Add version flag
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("roowiz version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	loadedOptions, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "roowiz",
	Short: "Configuration wizard for Roo MCP service connectors",
	Long: `roowiz manages the MCP service connector configuration of a project.

It orchestrates the two coupled documents that describe a project's
connectors: .roo/mcp.json (server launch configuration) and .roomodes
(the paired assistant modes). Connector metadata comes from a remote
registry; roowiz generates the records, keeps the two documents
consistent, and backs both up before every mutation.

Secret parameters are never written to disk. They are persisted as
${env:VAR} placeholders and resolved from the environment at run time.`,
	Example: `  # Configure a connector from the registry
  roowiz configure github --param token=$GITHUB_TOKEN

  # List configured connectors
  roowiz list

  # Audit for security issues and fix them
  roowiz audit --fix

  See Also: roowiz registry, roowiz validate, roowiz backup`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("ROOWIZ_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load failures before any command runs.
func checkConfig(cmd *cobra.Command, _ []string) error {
	// Skip for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	return nil
}

// effectiveOptions merges the loaded configuration with flag overrides.
func effectiveOptions() config.Options {
	opts := config.Default()
	if loadedOptions != nil {
		opts = *loadedOptions
	}

	if projectFlag != "" {
		opts.ProjectPath = projectFlag
	}
	if registryURLFlag != "" {
		opts.RegistryURL = registryURLFlag
	}
	if noCacheFlag {
		opts.CacheEnabled = false
	}

	return opts
}

// newWizard builds a Wizard wired to the command's logger.
func newWizard(cmd *cobra.Command) *wizard.Wizard {
	return wizard.New(effectiveOptions(),
		wizard.WithLogger(logging.FromContext(cmd.Context())))
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
