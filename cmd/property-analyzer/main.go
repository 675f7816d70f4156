package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/property-analyzer/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath   string
	envFile      string
	logLevel     string
	outputFormat string
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	// Logs go to stderr so that reports on stdout stay machine readable.
	zapConfig.OutputPaths = []string{"stderr"}
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// setup loads the environment file and configuration and builds the logger.
func (g *globalFlags) setup() (*config.Configuration, *zap.Logger, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, nil, err
	}

	conf, err := config.LoadConfiguration(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %q: %w", g.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, g.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return conf, logger, nil
}

// format returns the output format, preferring the CLI override.
func (g *globalFlags) format(conf *config.Configuration) string {
	if g.outputFormat != "" {
		return g.outputFormat
	}
	return conf.Output.Format
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "property-analyzer",
		Short:         "Analyze real-estate investment deals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to configuration file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "optional .env file with PROPERTY_ANALYZER_* overrides")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flags.outputFormat, "output-format", "o", "", "output format override: pretty, csv, json, yaml")

	rootCmd.AddCommand(newAnalyzeCmd(flags), newAmortizeCmd(flags), newTypesCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}
