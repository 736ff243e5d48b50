// Package cmd implements the secagent CLI using cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/config"
	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/shared/cmdutils"
)

const version = "0.1.0"

var (
	flagConfig        string
	flagModel         string
	flagHost          string
	flagBackend       string
	flagMode          string
	flagTemperature   float64
	flagTopP          float64
	flagMaxToolIter   int
	flagEnableTracing bool
	flagOTLPEndpoint  string
	flagLogs          bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "secagent",
	Short: cmdutils.Logo + " secagent: cybersecurity assistant for local models",
	Long: cmdutils.Logo + ` secagent: a cybersecurity chat agent backed by a local Ollama server.

The model can call built-in tools (shell, files, git, risk scoring,
checklists, host inspection) by emitting a one-line JSON directive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging(flagLogs)
	},
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $"+config.EnvConfigPath+" or ~/.secagent/config.yaml)")
	pf.StringVar(&flagModel, "model", schema.DefaultModel, "Model to use")
	pf.StringVar(&flagHost, "host", schema.DefaultHost, "Model server host")
	pf.StringVar(&flagBackend, "backend", schema.DefaultBackend, "Completion backend: ollama or openai")
	pf.StringVar(&flagMode, "mode", schema.DefaultMode, "System prompt mode")
	pf.Float64Var(&flagTemperature, "temperature", schema.DefaultTemperature, "Model temperature (0-1)")
	pf.Float64Var(&flagTopP, "top-p", schema.DefaultTopP, "Nucleus sampling threshold (0-1)")
	pf.IntVar(&flagMaxToolIter, "max-tool-iterations", schema.DefaultMaxToolIterations, "Generate cycles per message")
	pf.BoolVar(&flagEnableTracing, "enable-tracing", false, "Enable OpenTelemetry tracing")
	pf.StringVar(&flagOTLPEndpoint, "otlp-endpoint", "http://localhost:4317", "OTLP collector endpoint")
	pf.BoolVar(&flagLogs, "logs", false, "Show runtime logs")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(listModesCmd)
	rootCmd.AddCommand(checkConnectionCmd)
	rootCmd.AddCommand(toolsCmd)
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

// loadConfig reads the config file and applies the flags the user set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model = flagModel
	}
	if f.Changed("host") {
		cfg.Host = flagHost
	}
	if f.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if f.Changed("mode") {
		cfg.Mode = flagMode
	}
	if f.Changed("temperature") {
		cfg.Temperature = flagTemperature
	}
	if f.Changed("top-p") {
		cfg.TopP = flagTopP
	}
	if f.Changed("max-tool-iterations") {
		cfg.MaxToolIterations = flagMaxToolIter
	}
	if f.Changed("enable-tracing") {
		cfg.Telemetry.Enabled = flagEnableTracing
	}
	if f.Changed("otlp-endpoint") {
		cfg.Telemetry.OTLPEndpoint = flagOTLPEndpoint
	}
	return cfg, nil
}
