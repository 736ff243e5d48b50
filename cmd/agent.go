package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/config"
	"github.com/secagent/secagent/internal/dependency"
	"github.com/secagent/secagent/internal/shared/cmdutils"
)

// shutdownTimeout bounds the final telemetry flush.
const shutdownTimeout = 5 * time.Second

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive session with the agent",
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

var queryCmd = &cobra.Command{
	Use:   "query <message>",
	Short: "Send a single message and print the response",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

// startSession loads config, wires services and verifies the model server is
// reachable. The returned cleanup flushes telemetry.
func startSession(ctx context.Context, cmd *cobra.Command) (*dependency.Container, *config.Config, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	container, err := dependency.New(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := container.Close(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", "err", err)
		}
	}

	if container.Telemetry().Enabled() {
		fmt.Fprintf(os.Stderr, "✓ Tracing enabled (%s)\n", cfg.Telemetry.OTLPEndpoint)
	}

	if err := container.Assistant().Ping(ctx); err != nil {
		cleanup()
		fmt.Fprintln(os.Stderr, "Make sure Ollama is running: ollama serve")
		return nil, nil, nil, fmt.Errorf("cannot connect to %s: %w", cfg.Host, err)
	}
	return container, cfg, cleanup, nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	container, cfg, cleanup, err := startSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	settings := container.Assistant().Settings()
	fmt.Printf("%s Cybersecurity Agent\n", cmdutils.Logo)
	fmt.Printf("Model: %s | Mode: %s | Host: %s\n", settings.Model, settings.Mode, cfg.Host)
	fmt.Println("Type /help for commands, /exit to quit.")
	fmt.Println()

	r := newREPL(newLineReader(os.Stdin, os.Stdout), os.Stdout, container.Assistant())
	return r.run(ctx)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, _, cleanup, err := startSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	message := args[0]
	fmt.Printf("Query: %s\n\n", message)
	fmt.Print("Response:\n\n")
	cmdutils.StreamResponse(os.Stdout, container.Assistant().Stream(ctx, message))
	fmt.Println()
	return nil
}
