package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/completion"
)

// maxListedModels caps the models printed by check-connection.
const maxListedModels = 10

const probeTimeout = 10 * time.Second

var checkConnectionCmd = &cobra.Command{
	Use:   "check-connection",
	Short: "Check the connection to the model server",
	Args:  cobra.NoArgs,
	RunE:  runCheckConnection,
}

func runCheckConnection(cmd *cobra.Command, _ []string) error {
	cfgPath := configPath()
	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:  %s %s\n", cfgPath, cfgMark)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("Backend: %s\n", cfg.Backend)
	fmt.Printf("Model:   %s\n\n", cfg.Model)

	svc, err := completion.New(completion.Params{Backend: cfg.Backend, Host: cfg.Host, APIKey: cfg.APIKey})
	if err != nil {
		return err
	}

	fmt.Printf("Connecting to %s...\n", cfg.Host)
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return checkConnection(ctx, os.Stdout, svc, cfg.Host)
}

// checkConnection lists the server's models; the listing doubles as the
// reachability check.
func checkConnection(ctx context.Context, w io.Writer, svc completion.Service, host string) error {
	models, err := svc.ListModels(ctx)
	if err != nil {
		fmt.Fprintln(w, "✗ Cannot connect to the model server")
		fmt.Fprintf(w, "Host: %s\n\n", host)
		fmt.Fprintln(w, "Make sure:")
		fmt.Fprintln(w, "  1. Ollama is installed (https://ollama.ai)")
		fmt.Fprintln(w, "  2. Ollama is running: ollama serve")
		fmt.Fprintf(w, "  3. The host is correct: %s\n", host)
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Fprintln(w, "✓ Connected")
	fmt.Fprintf(w, "Host: %s\n", host)
	fmt.Fprintf(w, "Available models: %d\n\n", len(models))
	for _, m := range models[:min(len(models), maxListedModels)] {
		fmt.Fprintf(w, "  • %s\n", m)
	}
	return nil
}
