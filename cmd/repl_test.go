package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/agent"
	"github.com/secagent/secagent/internal/completion"
	"github.com/secagent/secagent/internal/prompts"
	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/tools"
)

type stubReader struct {
	lines []string
}

func (s *stubReader) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type stubAssistant struct {
	agent.Assistant

	mode      string
	sent      []string
	history   []schema.Entry
	models    []string
	modelsErr error
}

func (s *stubAssistant) Stream(_ context.Context, message string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s.sent = append(s.sent, message)
		s.history = append(s.history, schema.NewUserEntry(message), schema.NewAssistantEntry("ack"))
		yield("ack")
	}
}

func (s *stubAssistant) ClearHistory()           { s.history = nil }
func (s *stubAssistant) History() []schema.Entry { return s.history }
func (s *stubAssistant) PromptMode() string      { return s.mode }
func (s *stubAssistant) PromptModes() []string   { return prompts.Modes() }
func (s *stubAssistant) ToolsSummary() string    { return "Available Tools:" }
func (s *stubAssistant) ListModels(context.Context) ([]string, error) {
	return s.models, s.modelsErr
}

func (s *stubAssistant) SetPromptMode(mode string) error {
	if _, err := prompts.Get(mode); err != nil {
		return err
	}
	s.mode = mode
	return nil
}

func runStubREPL(t *testing.T, a *stubAssistant, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(&stubReader{lines: lines}, &out, a)
	r.interrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithCancel(ctx)
	}
	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestREPL_ChatAndExit(t *testing.T) {
	a := &stubAssistant{mode: prompts.ModeDefault}
	out := runStubREPL(t, a, "  ", "Is port 23 risky?", "/EXIT", "never sent")

	if len(a.sent) != 1 || a.sent[0] != "Is port 23 risky?" {
		t.Errorf("sent = %q", a.sent)
	}
	if !strings.Contains(out, "\nAgent: ack\n\n") || !strings.HasSuffix(out, "Exiting...\n") {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_EOF(t *testing.T) {
	out := runStubREPL(t, &stubAssistant{})
	if out != "\nGoodbye!\n" {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_ModeCommands(t *testing.T) {
	a := &stubAssistant{mode: prompts.ModeDefault}
	out := runStubREPL(t, a, "/mode pirate", "/mode Malware", "/mode malware", "/mode", "/modes")

	if !strings.Contains(out, "✗ Unknown mode: pirate\nUse /modes to see available modes\n") {
		t.Errorf("unknown mode output missing:\n%s", out)
	}
	if !strings.Contains(out, "✗ Unknown mode: Malware\n") {
		t.Error("mode names are case-sensitive")
	}
	if !strings.Contains(out, "✓ Switched to 'malware' mode\n") || a.mode != prompts.ModeMalware {
		t.Errorf("switch failed, mode = %q:\n%s", a.mode, out)
	}
	if !strings.Contains(out, "Current mode: malware\n") {
		t.Errorf("bare /mode output missing:\n%s", out)
	}
	if !strings.Contains(out, " * malware") || !strings.Contains(out, "   default") {
		t.Errorf("modes listing should mark the current mode:\n%s", out)
	}
	if len(a.sent) != 0 {
		t.Errorf("commands reached the agent: %q", a.sent)
	}
}

func TestREPL_InfoCommands(t *testing.T) {
	a := &stubAssistant{models: []string{"llama2:latest"}}
	out := runStubREPL(t, a, "hello", "/history", "/clear", "/history", "/models", "/tools", "/help")

	for _, want := range []string{
		"  1. [user] hello\n  2. [assistant] ack\n",
		"✓ Conversation history cleared\n(no history)\n",
		"Available models:\n  - llama2:latest\n",
		"Available Tools:\n",
		"Special commands:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	a = &stubAssistant{modelsErr: errors.New("HTTP 500: boom")}
	out = runStubREPL(t, a, "/models")
	if !strings.Contains(out, "Error fetching models: HTTP 500: boom\n") {
		t.Errorf("output = %q", out)
	}
}

// cancellableService streams one chunk, then fails with the context error
// once the turn has been cancelled.
type cancellableService struct{}

func (cancellableService) Generate(ctx context.Context, _ completion.Request) iter.Seq2[completion.Chunk, error] {
	return func(yield func(completion.Chunk, error) bool) {
		if !yield(completion.Chunk{Text: "partial"}, nil) {
			return
		}
		<-ctx.Done()
		yield(completion.Chunk{}, ctx.Err())
	}
}

func (cancellableService) ListModels(context.Context) ([]string, error) { return nil, nil }
func (cancellableService) Ping(context.Context) error                   { return nil }

func TestREPL_InterruptedTurn(t *testing.T) {
	a, err := agent.New(schema.NewSettings(), cancellableService{}, tools.NewCatalog(tools.CatalogOptions{WorkingDir: t.TempDir()}))
	if err != nil {
		t.Fatalf("agent.New: %v", err)
	}

	var out bytes.Buffer
	r := newREPL(&stubReader{lines: []string{"scan the host"}}, &out, a)
	r.interrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		return ctx, cancel
	}
	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(out.String(), "\nAgent: partial\nInterrupted\n\n") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "Error:") {
		t.Errorf("cancellation surfaced as an error: %q", out.String())
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model: from-file\nhost: http://gpu:11434\ntopP: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := &cobra.Command{Use: "test"}
	c.Flags().AddFlagSet(rootCmd.PersistentFlags())
	if err := c.ParseFlags([]string{"--config", path, "--model", "from-flag", "--max-tool-iterations", "5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	t.Cleanup(func() { flagConfig = "" })

	cfg, err := loadConfig(c)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Model != "from-flag" || cfg.MaxToolIterations != 5 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Host != "http://gpu:11434" || cfg.TopP != 0.5 {
		t.Errorf("unset flags overrode the file: %+v", cfg)
	}
}
