package agent

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	"github.com/secagent/secagent/internal/prompts"
	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/tools"
)

// Assistant is the session surface used by the CLI and the tracing decorator.
type Assistant interface {
	Stream(ctx context.Context, message string) iter.Seq[string]
	Respond(ctx context.Context, message string) string
	ClearHistory()
	History() []schema.Entry
	SetPromptMode(mode string) error
	PromptMode() string
	PromptModes() []string
	ListModels(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	ToolsSummary() string
	Settings() schema.Settings
	// Err reports the generation failure that ended the most recent turn.
	Err() error
}

// Agent owns one conversation: its history, the active prompt mode and the
// loop that talks to the completion service.
//
// An Agent is not safe for concurrent turns.
type Agent struct {
	LoopRunner

	registry     *tools.Registry
	systemPrompt string
	history      schema.Entries
	lastErr      error
}

var _ Assistant = (*Agent)(nil)

// Stream runs one user turn. The sequence yields model text as it arrives,
// the tools marker after each tool-bearing generation, and a single error
// chunk if generation fails. Breaking out of the range cancels the
// in-flight generation.
func (a *Agent) Stream(ctx context.Context, message string) iter.Seq[string] {
	return func(yield func(string) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		a.history.AddUser(message)
		a.lastErr = a.run(ctx, a.systemPrompt, &a.history, yield)
	}
}

// Respond runs one user turn and returns everything Stream would yield.
func (a *Agent) Respond(ctx context.Context, message string) string {
	var sb strings.Builder
	for chunk := range a.Stream(ctx, message) {
		sb.WriteString(chunk)
	}
	return sb.String()
}

func (a *Agent) ClearHistory() {
	a.history.Clear()
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []schema.Entry {
	return a.history.Snapshot()
}

// SetPromptMode switches the system prompt. An unknown mode leaves the
// agent unchanged and returns an error wrapping prompts.ErrUnknownMode.
func (a *Agent) SetPromptMode(mode string) error {
	text, err := prompts.Get(mode)
	if err != nil {
		return err
	}
	slog.Info("Prompt mode switched", "from", a.settings.Mode, "to", mode)
	a.settings.Mode = mode
	a.systemPrompt = text
	return nil
}

func (a *Agent) PromptMode() string { return a.settings.Mode }

func (a *Agent) PromptModes() []string { return prompts.Modes() }

func (a *Agent) ListModels(ctx context.Context) ([]string, error) {
	return a.service.ListModels(ctx)
}

func (a *Agent) Ping(ctx context.Context) error {
	return a.service.Ping(ctx)
}

// ToolsSummary is the grouped, numbered listing shown by /tools.
func (a *Agent) ToolsSummary() string {
	return tools.Summary(a.registry)
}

func (a *Agent) Settings() schema.Settings { return a.settings }

func (a *Agent) Err() error { return a.lastErr }
