package directive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/secagent/secagent/internal/schema"
)

// Validator checks a call against the tool schemas.
type Validator interface {
	Validate(name string, params map[string]schema.Value) error
}

// Executor runs a validated call and renders its outcome as text.
type Executor interface {
	Execute(ctx context.Context, name string, params map[string]schema.Value) string
}

// Result is the outcome of one ScanAndExecute pass.
type Result struct {
	// Text is the response with every directive replaced by its result block.
	Text string
	// Executed reports whether at least one directive was found.
	Executed bool
	// Calls holds one tool-result entry per directive, in discovery order.
	Calls []schema.Entry
}

// Scanner finds tool directives in model output and runs them.
type Scanner struct {
	validator Validator
	executor  Executor
}

func NewScanner(v Validator, e Executor) *Scanner {
	return &Scanner{validator: v, executor: e}
}

// FormatResult renders the block that replaces a directive in the response.
func FormatResult(tool, result string) string {
	return fmt.Sprintf("\n[Tool '%s' executed]\nResult: %s\n", tool, result)
}

// ScanAndExecute validates and executes every directive in text. A rejected
// directive still produces a result: the rejection message, so the model can
// correct itself on the next round.
func (s *Scanner) ScanAndExecute(ctx context.Context, text string) Result {
	res := Result{Text: text}
	for _, d := range Scan(text) {
		result := s.run(ctx, d)
		res.Text = strings.Replace(res.Text, d.Raw, FormatResult(d.Tool, result), 1)
		res.Calls = append(res.Calls, schema.NewToolResultEntry(d.Tool, result))
		res.Executed = true
	}
	return res
}

func (s *Scanner) run(ctx context.Context, d schema.Directive) string {
	if d.DecodeErr != nil {
		slog.Debug("Directive rejected", "tool", d.Tool, "err", d.DecodeErr)
		return "Error: " + d.DecodeErr.Error()
	}
	if err := s.validator.Validate(d.Tool, d.Params); err != nil {
		slog.Debug("Directive rejected", "tool", d.Tool, "err", err)
		return "Error: " + err.Error()
	}
	return s.executor.Execute(ctx, d.Tool, d.Params)
}
