package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/secagent/secagent/internal/completion"
	"github.com/secagent/secagent/internal/directive"
	"github.com/secagent/secagent/internal/schema"
)

// ToolsMarker is streamed after a generation that contained tool directives.
const ToolsMarker = "\n\n[Executing tools...]\n"

// LoopRunner executes the generate ↔ directive loop for one user turn.
type LoopRunner struct {
	service  completion.Service
	scanner  *directive.Scanner
	context  *ContextBuilder
	settings schema.Settings
}

func newLoopRunner(service completion.Service, scanner *directive.Scanner, cb *ContextBuilder, settings schema.Settings) LoopRunner {
	return LoopRunner{service: service, scanner: scanner, context: cb, settings: settings}
}

func (r *LoopRunner) request(prompt string) completion.Request {
	return completion.Request{
		Model:       r.settings.Model,
		Prompt:      prompt,
		Temperature: r.settings.Temperature,
		TopP:        r.settings.TopP,
	}
}

// run drives at most MaxToolIterations generate cycles. Text is handed to
// yield as it arrives; when yield returns false the loop stops without
// calling it again. The returned error is the generation failure that ended
// the turn, if any. A cancelled turn yields no error chunk.
func (r *LoopRunner) run(ctx context.Context, systemPrompt string, history *schema.Entries, yield func(string) bool) error {
	log := slog.With("session", r.settings.SessionID)
	for i := 0; i < r.settings.MaxToolIterations; i++ {
		prompt := r.context.BuildPrompt(systemPrompt, history.Snapshot())

		var full strings.Builder
		for chunk, err := range r.service.Generate(ctx, r.request(prompt)) {
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) {
					log.Debug("Generate cancelled", "model", r.settings.Model)
					return err
				}
				log.Error("Generate failed", "model", r.settings.Model, "err", err)
				yield("\nError: " + err.Error())
				return err
			}
			if chunk.Text == "" {
				continue
			}
			full.WriteString(chunk.Text)
			if !yield(chunk.Text) {
				return nil
			}
		}

		res := r.scanner.ScanAndExecute(ctx, full.String())
		if !res.Executed {
			history.AddAssistant(full.String())
			return nil
		}

		log.Debug("Tools executed", "iteration", i+1, "calls", len(res.Calls))
		history.Append(res.Calls...)
		history.AddAssistant(res.Text)
		if !yield(ToolsMarker) {
			return nil
		}
	}

	log.Warn("Tool iteration bound reached", "max", r.settings.MaxToolIterations)
	return nil
}
