package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/secagent/secagent/internal/completion"
	"github.com/secagent/secagent/internal/directive"
	"github.com/secagent/secagent/internal/prompts"
	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/tools"
)

// New constructs an Agent with an empty history.
// A non-positive MaxToolIterations is replaced by the default, and an empty
// SessionID gets a fresh UUID. The initial mode must be a known prompt mode.
func New(settings schema.Settings, service completion.Service, registry *tools.Registry) (*Agent, error) {
	if settings.Mode == "" {
		settings.Mode = schema.DefaultMode
	}
	systemPrompt, err := prompts.Get(settings.Mode)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	if settings.MaxToolIterations <= 0 {
		settings.MaxToolIterations = schema.DefaultMaxToolIterations
	}
	if settings.SessionID == "" {
		settings.SessionID = uuid.NewString()
	}

	scanner := directive.NewScanner(tools.NewValidator(registry), tools.NewExecutor(registry))
	return &Agent{
		LoopRunner:   newLoopRunner(service, scanner, NewContextBuilder(registry), settings),
		registry:     registry,
		systemPrompt: systemPrompt,
	}, nil
}
