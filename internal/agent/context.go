package agent

import (
	"github.com/secagent/secagent/internal/prompts"
	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/tools"
)

// ContextBuilder assembles the flat prompt text sent to the completion service.
// The tool catalog and call instructions are fixed for the registry's lifetime,
// so they are rendered once at construction.
type ContextBuilder struct {
	catalog      string
	instructions string
}

// NewContextBuilder creates a ContextBuilder for the given registry.
func NewContextBuilder(registry *tools.Registry) *ContextBuilder {
	return &ContextBuilder{
		catalog:      tools.PromptCatalog(registry),
		instructions: tools.CallInstructions(),
	}
}

// BuildPrompt renders the system prompt, catalog and the full history.
func (cb *ContextBuilder) BuildPrompt(systemPrompt string, history []schema.Entry) string {
	return prompts.Render(systemPrompt, cb.catalog, cb.instructions, history)
}
