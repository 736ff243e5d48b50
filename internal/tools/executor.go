package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/shared/stringutils"
)

// Executor runs validated tool calls against the registry. It never fails:
// every problem is rendered as an "Error..." string so the conversation can
// continue.
type Executor struct {
	registry *Registry
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute invokes the named tool. Undeclared parameters are dropped and
// schema defaults fill absent optional parameters before the call.
func (e *Executor) Execute(ctx context.Context, name string, params map[string]schema.Value) (result string) {
	tool, ok := e.registry.Lookup(name)
	if !ok {
		return fmt.Sprintf("Error: Unknown tool '%s'", name)
	}

	args := bindArgs(tool.Schema(), params)

	argsJSON, _ := json.Marshal(args)
	slog.Info("Tool call", "name", name, "args", stringutils.Truncate(string(argsJSON), 200))

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool panicked", "name", name, "panic", r)
			result = fmt.Sprintf("Error executing %s: %v", name, r)
		}
	}()

	out, err := tool.Execute(ctx, args)
	if err != nil {
		slog.Warn("Tool failed", "name", name, "err", err)
		if errors.Is(err, ErrInvalidParams) {
			return fmt.Sprintf("Error: Invalid parameters for %s: %v", name, err)
		}
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return out
}

func bindArgs(s schema.ToolSchema, params map[string]schema.Value) Args {
	args := make(Args, len(s.Parameters))
	for _, p := range s.Parameters {
		if v, ok := params[p.Name]; ok {
			args[p.Name] = v
			continue
		}
		if p.Default != nil {
			args[p.Name] = *p.Default
		}
	}
	return args
}
