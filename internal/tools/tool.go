package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/secagent/secagent/internal/schema"
)

// ErrInvalidParams is returned by a tool when the arguments it received do not
// fit its parameter list.
var ErrInvalidParams = errors.New("invalid parameters")

// Tool is the interface every model-callable capability satisfies.
//
// Execute returns a human-readable result for both success and ordinary
// failure (missing file, non-zero exit). A returned error is reserved for
// argument problems (wrapping ErrInvalidParams) and unexpected faults.
type Tool interface {
	Name() string
	Schema() schema.ToolSchema
	Execute(ctx context.Context, args Args) (string, error)
}

// Args is the argument mapping handed to a tool after defaults are applied.
type Args map[string]schema.Value

// String returns the named string argument.
func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: missing argument %q", ErrInvalidParams, name)
	}
	s, ok := v.Str()
	if !ok {
		return "", fmt.Errorf("%w: argument %q is %s, not string", ErrInvalidParams, name, v.Kind())
	}
	return s, nil
}

// Int returns the named integer argument.
func (a Args) Int(name string) (int, error) {
	v, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing argument %q", ErrInvalidParams, name)
	}
	i, ok := v.Integer()
	if !ok {
		return 0, fmt.Errorf("%w: argument %q is %s, not integer", ErrInvalidParams, name, v.Kind())
	}
	return int(i), nil
}

// Bool returns the named boolean argument.
func (a Args) Bool(name string) (bool, error) {
	v, ok := a[name]
	if !ok {
		return false, fmt.Errorf("%w: missing argument %q", ErrInvalidParams, name)
	}
	b, ok := v.Boolean()
	if !ok {
		return false, fmt.Errorf("%w: argument %q is %s, not boolean", ErrInvalidParams, name, v.Kind())
	}
	return b, nil
}

// funcTool adapts a plain function and a schema into a Tool.
type funcTool struct {
	schema schema.ToolSchema
	fn     func(ctx context.Context, args Args) (string, error)
}

// NewFuncTool builds a Tool from a schema and an implementation.
func NewFuncTool(s schema.ToolSchema, fn func(ctx context.Context, args Args) (string, error)) Tool {
	return &funcTool{schema: s, fn: fn}
}

func (t *funcTool) Name() string              { return t.schema.Name }
func (t *funcTool) Schema() schema.ToolSchema { return t.schema }
func (t *funcTool) Execute(ctx context.Context, args Args) (string, error) {
	return t.fn(ctx, args)
}
