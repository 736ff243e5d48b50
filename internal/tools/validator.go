package tools

import (
	"fmt"
	"slices"
	"strings"

	"github.com/secagent/secagent/internal/schema"
)

// ValidationError explains why a tool call was rejected. Its message is
// shown to the model verbatim so it can correct the call.
type ValidationError struct {
	Tool    string
	Param   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validator checks tool calls against the registry's schemas.
type Validator struct {
	registry *Registry
}

func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks, in order: the tool exists, every required parameter is
// present, present declared parameters have the declared kind, and enum
// constraints hold. Parameters the schema does not declare are ignored.
func (v *Validator) Validate(name string, params map[string]schema.Value) error {
	s, ok := v.registry.SchemaFor(name)
	if !ok {
		return &ValidationError{Tool: name, Message: fmt.Sprintf("Unknown tool: %s", name)}
	}

	for _, p := range s.Parameters {
		if _, present := params[p.Name]; p.Required && !present {
			return &ValidationError{
				Tool:    name,
				Param:   p.Name,
				Message: fmt.Sprintf("Missing required parameter '%s' for tool '%s'", p.Name, name),
			}
		}
	}

	for _, p := range s.Parameters {
		val, present := params[p.Name]
		if !present {
			continue
		}
		if val.Kind() != p.Type {
			return &ValidationError{
				Tool:    name,
				Param:   p.Name,
				Message: fmt.Sprintf("Parameter '%s' must be %s %s, got %s", p.Name, article(p.Type), p.Type, val.Kind()),
			}
		}
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, val.String()) {
			return &ValidationError{
				Tool:    name,
				Param:   p.Name,
				Message: fmt.Sprintf("Parameter '%s' must be one of [%s], got %s", p.Name, strings.Join(p.Enum, ", "), val),
			}
		}
	}

	return nil
}

func article(k schema.Kind) string {
	if k == schema.KindInteger {
		return "an"
	}
	return "a"
}
