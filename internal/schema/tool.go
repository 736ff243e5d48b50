package schema

// ToolParameter declares one named parameter of a tool.
type ToolParameter struct {
	Name        string
	Type        Kind
	Description string
	Required    bool
	Enum        []string // allowed string values; empty means unconstrained
	Default     *Value   // applied by the executor when an optional parameter is absent
}

// ToolSchema is the declarative contract of a tool: its name, a one-line
// description for the prompt catalog, and its ordered parameter list.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  []ToolParameter
}

// Param returns the declared parameter with the given name.
func (s ToolSchema) Param(name string) (ToolParameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ToolParameter{}, false
}

// Required is a convenience constructor for a mandatory parameter.
func Required(name string, kind Kind, description string) ToolParameter {
	return ToolParameter{Name: name, Type: kind, Description: description, Required: true}
}

// Optional is a convenience constructor for a parameter with a default.
func Optional(name string, def Value, description string) ToolParameter {
	d := def
	return ToolParameter{Name: name, Type: def.Kind(), Description: description, Default: &d}
}

// Directive is one tool invocation parsed out of model text.
// Raw is the exact JSON substring that was extracted from the response.
type Directive struct {
	Tool   string
	Params map[string]Value
	Raw    string

	// DecodeErr is set when a parameter value is outside the supported
	// primitives; the directive is still reported back to the model.
	DecodeErr error
}
