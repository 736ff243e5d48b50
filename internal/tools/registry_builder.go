package tools

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	order []string
	tools map[string]Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// A later tool with the same name replaces the earlier one in place.
func (b *RegistryBuilder) WithTool(tool Tool) *RegistryBuilder {
	if _, exists := b.tools[tool.Name()]; !exists {
		b.order = append(b.order, tool.Name())
	}
	b.tools[tool.Name()] = tool

	return b
}

// Build produces an immutable Registry from the accumulated tools.
func (b *RegistryBuilder) Build() *Registry {
	tools := make(map[string]Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	order := make([]string, len(b.order))
	copy(order, b.order)
	return &Registry{tools: tools, order: order}
}
