package schema

// Role identifies who produced a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Entry is one item of the conversation history.
//
// User and assistant entries carry free text in Content. Tool entries carry
// the tool name in ToolName and the raw result text in Content.
type Entry struct {
	Role     Role   `yaml:"role" json:"role"`
	Content  string `yaml:"content" json:"content"`
	ToolName string `yaml:"tool,omitempty" json:"tool,omitempty"`
}

func NewUserEntry(content string) Entry {
	return Entry{Role: RoleUser, Content: content}
}

func NewAssistantEntry(content string) Entry {
	return Entry{Role: RoleAssistant, Content: content}
}

func NewToolResultEntry(toolName, result string) Entry {
	return Entry{Role: RoleTool, ToolName: toolName, Content: result}
}
