package prompts

import (
	"strings"

	"github.com/secagent/secagent/internal/schema"
)

// Render builds the flat prompt sent to the completion service. The whole
// history is replayed on every call; nothing is truncated or summarised.
func Render(systemPrompt, toolCatalog, callInstructions string, history []schema.Entry) string {
	var sb strings.Builder
	sb.WriteString("System: ")
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nAvailable Tools:\n")
	sb.WriteString(toolCatalog)
	sb.WriteString("\n\n")
	sb.WriteString(callInstructions)
	sb.WriteString("\n\nConversation History:\n")

	for _, e := range history {
		switch e.Role {
		case schema.RoleUser:
			sb.WriteString("\nUser: ")
			sb.WriteString(e.Content)
		case schema.RoleAssistant:
			sb.WriteString("\nAssistant: ")
			sb.WriteString(e.Content)
		case schema.RoleTool:
			sb.WriteString("\n[Tool Result from '")
			sb.WriteString(e.ToolName)
			sb.WriteString("']: ")
			sb.WriteString(e.Content)
		}
	}

	sb.WriteString("\n\nAssistant: ")
	return sb.String()
}
