package tools

import (
	"github.com/secagent/secagent/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolExecuteCommand  ToolName = "execute_command"
	ToolGetFileContents ToolName = "get_file_contents"
	ToolWriteFile       ToolName = "write_file"
	ToolListDirectory   ToolName = "list_directory"
	ToolCreateDirectory ToolName = "create_directory"
	ToolDeleteFile      ToolName = "delete_file"
	ToolDeleteDirectory ToolName = "delete_directory"
	ToolCopyFile        ToolName = "copy_file"
	ToolFindFiles       ToolName = "find_files"
	ToolGrepSearch      ToolName = "grep_search"
	ToolGetFileInfo     ToolName = "get_file_info"
	ToolGitStatus       ToolName = "git_status"
	ToolGitLog          ToolName = "git_log"
	ToolGitDiff         ToolName = "git_diff"
	ToolAnalyzeRisk     ToolName = "analyze_risk_level"
	ToolCVERemediation  ToolName = "get_cve_remediation"
	ToolChecklist       ToolName = "create_security_checklist"
	ToolFetchURL        ToolName = "fetch_url"
	ToolSystemInfo      ToolName = "get_system_info"
	ToolListProcesses   ToolName = "list_processes"
	ToolListConnections ToolName = "list_network_connections"
)

// Registry is the closed, read-only set of tools available to the model.
// It is safe for concurrent reads; there is no mutation path after Build.
type Registry struct {
	tools map[string]Tool
	order []string
}

// Lookup returns the tool registered under name. Matching is exact and
// case-sensitive.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// GetTool returns the built-in tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) Tool {
	return r.tools[string(name)]
}

// SchemaFor returns the schema of the named tool.
func (r *Registry) SchemaFor(name string) (schema.ToolSchema, bool) {
	t, ok := r.tools[name]
	if !ok {
		return schema.ToolSchema{}, false
	}
	return t.Schema(), true
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Schemas returns every tool schema in registration order.
func (r *Registry) Schemas() []schema.ToolSchema {
	out := make([]schema.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema())
	}
	return out
}

func (r *Registry) Len() int { return len(r.order) }
