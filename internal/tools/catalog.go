package tools

import (
	"fmt"
	"net/http"
	"strings"
)

// CatalogOptions configures the built-in tool set.
type CatalogOptions struct {
	// WorkingDir resolves relative paths and is the default cwd for commands.
	WorkingDir string
	// CommandTimeout is the default execute_command timeout in seconds.
	CommandTimeout int
	// HTTPClient is used by fetch_url. Nil selects NewFetchHTTPClient.
	HTTPClient *http.Client
}

// toolGroup is a heading in the human-readable tools summary.
type toolGroup struct {
	title string
	names []ToolName
}

var summaryGroups = []toolGroup{
	{"TERMINAL & EXECUTION", []ToolName{ToolExecuteCommand}},
	{"FILE OPERATIONS", []ToolName{
		ToolGetFileContents, ToolWriteFile, ToolListDirectory, ToolCreateDirectory,
		ToolDeleteFile, ToolDeleteDirectory, ToolCopyFile,
	}},
	{"SEARCH & FILE DISCOVERY", []ToolName{ToolFindFiles, ToolGrepSearch, ToolGetFileInfo}},
	{"GIT OPERATIONS", []ToolName{ToolGitStatus, ToolGitLog, ToolGitDiff}},
	{"SECURITY ANALYSIS", []ToolName{ToolAnalyzeRisk, ToolCVERemediation, ToolChecklist}},
	{"HOST INSPECTION", []ToolName{ToolSystemInfo, ToolListProcesses, ToolListConnections}},
	{"WEB", []ToolName{ToolFetchURL}},
}

// NewCatalog builds the registry of every built-in tool, in summary order.
func NewCatalog(opts CatalogOptions) *Registry {
	ws := opts.WorkingDir
	if ws == "" {
		ws = "."
	}

	return NewRegistryBuilder().
		WithTool(NewExecTool(ws, opts.CommandTimeout)).
		WithTool(NewReadFileTool(ws)).
		WithTool(NewWriteFileTool(ws)).
		WithTool(NewListDirTool(ws)).
		WithTool(NewCreateDirTool(ws)).
		WithTool(NewDeleteFileTool(ws)).
		WithTool(NewDeleteDirTool(ws)).
		WithTool(NewCopyFileTool(ws)).
		WithTool(NewFindFilesTool(ws)).
		WithTool(NewGrepTool(ws)).
		WithTool(NewFileInfoTool(ws)).
		WithTool(NewGitStatusTool(ws)).
		WithTool(NewGitLogTool(ws)).
		WithTool(NewGitDiffTool(ws)).
		WithTool(NewRiskTool()).
		WithTool(NewCVERemediationTool()).
		WithTool(NewChecklistTool()).
		WithTool(NewSystemInfoTool()).
		WithTool(NewProcessListTool()).
		WithTool(NewConnectionsTool()).
		WithTool(NewWebFetchTool(opts.HTTPClient)).
		Build()
}

// PromptCatalog renders one "- name: description" line per tool.
func PromptCatalog(r *Registry) string {
	lines := make([]string, 0, r.Len())
	for _, s := range r.Schemas() {
		lines = append(lines, fmt.Sprintf("- %s: %s", s.Name, s.Description))
	}
	return strings.Join(lines, "\n")
}

// CallInstructions tells the model how to emit a tool directive.
func CallInstructions() string {
	return `When you need to use a tool, format it as a JSON object like this:

{"tool": "tool_name", "parameters": {"param1": "value1", "param2": "value2"}}

Examples:
{"tool": "execute_command", "parameters": {"command": "ls -la"}}
{"tool": "get_file_contents", "parameters": {"filepath": "/path/to/file"}}
{"tool": "analyze_risk_level", "parameters": {"threat_name": "SQL Injection", "affected_systems": 50, "data_exposure": true}}

After a tool is executed, you will receive the result and should analyze and explain it to the user.`
}

// Summary is the numbered, grouped tool listing shown by the CLI. Tools not
// covered by a group are listed under OTHER.
func Summary(r *Registry) string {
	var sb strings.Builder
	sb.WriteString("Available Tools:\n")

	seen := make(map[string]bool, r.Len())
	n := 0
	writeGroup := func(title string, names []string) {
		var rows []string
		for _, name := range names {
			t, ok := r.Lookup(name)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			n++
			rows = append(rows, fmt.Sprintf("%d. %s - %s", n, name, t.Schema().Description))
		}
		if len(rows) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n%s:\n%s\n", title, strings.Join(rows, "\n"))
	}

	for _, g := range summaryGroups {
		names := make([]string, len(g.names))
		for i, tn := range g.names {
			names[i] = string(tn)
		}
		writeGroup(g.title, names)
	}
	writeGroup("OTHER", r.Names())

	return strings.TrimRight(sb.String(), "\n")
}
