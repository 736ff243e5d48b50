package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/secagent/secagent/internal/schema"
)

func TestCatalog_Contents(t *testing.T) {
	r := newTestCatalog(t)
	if r.Len() != 21 {
		t.Fatalf("expected 21 tools, got %d", r.Len())
	}
	names := r.Names()
	if names[0] != string(ToolExecuteCommand) || names[len(names)-1] != string(ToolFetchURL) {
		t.Errorf("unexpected order: %v", names)
	}
	for _, n := range names {
		if r.GetTool(ToolName(n)) == nil {
			t.Errorf("GetTool(%q) returned nil", n)
		}
	}
}

func TestPromptCatalog(t *testing.T) {
	out := PromptCatalog(newTestCatalog(t))
	lines := strings.Split(out, "\n")
	if lines[0] != "- execute_command: Execute a shell command and return the output" {
		t.Errorf("first line = %q", lines[0])
	}
	if len(lines) != 21 {
		t.Errorf("expected 21 lines, got %d", len(lines))
	}
}

func TestSummary(t *testing.T) {
	out := Summary(newTestCatalog(t))
	for _, want := range []string{
		"Available Tools:\n",
		"TERMINAL & EXECUTION:\n1. execute_command - ",
		"SECURITY ANALYSIS:\n15. analyze_risk_level - ",
		"21. fetch_url - ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "OTHER:") {
		t.Error("built-in tools should all be grouped")
	}
}

func TestSummary_UngroupedTools(t *testing.T) {
	r := NewRegistryBuilder().WithTool(echoTool()).Build()
	out := Summary(r)
	if out != "Available Tools:\n\nOTHER:\n1. echo - echo arguments" {
		t.Errorf("got %q", out)
	}
}

func TestExecTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
	tool := NewExecTool(t.TempDir(), 0)
	run := func(cmd string, timeout int) string {
		out, err := tool.Execute(context.Background(), Args{
			"command": schema.String(cmd),
			"timeout": schema.Int(int64(timeout)),
			"cwd":     schema.String("."),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}

	if got := run("echo hi", 5); got != "Command executed successfully:\nhi\n" {
		t.Errorf("echo: got %q", got)
	}
	if got := run("true", 5); got != "Command executed (no output)" {
		t.Errorf("true: got %q", got)
	}
	if got := run("exit 3", 5); got != "Command exited with code 3 (no output)" {
		t.Errorf("exit: got %q", got)
	}
	if got := run("sleep 5", 1); got != "Error: Command timed out after 1 seconds" {
		t.Errorf("timeout: got %q", got)
	}
}

func TestExecTool_RelativeWorkingDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
	t.Chdir(t.TempDir())
	if err := os.Mkdir("work", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("work", "marker.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewExecutor(NewCatalog(CatalogOptions{WorkingDir: "work", CommandTimeout: 5}))
	got := e.Execute(context.Background(), string(ToolExecuteCommand), map[string]schema.Value{
		"command": schema.String("ls"),
	})
	if got != "Command executed successfully:\nmarker.txt\n" {
		t.Errorf("default cwd: got %q", got)
	}
}

func TestWebFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!doctype html><html><head><title>Advisory 42</title></head><body>
<article><h1>Advisory 42</h1>
<p>A heap overflow in the packet parser allows remote attackers to execute arbitrary code.
Administrators should upgrade to version 2.4.1 or later and restrict access to the management port.</p>
<p>The issue was reported by an external researcher and affects all releases before 2.4.1.</p>
</article></body></html>`))
	}))
	defer srv.Close()

	tool := NewWebFetchTool(srv.Client())
	out, err := tool.Execute(context.Background(), Args{
		"url":       schema.String(srv.URL),
		"max_chars": schema.Int(5000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Fetched "+srv.URL) || !strings.Contains(out, "status 200") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "heap overflow in the packet parser") {
		t.Errorf("expected article text:\n%s", out)
	}
}

func TestWebFetch_RejectsScheme(t *testing.T) {
	out, _ := NewWebFetchTool(nil).Execute(context.Background(), Args{
		"url":       schema.String("file:///etc/passwd"),
		"max_chars": schema.Int(100),
	})
	if out != `Error: URL validation failed: only http/https allowed, got "file"` {
		t.Errorf("got %q", out)
	}
}
