package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/secagent/secagent/internal/schema"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGlobFiles(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"**/*.go", "main.go", true},
		{"**/*.go", "a/b/main.go", true},
		{"a/**/c.txt", "a/c.txt", true},
		{"a/**/c.txt", "a/b/x/c.txt", true},
		{"a/**/c.txt", "b/c.txt", false},
		{"**/*.go", "a/b", false},
		{"*.{yml,yaml}", "cfg.yaml", true},
		{"*.go", "a/main.go", false},
	}
	for _, c := range cases {
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{c.name: ""})
		got, err := globFiles(dir, c.pattern)
		if err != nil {
			t.Fatalf("globFiles(%q): %v", c.pattern, err)
		}
		found := len(got) == 1 && got[0] == filepath.Join(dir, filepath.FromSlash(c.name))
		if found != c.want {
			t.Errorf("globFiles(%q) over %q = %q, want match %v", c.pattern, c.name, got, c.want)
		}
	}
}

func TestGlobFiles_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src.d/keep.txt": ""})
	got, err := globFiles(dir, "*.d")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("directories matched: %q", got)
	}
}

func TestFindFiles_BadPattern(t *testing.T) {
	out, _ := NewFindFilesTool(t.TempDir()).Execute(context.Background(), Args{
		"pattern":     schema.String("[abc"),
		"dirpath":     schema.String("."),
		"max_results": schema.Int(50),
	})
	if !strings.HasPrefix(out, "Error finding files: ") {
		t.Errorf("got %q", out)
	}
}

func TestFindFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"y.go":     "",
		"y.txt":    "",
		"a/b/x.go": "",
	})
	out, _ := NewFindFilesTool(dir).Execute(context.Background(), Args{
		"pattern":     schema.String("**/*.go"),
		"dirpath":     schema.String("."),
		"max_results": schema.Int(50),
	})
	want := "Found 2 file(s) matching '**/*.go':\n" +
		filepath.Join(dir, "a", "b", "x.go") + "\n" +
		filepath.Join(dir, "y.go")
	if out != want {
		t.Errorf("got %q\nwant %q", out, want)
	}
}

func TestFindFiles_NoMatch(t *testing.T) {
	out, _ := NewFindFilesTool(t.TempDir()).Execute(context.Background(), Args{
		"pattern":     schema.String("*.rs"),
		"dirpath":     schema.String("."),
		"max_results": schema.Int(50),
	})
	if out != "No files found matching pattern: *.rs" {
		t.Errorf("got %q", out)
	}
}

func grepArgs(pattern string, regex, caseSensitive bool) Args {
	return Args{
		"pattern":        schema.String(pattern),
		"dirpath":        schema.String("."),
		"file_pattern":   schema.String("*.log"),
		"is_regex":       schema.Bool(regex),
		"case_sensitive": schema.Bool(caseSensitive),
		"max_results":    schema.Int(50),
	}
}

func TestGrep(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"auth.log":        "Failed password for root\naccepted publickey\nFAILED password for admin\n",
		"notes.txt":       "Failed password\n",
		".git/hidden.log": "Failed password\n",
	})
	tool := NewGrepTool(dir)
	logPath := filepath.Join(dir, "auth.log")

	out, _ := tool.Execute(context.Background(), grepArgs("failed password", false, false))
	want := "Found 2 match(es):\n" +
		logPath + ":1: Failed password for root\n" +
		logPath + ":3: FAILED password for admin"
	if out != want {
		t.Errorf("got %q\nwant %q", out, want)
	}

	out, _ = tool.Execute(context.Background(), grepArgs("Failed", false, true))
	if !strings.HasPrefix(out, "Found 1 match(es):") {
		t.Errorf("case-sensitive: got %q", out)
	}

	out, _ = tool.Execute(context.Background(), grepArgs(`for (root|admin)$`, true, false))
	if !strings.HasPrefix(out, "Found 2 match(es):") {
		t.Errorf("regex: got %q", out)
	}

	out, _ = tool.Execute(context.Background(), grepArgs(`(`, true, false))
	if !strings.HasPrefix(out, "Error: Invalid regex pattern: ") {
		t.Errorf("bad regex: got %q", out)
	}
}

func TestFileInfo(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"cfg.yaml": "a: 1\n"})

	out, _ := NewFileInfoTool(dir).Execute(context.Background(), Args{"filepath": schema.String("cfg.yaml")})
	for _, want := range []string{
		"File Information: cfg.yaml\n",
		"Type: .yaml\n",
		"Size: 5 bytes (0.00 KB)\n",
		"Permissions: 644\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
