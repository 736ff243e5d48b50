package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/secagent/secagent/internal/schema"
)

// maxToolOutput caps file contents and diffs returned to the model.
const maxToolOutput = 5000

// maxTreeLines caps recursive directory listings.
const maxTreeLines = 100

// resolvePath resolves a relative path against workspace. Absolute paths are
// returned cleaned and unchanged otherwise.
func resolvePath(path, workspace string) string {
	if !filepath.IsAbs(path) && workspace != "" && workspace != "." {
		path = filepath.Join(workspace, path)
	}
	return filepath.Clean(path)
}

func truncateOutput(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n\n[... truncated ...]"
}

// ---------------------------------------------------------------------------
// ReadFileTool
// ---------------------------------------------------------------------------

// ReadFileTool returns the contents of a file, optionally limited to a
// 1-indexed, inclusive line range.
type ReadFileTool struct {
	workspace string
}

func NewReadFileTool(workspace string) *ReadFileTool {
	return &ReadFileTool{workspace: workspace}
}

func (t *ReadFileTool) Name() string { return string(ToolGetFileContents) }
func (t *ReadFileTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Read and return the contents of a file with optional line range",
		Parameters: []schema.ToolParameter{
			schema.Required("filepath", schema.KindString, "Path to the file to read"),
			schema.Optional("start_line", schema.Int(1), "Starting line (1-indexed)"),
			schema.Optional("end_line", schema.Int(-1), "Ending line (1-indexed, -1 for end)"),
		},
	}
}

func (t *ReadFileTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("filepath")
	if err != nil {
		return "", err
	}
	start, err := args.Int("start_line")
	if err != nil {
		return "", err
	}
	end, err := args.Int("end_line")
	if err != nil {
		return "", err
	}

	fp := resolvePath(path, t.workspace)
	if _, err := os.Stat(fp); err != nil {
		return fmt.Sprintf("Error: File not found: %s", path), nil
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return fmt.Sprintf("Error reading file: %s", err), nil
	}

	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if end == -1 {
		end = len(lines)
	}
	startIdx := max(0, start-1)
	endIdx := min(len(lines), end)
	contents := ""
	if startIdx < endIdx {
		contents = strings.Join(lines[startIdx:endIdx], "")
	}

	if len(contents) > maxToolOutput {
		return fmt.Sprintf("File contents (lines %d-%d, first %d chars):\n%s\n\n[... truncated ...]",
			start, end, maxToolOutput, contents[:maxToolOutput]), nil
	}
	return fmt.Sprintf("File contents (lines %d-%d):\n%s", start, end, contents), nil
}

// ---------------------------------------------------------------------------
// WriteFileTool
// ---------------------------------------------------------------------------

// WriteFileTool writes or appends content to a file, creating parent
// directories as needed.
type WriteFileTool struct {
	workspace string
}

func NewWriteFileTool(workspace string) *WriteFileTool {
	return &WriteFileTool{workspace: workspace}
}

func (t *WriteFileTool) Name() string { return string(ToolWriteFile) }
func (t *WriteFileTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Write or append content to a file",
		Parameters: []schema.ToolParameter{
			schema.Required("filepath", schema.KindString, "Path to the file to write"),
			schema.Required("content", schema.KindString, "Content to write to the file"),
			schema.Optional("append", schema.Bool(false), "Append instead of overwrite"),
		},
	}
}

func (t *WriteFileTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("filepath")
	if err != nil {
		return "", err
	}
	content, err := args.String("content")
	if err != nil {
		return "", err
	}
	appendMode, err := args.Bool("append")
	if err != nil {
		return "", err
	}

	fp := resolvePath(path, t.workspace)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return fmt.Sprintf("Error writing file: %s", err), nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	action := "wrote to"
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		action = "appended to"
	}
	f, err := os.OpenFile(fp, flags, 0o644)
	if err != nil {
		return fmt.Sprintf("Error writing file: %s", err), nil
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Sprintf("Error writing file: %s", err), nil
	}
	return fmt.Sprintf("Successfully %s %s", action, path), nil
}

// ---------------------------------------------------------------------------
// ListDirTool
// ---------------------------------------------------------------------------

// ListDirTool lists directory contents, flat or as an indented tree.
type ListDirTool struct {
	workspace string
}

func NewListDirTool(workspace string) *ListDirTool {
	return &ListDirTool{workspace: workspace}
}

func (t *ListDirTool) Name() string { return string(ToolListDirectory) }
func (t *ListDirTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "List files and directories in a path",
		Parameters: []schema.ToolParameter{
			schema.Optional("dirpath", schema.String("."), "Path to the directory to list"),
			schema.Optional("recursive", schema.Bool(false), "List recursively"),
		},
	}
}

func (t *ListDirTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("dirpath")
	if err != nil {
		return "", err
	}
	recursive, err := args.Bool("recursive")
	if err != nil {
		return "", err
	}

	dp := resolvePath(path, t.workspace)
	if _, err := os.Stat(dp); err != nil {
		return fmt.Sprintf("Error: Directory not found: %s", path), nil
	}

	if recursive {
		return listTree(dp)
	}

	entries, err := os.ReadDir(dp)
	if err != nil {
		return fmt.Sprintf("Error listing directory: %s", err), nil
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		prefix := "[FILE]"
		if e.IsDir() {
			prefix = "[DIR]"
		}
		lines = append(lines, fmt.Sprintf("  %s %s", prefix, e.Name()))
	}
	return fmt.Sprintf("Contents of %s:\n%s", path, strings.Join(lines, "\n")), nil
}

func listTree(root string) (string, error) {
	var lines []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		indent := strings.Repeat("  ", depth)
		if d.IsDir() {
			lines = append(lines, fmt.Sprintf("%s%s/", indent, d.Name()))
		} else {
			lines = append(lines, indent+d.Name())
		}
		if len(lines) >= maxTreeLines {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return fmt.Sprintf("Error listing directory: %s", err), nil
	}
	return "Directory structure:\n" + strings.Join(lines, "\n"), nil
}

// ---------------------------------------------------------------------------
// CreateDirTool
// ---------------------------------------------------------------------------

type CreateDirTool struct {
	workspace string
}

func NewCreateDirTool(workspace string) *CreateDirTool {
	return &CreateDirTool{workspace: workspace}
}

func (t *CreateDirTool) Name() string { return string(ToolCreateDirectory) }
func (t *CreateDirTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Create a directory and any parent directories needed",
		Parameters: []schema.ToolParameter{
			schema.Required("dirpath", schema.KindString, "Path to the directory to create"),
		},
	}
}

func (t *CreateDirTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("dirpath")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(resolvePath(path, t.workspace), 0o755); err != nil {
		return fmt.Sprintf("Error creating directory: %s", err), nil
	}
	return fmt.Sprintf("Successfully created directory: %s", path), nil
}

// ---------------------------------------------------------------------------
// DeleteFileTool / DeleteDirTool
// ---------------------------------------------------------------------------

type DeleteFileTool struct {
	workspace string
}

func NewDeleteFileTool(workspace string) *DeleteFileTool {
	return &DeleteFileTool{workspace: workspace}
}

func (t *DeleteFileTool) Name() string { return string(ToolDeleteFile) }
func (t *DeleteFileTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Delete a file",
		Parameters: []schema.ToolParameter{
			schema.Required("filepath", schema.KindString, "Path to the file to delete"),
		},
	}
}

func (t *DeleteFileTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("filepath")
	if err != nil {
		return "", err
	}
	fp := resolvePath(path, t.workspace)
	info, err := os.Stat(fp)
	if err != nil {
		return fmt.Sprintf("Error: File not found: %s", path), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: %s is a directory, not a file. Use delete_directory instead.", path), nil
	}
	if err := os.Remove(fp); err != nil {
		return fmt.Sprintf("Error deleting file: %s", err), nil
	}
	return fmt.Sprintf("Successfully deleted: %s", path), nil
}

type DeleteDirTool struct {
	workspace string
}

func NewDeleteDirTool(workspace string) *DeleteDirTool {
	return &DeleteDirTool{workspace: workspace}
}

func (t *DeleteDirTool) Name() string { return string(ToolDeleteDirectory) }
func (t *DeleteDirTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Delete a directory",
		Parameters: []schema.ToolParameter{
			schema.Required("dirpath", schema.KindString, "Path to the directory to delete"),
			schema.Optional("recursive", schema.Bool(false), "Delete directory and all contents"),
		},
	}
}

func (t *DeleteDirTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("dirpath")
	if err != nil {
		return "", err
	}
	recursive, err := args.Bool("recursive")
	if err != nil {
		return "", err
	}
	dp := resolvePath(path, t.workspace)
	info, err := os.Stat(dp)
	if err != nil {
		return fmt.Sprintf("Error: Directory not found: %s", path), nil
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: %s is a file, not a directory.", path), nil
	}

	if recursive {
		err = os.RemoveAll(dp)
	} else {
		err = os.Remove(dp)
	}
	if err != nil {
		return fmt.Sprintf("Error deleting directory: %s", err), nil
	}
	return fmt.Sprintf("Successfully deleted: %s", path), nil
}

// ---------------------------------------------------------------------------
// CopyFileTool
// ---------------------------------------------------------------------------

type CopyFileTool struct {
	workspace string
}

func NewCopyFileTool(workspace string) *CopyFileTool {
	return &CopyFileTool{workspace: workspace}
}

func (t *CopyFileTool) Name() string { return string(ToolCopyFile) }
func (t *CopyFileTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Copy a file",
		Parameters: []schema.ToolParameter{
			schema.Required("source", schema.KindString, "Source file path"),
			schema.Required("destination", schema.KindString, "Destination file path"),
		},
	}
}

func (t *CopyFileTool) Execute(_ context.Context, args Args) (string, error) {
	source, err := args.String("source")
	if err != nil {
		return "", err
	}
	destination, err := args.String("destination")
	if err != nil {
		return "", err
	}

	src := resolvePath(source, t.workspace)
	dst := resolvePath(destination, t.workspace)
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Sprintf("Error: Source file not found: %s", source), nil
	}
	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		return fmt.Sprintf("Error copying file: %s", err), nil
	}
	return fmt.Sprintf("Successfully copied %s to %s", source, destination), nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
