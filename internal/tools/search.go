package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/secagent/secagent/internal/schema"
)

// ---------------------------------------------------------------------------
// FindFilesTool
// ---------------------------------------------------------------------------

// FindFilesTool lists files matching a glob pattern. A "**" path element
// matches any number of directories and "{a,b}" selects alternatives.
type FindFilesTool struct {
	workspace string
}

func NewFindFilesTool(workspace string) *FindFilesTool {
	return &FindFilesTool{workspace: workspace}
}

func (t *FindFilesTool) Name() string { return string(ToolFindFiles) }
func (t *FindFilesTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Find files matching a glob pattern",
		Parameters: []schema.ToolParameter{
			schema.Required("pattern", schema.KindString, "Glob pattern (e.g., '**/*.py', '*.json')"),
			schema.Optional("dirpath", schema.String("."), "Starting directory"),
			schema.Optional("max_results", schema.Int(50), "Maximum results"),
		},
	}
}

func (t *FindFilesTool) Execute(_ context.Context, args Args) (string, error) {
	pattern, err := args.String("pattern")
	if err != nil {
		return "", err
	}
	dir, err := args.String("dirpath")
	if err != nil {
		return "", err
	}
	maxResults, err := args.Int("max_results")
	if err != nil {
		return "", err
	}

	root := resolvePath(dir, t.workspace)
	if _, err := os.Stat(root); err != nil {
		return fmt.Sprintf("Error: Directory not found: %s", dir), nil
	}

	matches, err := globFiles(root, pattern)
	if err != nil {
		return fmt.Sprintf("Error finding files: %s", err), nil
	}
	sort.Strings(matches)
	if maxResults >= 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No files found matching pattern: %s", pattern), nil
	}
	return fmt.Sprintf("Found %d file(s) matching '%s':\n%s", len(matches), pattern, strings.Join(matches, "\n")), nil
}

// globFiles expands pattern relative to root and returns the matching
// files as paths under root.
func globFiles(root, pattern string) ([]string, error) {
	rel, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rel))
	for _, m := range rel {
		out = append(out, filepath.Join(root, filepath.FromSlash(m)))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// GrepTool
// ---------------------------------------------------------------------------

// GrepTool searches file contents line by line. Hidden directories are
// skipped and unreadable files are ignored.
type GrepTool struct {
	workspace string
}

func NewGrepTool(workspace string) *GrepTool {
	return &GrepTool{workspace: workspace}
}

func (t *GrepTool) Name() string { return string(ToolGrepSearch) }
func (t *GrepTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Search for text or regex patterns in files",
		Parameters: []schema.ToolParameter{
			schema.Required("pattern", schema.KindString, "Text pattern or regex to search for"),
			schema.Optional("dirpath", schema.String("."), "Directory to search in"),
			schema.Optional("file_pattern", schema.String("*"), "File pattern to search within"),
			schema.Optional("is_regex", schema.Bool(false), "Treat pattern as regex"),
			schema.Optional("case_sensitive", schema.Bool(false), "Case-sensitive search"),
			schema.Optional("max_results", schema.Int(50), "Maximum results"),
		},
	}
}

func (t *GrepTool) Execute(ctx context.Context, args Args) (string, error) {
	pattern, err := args.String("pattern")
	if err != nil {
		return "", err
	}
	dir, err := args.String("dirpath")
	if err != nil {
		return "", err
	}
	filePattern, err := args.String("file_pattern")
	if err != nil {
		return "", err
	}
	isRegex, err := args.Bool("is_regex")
	if err != nil {
		return "", err
	}
	caseSensitive, err := args.Bool("case_sensitive")
	if err != nil {
		return "", err
	}
	maxResults, err := args.Int("max_results")
	if err != nil {
		return "", err
	}

	root := resolvePath(dir, t.workspace)
	if _, err := os.Stat(root); err != nil {
		return fmt.Sprintf("Error: Directory not found: %s", dir), nil
	}

	match, err := lineMatcher(pattern, isRegex, caseSensitive)
	if err != nil {
		return fmt.Sprintf("Error: Invalid regex pattern: %s", err), nil
	}

	var results []string
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := doublestar.Match(filePattern, d.Name()); !ok {
			return nil
		}
		results = grepFile(p, match, results, maxResults)
		if len(results) >= maxResults {
			return filepath.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Sprintf("Error searching files: %s", walkErr), nil
	}

	if len(results) == 0 {
		return fmt.Sprintf("No matches found for pattern: %s", pattern), nil
	}
	return fmt.Sprintf("Found %d match(es):\n%s", len(results), strings.Join(results, "\n")), nil
}

func lineMatcher(pattern string, isRegex, caseSensitive bool) (func(string) bool, error) {
	if isRegex {
		expr := pattern
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	}
	if caseSensitive {
		return func(line string) bool { return strings.Contains(line, pattern) }, nil
	}
	lower := strings.ToLower(pattern)
	return func(line string) bool { return strings.Contains(strings.ToLower(line), lower) }, nil
}

func grepFile(p string, match func(string) bool, results []string, maxResults int) []string {
	f, err := os.Open(p)
	if err != nil {
		return results
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), " \t\r")
		if match(line) {
			results = append(results, fmt.Sprintf("%s:%d: %s", p, lineNum, line))
			if len(results) >= maxResults {
				break
			}
		}
	}
	return results
}

// ---------------------------------------------------------------------------
// FileInfoTool
// ---------------------------------------------------------------------------

type FileInfoTool struct {
	workspace string
}

func NewFileInfoTool(workspace string) *FileInfoTool {
	return &FileInfoTool{workspace: workspace}
}

func (t *FileInfoTool) Name() string { return string(ToolGetFileInfo) }
func (t *FileInfoTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        t.Name(),
		Description: "Get file metadata (size, type, modification time, permissions)",
		Parameters: []schema.ToolParameter{
			schema.Required("filepath", schema.KindString, "Path to the file"),
		},
	}
}

func (t *FileInfoTool) Execute(_ context.Context, args Args) (string, error) {
	path, err := args.String("filepath")
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolvePath(path, t.workspace))
	if err != nil {
		return fmt.Sprintf("Error: File not found: %s", path), nil
	}

	fileType := "Unknown type"
	if info.IsDir() {
		fileType = "Directory"
	} else if ext := filepath.Ext(path); ext != "" {
		fileType = ext
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "File Information: %s\n\n", path)
	fmt.Fprintf(&sb, "Type: %s\n", fileType)
	fmt.Fprintf(&sb, "Size: %d bytes (%.2f KB)\n", info.Size(), float64(info.Size())/1024)
	fmt.Fprintf(&sb, "Modified: %s\n", info.ModTime().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&sb, "Permissions: %03o\n", info.Mode().Perm())
	return sb.String(), nil
}
