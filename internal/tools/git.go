package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/secagent/secagent/internal/schema"
)

const gitTimeout = 10 * time.Second

// runGit runs git with args in dir. A non-zero exit is reported through
// exitErr with stderr captured; err covers failures to start or time out.
func runGit(ctx context.Context, dir string, args ...string) (stdout, stderr string, exitErr bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return "", "", false, fmt.Errorf("git %s timed out after %s", args[0], gitTimeout)
	}
	var ee *exec.ExitError
	if errors.As(runErr, &ee) {
		return out.String(), errOut.String(), true, nil
	}
	if runErr != nil {
		return "", "", false, runErr
	}
	return out.String(), errOut.String(), false, nil
}

func repoPathParam() schema.ToolParameter {
	return schema.Optional("repo_path", schema.String("."), "Path to git repository")
}

// NewGitStatusTool reports `git status --short` for a repository.
func NewGitStatusTool(workspace string) Tool {
	s := schema.ToolSchema{
		Name:        string(ToolGitStatus),
		Description: "Get git repository status",
		Parameters:  []schema.ToolParameter{repoPathParam()},
	}
	return NewFuncTool(s, func(ctx context.Context, args Args) (string, error) {
		repo, err := args.String("repo_path")
		if err != nil {
			return "", err
		}
		stdout, stderr, failed, err := runGit(ctx, resolvePath(repo, workspace), "status", "--short")
		if err != nil {
			return fmt.Sprintf("Error getting git status: %s", err), nil
		}
		if failed {
			return fmt.Sprintf("Error: Not a git repository or git not found: %s", stderr), nil
		}
		if stdout == "" {
			return "Repository is clean (no changes)", nil
		}
		return stdout, nil
	})
}

// NewGitLogTool lists recent commits in one-line form.
func NewGitLogTool(workspace string) Tool {
	s := schema.ToolSchema{
		Name:        string(ToolGitLog),
		Description: "Get recent git commits",
		Parameters: []schema.ToolParameter{
			repoPathParam(),
			schema.Optional("max_commits", schema.Int(10), "Maximum commits to show"),
		},
	}
	return NewFuncTool(s, func(ctx context.Context, args Args) (string, error) {
		repo, err := args.String("repo_path")
		if err != nil {
			return "", err
		}
		n, err := args.Int("max_commits")
		if err != nil {
			return "", err
		}
		stdout, stderr, failed, err := runGit(ctx, resolvePath(repo, workspace), "log", "--oneline", "-"+strconv.Itoa(n))
		if err != nil {
			return fmt.Sprintf("Error getting git log: %s", err), nil
		}
		if failed {
			return fmt.Sprintf("Error: Cannot get git log: %s", stderr), nil
		}
		if stdout == "" {
			return "No commits found", nil
		}
		return stdout, nil
	})
}

// NewGitDiffTool shows uncommitted changes, optionally for a single file.
func NewGitDiffTool(workspace string) Tool {
	s := schema.ToolSchema{
		Name:        string(ToolGitDiff),
		Description: "Get git diff of uncommitted changes",
		Parameters: []schema.ToolParameter{
			repoPathParam(),
			schema.Optional("filepath", schema.String(""), "Specific file to diff (optional)"),
		},
	}
	return NewFuncTool(s, func(ctx context.Context, args Args) (string, error) {
		repo, err := args.String("repo_path")
		if err != nil {
			return "", err
		}
		file, err := args.String("filepath")
		if err != nil {
			return "", err
		}

		gitArgs := []string{"diff"}
		if file != "" {
			gitArgs = append(gitArgs, file)
		}
		stdout, stderr, failed, err := runGit(ctx, resolvePath(repo, workspace), gitArgs...)
		if err != nil {
			return fmt.Sprintf("Error getting git diff: %s", err), nil
		}
		if failed {
			return fmt.Sprintf("Error: Cannot get git diff: %s", stderr), nil
		}
		if stdout == "" {
			return "No changes to show", nil
		}
		if len(stdout) > maxToolOutput {
			stdout = stdout[:maxToolOutput] + "\n[... diff truncated ...]"
		}
		return stdout, nil
	})
}
