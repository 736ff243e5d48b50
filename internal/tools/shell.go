package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/secagent/secagent/internal/schema"
)

const defaultCommandTimeout = 30

// ExecTool runs a shell command with a timeout. It applies no sandboxing:
// commands run with the privileges of the agent process.
type ExecTool struct {
	defaultTimeout int
	defaultDir     string
}

// NewExecTool creates an ExecTool. timeoutSeconds <= 0 selects 30 seconds;
// an empty workingDir selects the process working directory.
func NewExecTool(workingDir string, timeoutSeconds int) *ExecTool {
	t := defaultCommandTimeout
	if timeoutSeconds > 0 {
		t = timeoutSeconds
	}
	if workingDir == "" {
		workingDir = "."
	}
	return &ExecTool{defaultTimeout: t, defaultDir: workingDir}
}

func (e *ExecTool) Name() string { return string(ToolExecuteCommand) }

func (e *ExecTool) Schema() schema.ToolSchema {
	return schema.ToolSchema{
		Name:        e.Name(),
		Description: "Execute a shell command and return the output",
		Parameters: []schema.ToolParameter{
			schema.Required("command", schema.KindString, "The shell command to execute"),
			schema.Optional("timeout", schema.Int(int64(e.defaultTimeout)), "Timeout in seconds"),
			schema.Optional("cwd", schema.String("."), "Working directory for command"),
		},
	}
}

func (e *ExecTool) Execute(ctx context.Context, args Args) (string, error) {
	command, err := args.String("command")
	if err != nil {
		return "", err
	}
	timeout, err := args.Int("timeout")
	if err != nil {
		return "", err
	}
	cwd, err := args.String("cwd")
	if err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := shellCommand(cmdCtx, command)
	cmd.Dir = resolvePath(cwd, e.defaultDir)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("Error: Command timed out after %d seconds", timeout), nil
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return fmt.Sprintf("Error executing command: %s", runErr), nil
	}

	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	if output == "" {
		if exitErr != nil {
			return fmt.Sprintf("Command exited with code %d (no output)", exitErr.ExitCode()), nil
		}
		return "Command executed (no output)", nil
	}

	result := "Command executed successfully:\n" + truncateOutput(output, maxToolOutput)
	if exitErr != nil {
		result += fmt.Sprintf("\nExit code: %d", exitErr.ExitCode())
	}
	return result, nil
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
