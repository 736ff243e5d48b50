package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/secagent/secagent/internal/agent"
	"github.com/secagent/secagent/internal/prompts"
	"github.com/secagent/secagent/internal/shared/cmdutils"
)

const replPrompt = "You: "

const replHelp = `Cybersecurity Agent Commands:

Ask anything about security: threats, incidents, vulnerabilities,
compliance, secure coding, networks or malware. The agent can run
tools on this machine when it needs facts.

Special commands:
  /clear         - Clear conversation history
  /mode <name>   - Switch to a different analysis mode
  /modes         - List available modes
  /models        - List available models
  /tools         - Show available tools
  /history       - Show the conversation so far
  /help          - Show this help
  /exit          - Exit the agent`

// lineReader returns one input line per call; io.EOF ends the session.
type lineReader interface {
	ReadLine() (string, error)
}

// rawLineReader edits lines with x/term, switching the terminal into raw
// mode only while a line is being read.
type rawLineReader struct {
	fd int
	t  *term.Terminal
}

func (r *rawLineReader) ReadLine() (string, error) {
	oldState, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", err
	}
	if width, height, err := term.GetSize(r.fd); err == nil {
		_ = r.t.SetSize(width, height)
	}

	line, err := r.t.ReadLine()
	if restoreErr := term.Restore(r.fd, oldState); restoreErr != nil && err == nil {
		err = restoreErr
	}
	return line, err
}

type scanLineReader struct {
	out     io.Writer
	scanner *bufio.Scanner
}

func (r *scanLineReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, replPrompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// newLineReader picks terminal line editing when stdin is a TTY.
func newLineReader(in *os.File, out io.Writer) lineReader {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		return &rawLineReader{fd: fd, t: term.NewTerminal(in, replPrompt)}
	}
	return &scanLineReader{out: out, scanner: bufio.NewScanner(in)}
}

// repl runs the interactive loop until /exit, end of input or ctx ends.
type repl struct {
	in        lineReader
	out       io.Writer
	assistant agent.Assistant
	// interrupt derives a per-turn context cancelled by Ctrl+C.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

func newREPL(in lineReader, out io.Writer, a agent.Assistant) *repl {
	return &repl{
		in:        in,
		out:       out,
		assistant: a,
		interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
}

func (r *repl) run(ctx context.Context) error {
	for ctx.Err() == nil {
		line, err := r.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := r.handle(ctx, line); quit {
			return nil
		}
	}
	return nil
}

// handle processes one input line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, line string) bool {
	lower := strings.ToLower(line)
	switch {
	case lower == "/exit" || lower == "/quit":
		fmt.Fprintln(r.out, "Exiting...")
		return true
	case lower == "/clear":
		r.assistant.ClearHistory()
		fmt.Fprintln(r.out, "✓ Conversation history cleared")
	case lower == "/modes":
		r.printModes()
	case lower == "/models":
		r.printModels(ctx)
	case lower == "/tools":
		fmt.Fprintln(r.out, r.assistant.ToolsSummary())
	case lower == "/history":
		cmdutils.PrintHistory(r.out, r.assistant.History())
	case lower == "/help":
		fmt.Fprintln(r.out, replHelp)
	case lower == "/mode":
		fmt.Fprintf(r.out, "Current mode: %s\nUsage: /mode <name>\n", r.assistant.PromptMode())
	case strings.HasPrefix(lower, "/mode "):
		r.switchMode(strings.TrimSpace(line[len("/mode "):]))
	default:
		r.turn(ctx, line)
	}
	return false
}

func (r *repl) switchMode(name string) {
	if err := r.assistant.SetPromptMode(name); err != nil {
		fmt.Fprintf(r.out, "✗ Unknown mode: %s\n", name)
		fmt.Fprintln(r.out, "Use /modes to see available modes")
		return
	}
	fmt.Fprintf(r.out, "✓ Switched to '%s' mode\n", name)
}

func (r *repl) printModes() {
	fmt.Fprintln(r.out, "Available modes:")
	current := r.assistant.PromptMode()
	for _, m := range r.assistant.PromptModes() {
		marker := " "
		if m == current {
			marker = "*"
		}
		fmt.Fprintf(r.out, " %s %-18s %s\n", marker, m, prompts.Describe(m))
	}
}

func (r *repl) printModels(ctx context.Context) {
	models, err := r.assistant.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Error fetching models: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "Available models:")
	for _, m := range models {
		fmt.Fprintf(r.out, "  - %s\n", m)
	}
}

// turn streams one reply. Ctrl+C cancels the reply but keeps the session.
func (r *repl) turn(ctx context.Context, line string) {
	turnCtx, stop := r.interrupt(ctx)
	defer stop()

	fmt.Fprint(r.out, "\nAgent: ")
	cmdutils.StreamResponse(r.out, r.assistant.Stream(turnCtx, line))
	if turnCtx.Err() != nil && ctx.Err() == nil {
		fmt.Fprint(r.out, "\nInterrupted")
	}
	fmt.Fprint(r.out, "\n\n")
}
