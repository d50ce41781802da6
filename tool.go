package tttplot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Tool produces the empirical estimate file <outputBase>-ee.dat from the
// durations in input.
type Tool interface {
	Run(ctx context.Context, input, outputBase string) error
}

// ToolError reports a tool invocation that could not start or exited non-zero.
type ToolError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("ttt tool %q: %v", e.Command, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// TTTPlots runs the tttplots.pl script through a shell, the same way a
// system(3) call would. Paths with embedded quotes are therefore unquoted by
// the shell before the script sees them.
type TTTPlots struct {
	Shell       string
	Interpreter string
	Script      string
	// Dir is the working directory; empty means the current one.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

func DefaultTTTPlots() *TTTPlots {
	return &TTTPlots{
		Shell:       "/bin/sh",
		Interpreter: "perl",
		Script:      "scripts/tttplots.pl",
	}
}

func (t *TTTPlots) CommandLine(input, outputBase string) string {
	return fmt.Sprintf("%s %s -f %s -o %s", t.Interpreter, t.Script, input, outputBase)
}

// Run blocks until the tool exits.
func (t *TTTPlots) Run(ctx context.Context, input, outputBase string) error {
	line := t.CommandLine(input, outputBase)
	shell := t.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = t.Dir
	cmd.Stdout = t.Stdout

	var stderr bytes.Buffer
	if t.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, t.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		return &ToolError{Command: line, Stderr: stderr.String(), Err: err}
	}
	return nil
}
