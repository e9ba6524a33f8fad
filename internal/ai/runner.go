// Package ai runs the external summarizer command.
package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	sq "github.com/kballard/go-shellquote"
)

// ErrEmptyOutput is wrapped by InvocationError when the command succeeds but
// prints nothing.
var ErrEmptyOutput = errors.New("command produced no output")

// InvocationError describes a failed run of the summarizer command.
type InvocationError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("ai command %q failed: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Runner invokes a command line with a prompt argument and a stdin payload.
type Runner struct {
	command string
	words   []string
	timeout time.Duration
}

// NewRunner parses command with shell quoting rules. A zero timeout means
// the run is bounded only by the caller's context.
func NewRunner(command string, timeout time.Duration) (*Runner, error) {
	words, err := sq.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid ai command %q: %w", command, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("invalid ai command %q: no program", command)
	}
	return &Runner{command: command, words: words, timeout: timeout}, nil
}

// Command returns the configured command line.
func (r *Runner) Command() string {
	return r.command
}

// LookPath resolves the command's program on PATH.
func (r *Runner) LookPath() (string, error) {
	return exec.LookPath(r.words[0])
}

// Run executes the command with prompt as its last argument and stdin as its
// standard input, and returns the trimmed standard output.
func (r *Runner) Run(ctx context.Context, prompt, stdin string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.words[1:]...), prompt)
	cmd := exec.CommandContext(ctx, r.words[0], args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &InvocationError{
			Command:  r.command,
			ExitCode: exitCode(err),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", &InvocationError{
			Command: r.command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     ErrEmptyOutput,
		}
	}

	return out, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
