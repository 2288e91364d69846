package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Output holds the captured streams of one tool invocation.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Text returns stdout with trailing whitespace removed.
func (o Output) Text() string {
	return strings.TrimRight(string(o.Stdout), " \t\r\n")
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Output, error)
}

// CommandExecutor runs binaries with exec.CommandContext.
type CommandExecutor struct{}

// Run executes binary and captures both streams. A non-zero exit is reported
// as an error that includes the trimmed stderr.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return out, fmt.Errorf("%w: %s", ErrTimeout, binary)
	}
	if detail := strings.TrimSpace(stderr.String()); detail != "" {
		return out, fmt.Errorf("%s: %w: %s", binary, err, detail)
	}
	return out, fmt.Errorf("%s: %w", binary, err)
}

// Tool pairs a binary with an executor and per-call timeout. The toolchain
// clients embed it.
type Tool struct {
	Name    string
	Binary  string
	Timeout time.Duration
	Exec    Executor
}

// NewTool validates the binary and applies defaults.
func NewTool(name, binary string, timeoutSeconds int, exec Executor) (Tool, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Tool{}, Wrap(ErrConfiguration, name, "init", "binary required", nil)
	}
	if exec == nil {
		exec = CommandExecutor{}
	}
	var timeout time.Duration
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return Tool{Name: name, Binary: binary, Timeout: timeout, Exec: exec}, nil
}

// Run invokes the tool, bounding the call by Timeout when set. Failures are
// tagged ErrExternalTool, or ErrTimeout when the deadline fired.
func (t Tool) Run(ctx context.Context, operation string, args ...string) (Output, error) {
	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	out, err := t.Exec.Run(runCtx, t.Binary, args)
	if err != nil {
		marker := ErrExternalTool
		if errors.Is(err, ErrTimeout) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			marker = ErrTimeout
		}
		return out, Wrap(marker, t.Name, operation, "", err)
	}
	return out, nil
}
