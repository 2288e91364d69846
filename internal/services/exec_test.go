package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keyprobe/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorCapturesStdout(t *testing.T) {
	script := writeScript(t, `echo "args: $*"`)
	out, err := services.CommandExecutor{}.Run(context.Background(), script, []string{"-a", "b"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Text() != "args: -a b" {
		t.Fatalf("unexpected stdout %q", out.Text())
	}
}

func TestCommandExecutorReportsStderrOnFailure(t *testing.T) {
	script := writeScript(t, `echo "keystore was tampered with" >&2; exit 3`)
	_, err := services.CommandExecutor{}.Run(context.Background(), script, nil)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "keystore was tampered with") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

type fakeExecutor struct {
	binary string
	args   []string
	out    services.Output
	err    error
	block  bool
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) (services.Output, error) {
	f.binary = binary
	f.args = append([]string(nil), args...)
	if f.block {
		<-ctx.Done()
		return services.Output{}, ctx.Err()
	}
	return f.out, f.err
}

func TestNewToolRequiresBinary(t *testing.T) {
	if _, err := services.NewTool("keytool", "  ", 10, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestToolRunTagsFailures(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 1")}
	tool, err := services.NewTool("cms", "security", 0, exec)
	if err != nil {
		t.Fatalf("NewTool: %v", err)
	}
	_, err = tool.Run(context.Background(), "decode", "cms", "-D")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if exec.binary != "security" || strings.Join(exec.args, " ") != "cms -D" {
		t.Fatalf("unexpected invocation %s %v", exec.binary, exec.args)
	}
}

func TestToolRunHonoursTimeout(t *testing.T) {
	tool, err := services.NewTool("openssl", "openssl", 1, &fakeExecutor{block: true})
	if err != nil {
		t.Fatalf("NewTool: %v", err)
	}
	tool.Timeout = 20 * time.Millisecond
	_, err = tool.Run(context.Background(), "genrsa")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}
