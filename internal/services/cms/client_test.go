package cms_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"keyprobe/internal/services"
	"keyprobe/internal/services/cms"
)

type stubExecutor struct {
	args []string
	out  string
	err  error
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (services.Output, error) {
	s.args = append([]string(nil), args...)
	return services.Output{Stdout: []byte(s.out)}, s.err
}

func TestDecodeInvokesSecurityCMS(t *testing.T) {
	exec := &stubExecutor{out: "<plist version=\"1.0\"></plist>\n"}
	client, err := cms.New("security", 5, cms.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := client.Decode(context.Background(), "/tmp/embedded.mobileprovision")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != `<plist version="1.0"></plist>` {
		t.Fatalf("unexpected output %q", out)
	}
	if got := strings.Join(exec.args, " "); got != "cms -D -i /tmp/embedded.mobileprovision" {
		t.Fatalf("unexpected args %q", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	client, err := cms.New("security", 5, cms.WithExecutor(&stubExecutor{err: errors.New("exit status 1")}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Decode(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.Decode(context.Background(), "a.mobileprovision"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := cms.New("", 5); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
