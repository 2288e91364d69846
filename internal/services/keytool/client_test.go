package keytool_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"keyprobe/internal/services"
	"keyprobe/internal/services/keytool"
)

type stubExecutor struct {
	binary string
	args   [][]string
	out    string
	err    error
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (services.Output, error) {
	s.binary = binary
	s.args = append(s.args, append([]string(nil), args...))
	return services.Output{Stdout: []byte(s.out)}, s.err
}

func newClient(t *testing.T, exec *stubExecutor) *keytool.Client {
	t.Helper()
	client, err := keytool.New("/opt/jdk/bin/keytool", 5, keytool.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestKeytoolArguments(t *testing.T) {
	tests := []struct {
		name string
		call func(*keytool.Client) (string, error)
		want []string
	}{
		{
			name: "jarfile",
			call: func(c *keytool.Client) (string, error) { return c.PrintJarCert(context.Background(), "app.apk") },
			want: []string{"-printcert", "-jarfile", "app.apk"},
		},
		{
			name: "certfile",
			call: func(c *keytool.Client) (string, error) { return c.PrintCertFile(context.Background(), "CERT.RSA") },
			want: []string{"-printcert", "-file", "CERT.RSA"},
		},
		{
			name: "keystore without password",
			call: func(c *keytool.Client) (string, error) {
				return c.ListKeystore(context.Background(), "release.jks", "")
			},
			want: []string{"-list", "-v", "-keystore", "release.jks"},
		},
		{
			name: "keystore with password",
			call: func(c *keytool.Client) (string, error) {
				return c.ListKeystore(context.Background(), "release.jks", "hunter2")
			},
			want: []string{"-list", "-v", "-storepass", "hunter2", "-keystore", "release.jks"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &stubExecutor{out: "Owner: CN=Example\n\n"}
			out, err := tt.call(newClient(t, exec))
			if err != nil {
				t.Fatalf("call returned error: %v", err)
			}
			if out != "Owner: CN=Example" {
				t.Fatalf("unexpected output %q", out)
			}
			if exec.binary != "/opt/jdk/bin/keytool" {
				t.Fatalf("unexpected binary %q", exec.binary)
			}
			if len(exec.args) != 1 || !reflect.DeepEqual(exec.args[0], tt.want) {
				t.Fatalf("unexpected args: got %v want %v", exec.args, tt.want)
			}
		})
	}
}

func TestKeytoolRejectsEmptyPath(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec)
	if _, err := client.PrintJarCert(context.Background(), " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(exec.args) != 0 {
		t.Fatal("executor must not run for empty path")
	}
}

func TestKeytoolFailureIsTagged(t *testing.T) {
	client := newClient(t, &stubExecutor{err: errors.New("exit status 1")})
	_, err := client.PrintCertFile(context.Background(), "CERT.RSA")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}
