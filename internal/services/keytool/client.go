package keytool

import (
	"context"
	"strings"

	"keyprobe/internal/services"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.tool.Exec = exec
		}
	}
}

// Client wraps keytool CLI interactions.
type Client struct {
	tool services.Tool
}

// New constructs a keytool client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	tool, err := services.NewTool("keytool", binary, timeoutSeconds, nil)
	if err != nil {
		return nil, err
	}
	client := &Client{tool: tool}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// PrintJarCert prints the signer certificates of a signed jar or APK.
func (c *Client) PrintJarCert(ctx context.Context, path string) (string, error) {
	if err := requirePath("printcert-jarfile", path); err != nil {
		return "", err
	}
	out, err := c.tool.Run(ctx, "printcert-jarfile", "-printcert", "-jarfile", path)
	if err != nil {
		return "", err
	}
	return out.Text(), nil
}

// PrintCertFile prints a PKCS#7 or X.509 certificate file such as META-INF/CERT.RSA.
func (c *Client) PrintCertFile(ctx context.Context, path string) (string, error) {
	if err := requirePath("printcert-file", path); err != nil {
		return "", err
	}
	out, err := c.tool.Run(ctx, "printcert-file", "-printcert", "-file", path)
	if err != nil {
		return "", err
	}
	return out.Text(), nil
}

// ListKeystore prints every entry of a keystore verbosely. An empty
// storepass omits -storepass, in which case keytool prints the entries
// without verifying keystore integrity.
func (c *Client) ListKeystore(ctx context.Context, path, storepass string) (string, error) {
	if err := requirePath("list", path); err != nil {
		return "", err
	}
	args := []string{"-list", "-v"}
	if storepass != "" {
		args = append(args, "-storepass", storepass)
	}
	args = append(args, "-keystore", path)
	out, err := c.tool.Run(ctx, "list", args...)
	if err != nil {
		return "", err
	}
	return out.Text(), nil
}

func requirePath(op, path string) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, "keytool", op, "empty path", nil)
	}
	return nil
}
