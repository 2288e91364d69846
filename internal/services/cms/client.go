// Package cms decodes CMS-signed provisioning profiles with the macOS
// security tool.
package cms

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

// Client wraps `security cms`.
type Client struct {
	tool services.Tool
}

// New constructs a cms client around the security binary.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	tool, err := services.NewTool("cms", binary, timeoutSeconds, nil)
	if err != nil {
		return nil, err
	}
	client := &Client{tool: tool}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Decode prints the plist payload of a CMS message such as an
// embedded.mobileprovision.
func (c *Client) Decode(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", services.Wrap(services.ErrValidation, "cms", "decode", "empty path", nil)
	}
	out, err := c.tool.Run(ctx, "decode", "cms", "-D", "-i", path)
	if err != nil {
		return "", err
	}
	return out.Text(), nil
}
