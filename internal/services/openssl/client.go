package openssl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"keyprobe/internal/services"
)

const (
	DefaultBits = 2048
	MinBits     = 1024
	MaxBits     = 16384

	timestampLayout = "20060102_150405"
)

// KeyPair names the files written by GenerateRSA.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
	Bits       int
}

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

// Client wraps openssl CLI interactions.
type Client struct {
	tool services.Tool
}

// New constructs an openssl client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	tool, err := services.NewTool("openssl", binary, timeoutSeconds, nil)
	if err != nil {
		return nil, err
	}
	client := &Client{tool: tool}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ParseBits converts a user supplied modulus size. Empty selects DefaultBits.
func ParseBits(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultBits, nil
	}
	bits, err := strconv.Atoi(value)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "openssl", "genrsa", fmt.Sprintf("invalid key size %q", value), nil)
	}
	if err := validateBits(bits); err != nil {
		return 0, err
	}
	return bits, nil
}

func validateBits(bits int) error {
	if bits < MinBits || bits > MaxBits {
		return services.Wrap(services.ErrValidation, "openssl", "genrsa",
			fmt.Sprintf("key size %d outside %d..%d", bits, MinBits, MaxBits), nil)
	}
	return nil
}

// GenerateRSA writes private_<ts>.pem and public_<ts>.pem into dir.
func (c *Client) GenerateRSA(ctx context.Context, dir string, bits int, now time.Time) (KeyPair, error) {
	if err := validateBits(bits); err != nil {
		return KeyPair{}, err
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return KeyPair{}, fmt.Errorf("create key directory: %w", err)
	}

	stamp := now.Format(timestampLayout)
	pair := KeyPair{
		PrivateKey: filepath.Join(dir, "private_"+stamp+".pem"),
		PublicKey:  filepath.Join(dir, "public_"+stamp+".pem"),
		Bits:       bits,
	}
	for _, path := range []string{pair.PrivateKey, pair.PublicKey} {
		if _, err := os.Stat(path); err == nil {
			return KeyPair{}, services.Wrap(services.ErrValidation, "openssl", "genrsa", "refusing to overwrite "+path, nil)
		}
	}

	if _, err := c.tool.Run(ctx, "genrsa", "genrsa", "-out", pair.PrivateKey, strconv.Itoa(bits)); err != nil {
		return KeyPair{}, err
	}
	if err := requireFile(pair.PrivateKey, "genrsa"); err != nil {
		return KeyPair{}, err
	}
	if _, err := c.tool.Run(ctx, "pubout", "rsa", "-in", pair.PrivateKey, "-pubout", "-out", pair.PublicKey); err != nil {
		return KeyPair{}, err
	}
	if err := requireFile(pair.PublicKey, "pubout"); err != nil {
		return KeyPair{}, err
	}
	return pair, nil
}

func requireFile(path, op string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrExternalTool, "openssl", op, "no output file "+filepath.Base(path), nil)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrExternalTool, "openssl", op, filepath.Base(path)+" is not a regular file", nil)
	}
	return nil
}
