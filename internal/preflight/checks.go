package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"

	"keyprobe/internal/config"
	"keyprobe/internal/deps"
	"keyprobe/internal/registry"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRegistry opens the fingerprint registry and counts its entries. A
// registry that has not been created yet passes; it is created on first use.
func CheckRegistry(ctx context.Context, path string) Result {
	const name = "Fingerprint registry"

	if path == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not created yet)", path)}
	}

	store, err := registry.Open(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: ping: %v)", path, err)}
	}
	entries, err := store.List(ctx, "")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", path, len(entries))}
}

// CheckSystemDeps evaluates the external toolchain for the given config.
// The security binary only exists on macOS, so it is optional elsewhere.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "keytool",
			Command:     cfg.Tools.Keytool,
			Description: "Required for APK, RSA and keystore inspection",
		},
		{
			Name:        "security",
			Command:     cfg.Tools.Security,
			Description: "Required for IPA and provisioning profile decoding",
			Optional:    runtime.GOOS != "darwin",
		},
		{
			Name:        "openssl",
			Command:     cfg.Tools.OpenSSL,
			Description: "Required for RSA key pair generation",
		},
	}
	return deps.CheckBinaries(requirements)
}
