package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	StagingDir   string `toml:"staging_dir"`
	RegistryPath string `toml:"registry_path"`
	LogDir       string `toml:"log_dir"`
}

// Tools names the external toolchain binaries.
type Tools struct {
	Keytool        string `toml:"keytool"`
	Security       string `toml:"security"`
	OpenSSL        string `toml:"openssl"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Inspect contains artifact inspection settings.
type Inspect struct {
	ProvisionName    string `toml:"provision_name"`
	MaxParallel      int    `toml:"max_parallel"`
	KeystorePassword string `toml:"keystore_password"`
}

// Fingerprint selects the identifier algorithm and byte form.
type Fingerprint struct {
	Algorithm string `toml:"algorithm"`
	Form      string `toml:"form"`
}

// Staging contains scratch area housekeeping settings.
type Staging struct {
	MaxAgeHours int `toml:"max_age_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for keyprobe.
//
// Configuration sections by subsystem:
//   - Paths: staging root, fingerprint registry, optional log directory
//   - Tools: keytool, security and openssl binaries plus call timeout
//   - Inspect: provisioning profile name, parallelism, keystore password
//   - Fingerprint: default algorithm and byte form
//   - Staging: stale workspace age
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Tools       Tools       `toml:"tools"`
	Inspect     Inspect     `toml:"inspect"`
	Fingerprint Fingerprint `toml:"fingerprint"`
	Staging     Staging     `toml:"staging"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the staging root, the registry's parent
// directory, and the log directory when one is configured.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StagingDir, filepath.Dir(c.Paths.RegistryPath)}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ToolTimeout returns the per-invocation timeout for external tools. Zero
// means no limit.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// StagingMaxAge returns the age after which staging workspaces are stale.
func (c *Config) StagingMaxAge() time.Duration {
	return time.Duration(c.Staging.MaxAgeHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is left untouched unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
