package config

import (
	"errors"
	"fmt"
	"strings"

	"keyprobe/internal/fingerprint"
)

const maxParallelLimit = 64

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateInspect(); err != nil {
		return err
	}
	if err := c.validateFingerprint(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must be zero (no limit) or positive")
	}
	return nil
}

func (c *Config) validateInspect() error {
	if strings.HasSuffix(c.Inspect.ProvisionName, "/") {
		return fmt.Errorf("inspect.provision_name %q must name a file, not a directory", c.Inspect.ProvisionName)
	}
	if c.Inspect.MaxParallel < 1 || c.Inspect.MaxParallel > maxParallelLimit {
		return fmt.Errorf("inspect.max_parallel must be between 1 and %d", maxParallelLimit)
	}
	return nil
}

func (c *Config) validateFingerprint() error {
	if _, err := fingerprint.Lookup(c.Fingerprint.Algorithm); err != nil {
		return fmt.Errorf("fingerprint.algorithm: %w", err)
	}
	if _, err := fingerprint.ParseForm(c.Fingerprint.Form); err != nil {
		return fmt.Errorf("fingerprint.form: %w", err)
	}
	return nil
}

func (c *Config) validateStaging() error {
	if c.Staging.MaxAgeHours < 1 {
		return errors.New("staging.max_age_hours must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
