package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeInspect()
	c.normalizeFingerprint()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RegistryPath) == "" {
		c.Paths.RegistryPath = defaultRegistryPath
	}
	if c.Paths.RegistryPath, err = expandPath(strings.TrimSpace(c.Paths.RegistryPath)); err != nil {
		return fmt.Errorf("paths.registry_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Keytool = defaultString(c.Tools.Keytool, defaultKeytool)
	c.Tools.Security = defaultString(c.Tools.Security, defaultSecurity)
	c.Tools.OpenSSL = defaultString(c.Tools.OpenSSL, defaultOpenSSL)
}

func (c *Config) normalizeInspect() {
	c.Inspect.ProvisionName = defaultString(c.Inspect.ProvisionName, defaultProvisionName)
	if c.Inspect.MaxParallel == 0 {
		c.Inspect.MaxParallel = defaultMaxParallel
	}
	if c.Inspect.KeystorePassword == "" {
		if value, ok := os.LookupEnv(storepassEnv); ok {
			c.Inspect.KeystorePassword = value
		}
	}
}

func (c *Config) normalizeFingerprint() {
	c.Fingerprint.Algorithm = strings.ToLower(defaultString(c.Fingerprint.Algorithm, defaultAlgorithm))
	c.Fingerprint.Form = strings.ToLower(defaultString(c.Fingerprint.Form, defaultForm))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
