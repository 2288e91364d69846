// Package config loads, normalizes, and validates keyprobe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the KEYPROBE_STOREPASS
// environment fallback for the keystore password. Missing files are not an
// error: defaults apply.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
