// Package logging assembles the slog loggers used by the keyprobe CLI.
//
// It owns the console and JSON handlers, level parsing, and the optional
// JSON log file under paths.log_dir, and exposes context helpers that tag
// records with the operation and artifact being handled. Core packages
// (archive, fingerprint) never log; only the glue does.
package logging
