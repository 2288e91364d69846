// Package services defines shared utilities consumed by the inspection glue
// and the external toolchain clients.
//
// Key responsibilities:
//   - Context helpers that stamp artifact paths, operation names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, validation, not found, unsupported).
//   - The Executor abstraction and Tool runner that make invocations of
//     keytool, security and openssl testable and time bounded.
//
// Toolchain clients live in subpackages (keytool, cms, openssl) and build on
// Tool rather than calling exec.Command directly.
package services
