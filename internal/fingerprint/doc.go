// Package fingerprint derives stable 64-bit identifiers from strings.
//
// A Fingerprint carries two 32-bit halves computed by a named Algorithm. The
// halves pack into Unique64 as primary<<32 | secondary. Values depend only on
// the input bytes and the algorithm version, so they can be embedded as
// literal constants in generated code tables and compared across tools.
//
// Fingerprints are lookup and dedup keys. They are not cryptographic digests
// and offer no tamper resistance. The MD5 and SHA-256 values reported next to
// them exist purely for human cross-reference.
package fingerprint
