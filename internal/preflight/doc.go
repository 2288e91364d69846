// Package preflight provides readiness checks for the external toolchain
// and the filesystem paths keyprobe depends on.
//
// The CLI "keyprobe doctor" command renders RunAll and CheckSystemDeps as a
// status table. Individual checks never fail hard; each returns a Result the
// caller decides how to present.
package preflight
