// Package inspect dispatches signing artifacts to the toolchain that can
// print their certificates or provisioning data.
//
// Classify maps a file extension to a Kind. Inspector.Inspect runs the
// matching tool: keytool for APKs, certificate files and keystores, and the
// CMS decoder for provisioning profiles. IPA packages are scanned for their
// embedded profile with package archive; the single matching entry is
// extracted into a staging workspace that is released on every exit path.
//
// InspectAll runs several inspections concurrently, bounded by the configured
// parallelism, and returns one Result per input in input order. A failed
// inspection never cancels the others.
package inspect
