// Package keytool wraps the JDK keytool binary for printing certificates
// from APK signatures, detached certificate blocks, and Java keystores.
//
// Output is returned verbatim; nothing here validates certificates or
// signatures.
package keytool
