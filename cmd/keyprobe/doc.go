// Package main hosts the keyprobe CLI entrypoint and command graph.
//
// The Cobra command tree inspects signing artifacts (list, locate), creates
// RSA key pairs, computes and records string fingerprints (hash, table), and
// maintains the staging area and configuration. Configuration is loaded once
// per invocation by commandContext; commands annotated with skipConfigLoad
// run without it.
//
// Errors are printed to stderr. The exit status is 2 for usage and
// configuration problems and 1 for everything else.
package main
