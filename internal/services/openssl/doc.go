// Package openssl drives the openssl CLI to produce RSA key pairs.
//
// Keys are generated entirely by openssl. The client only chooses file names,
// validates the requested modulus size, and confirms both PEM files exist
// after the tool returns.
package openssl
