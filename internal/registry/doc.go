// Package registry persists recorded fingerprints in SQLite so they can be
// emitted later as a code table.
//
// Each algorithm has its own namespace. Within it a text maps to exactly one
// unique64 and a unique64 to exactly one text; recording a second text that
// produces an existing unique64 fails with ErrCollision instead of silently
// aliasing the two. Unique64 values are stored as 16-digit hex text because
// SQLite integers are signed.
package registry
