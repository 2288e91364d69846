// Package archive locates single members inside zip-based signing containers
// (IPA and APK packages) without extracting the rest of the archive.
//
// Scanning walks the central directory in stored order and hands each entry
// name to a caller Predicate. The predicate answers with a Signal: Continue,
// Matched, or Reject. A match does not end the scan; the remaining entries are
// still visited so a second candidate can be reported as ErrAmbiguous instead
// of silently picking the first one. Entry contents are never read while
// scanning.
//
// Key entry points:
//   - ScanFile / ScanReader: run a Predicate over an archive
//   - LocateEntry: find the unique entry whose name ends with a target
//   - ExtractEntry: copy one confirmed entry into a destination directory
//
// The package keeps no state between calls and never logs; callers decide
// how failures are presented.
package archive
