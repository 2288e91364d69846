package archive

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Signal is a predicate's verdict for one archive entry.
type Signal int

const (
	// Continue moves on to the next entry.
	Continue Signal = iota
	// Matched claims the entry as the target. Scanning still continues so a
	// second claim can be detected.
	Matched
	// Reject aborts the scan as ambiguous.
	Reject
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Matched:
		return "matched"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Entry identifies one member of an archive.
type Entry struct {
	// FullPath is the name as stored in the archive, always slash separated.
	FullPath string
	// BaseName is the last path component of FullPath.
	BaseName string
}

// Predicate decides whether an entry is the scan target. Errors returned by
// the predicate abort the scan and are returned unchanged.
type Predicate func(fullPath, baseName string) (Signal, error)

// ScanFile opens the archive at archivePath and scans its directory.
// found is false, with a nil error, when no entry matched.
func ScanFile(archivePath string, pred Predicate) (entry Entry, found bool, err error) {
	if pred == nil {
		return Entry{}, false, errors.New("archive scan: nil predicate")
	}
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return Entry{}, false, unreadable(archivePath, err)
	}
	defer rc.Close()
	return scanFiles(archivePath, rc.File, pred)
}

// ScanReader scans an archive available as a random access stream of size bytes.
func ScanReader(r io.ReaderAt, size int64, pred Predicate) (entry Entry, found bool, err error) {
	if pred == nil {
		return Entry{}, false, errors.New("archive scan: nil predicate")
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Entry{}, false, unreadable("", err)
	}
	return scanFiles("", zr.File, pred)
}

// scanFiles walks files in directory order. The current candidate lives only
// in this call frame.
func scanFiles(source string, files []*zip.File, pred Predicate) (Entry, bool, error) {
	var (
		candidate Entry
		found     bool
	)
	for _, f := range files {
		// Directory records carry no content and are never a target.
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		current := Entry{FullPath: f.Name, BaseName: path.Base(f.Name)}

		signal, err := pred(current.FullPath, current.BaseName)
		if err != nil {
			return Entry{}, false, err
		}

		switch signal {
		case Continue:
		case Matched:
			if found {
				return Entry{}, false, ambiguous(source, candidate.FullPath, current.FullPath)
			}
			candidate, found = current, true
		case Reject:
			if found {
				return Entry{}, false, ambiguous(source, candidate.FullPath, current.FullPath)
			}
			return Entry{}, false, ambiguous(source, current.FullPath)
		default:
			return Entry{}, false, fmt.Errorf("archive scan: unexpected %s for %q", signal, current.FullPath)
		}
	}
	return candidate, found, nil
}

// MatchSuffix returns a predicate matching entries that end with target.
// A target without a slash is compared against the base name; a target with
// a slash is compared against the full stored path.
func MatchSuffix(target string) Predicate {
	useFullPath := strings.Contains(target, "/")
	return func(fullPath, baseName string) (Signal, error) {
		name := baseName
		if useFullPath {
			name = fullPath
		}
		if strings.HasSuffix(name, target) {
			return Matched, nil
		}
		return Continue, nil
	}
}

// LocateEntry returns the stored path of the single entry matching target.
// found is false when the archive holds no such entry.
func LocateEntry(archivePath, target string) (fullPath string, found bool, err error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false, errors.New("locate entry: empty target")
	}
	entry, found, err := ScanFile(archivePath, MatchSuffix(target))
	if err != nil || !found {
		return "", false, err
	}
	return entry.FullPath, true, nil
}
