package archive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadable reports an archive that could not be opened or whose
	// directory could not be parsed.
	ErrUnreadable = errors.New("archive unreadable")
	// ErrAmbiguous reports more than one entry satisfying a scan predicate.
	ErrAmbiguous = errors.New("ambiguous archive entry")
)

// Kind classifies a ScanError.
type Kind int

const (
	KindUnreadable Kind = iota + 1
	KindAmbiguous
)

func (k Kind) String() string {
	switch k {
	case KindUnreadable:
		return "unreadable"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ScanError describes a failed scan. Entries lists the candidate entry names
// for ambiguity failures.
type ScanError struct {
	Kind    Kind
	Path    string
	Entries []string
	Err     error
}

func (e *ScanError) Error() string {
	var b strings.Builder
	b.WriteString("archive scan")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	switch e.Kind {
	case KindAmbiguous:
		b.WriteString(": ")
		b.WriteString(ErrAmbiguous.Error())
		if len(e.Entries) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(e.Entries, ", "))
			b.WriteString(")")
		}
	default:
		b.WriteString(": ")
		b.WriteString(ErrUnreadable.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ScanError) Unwrap() error { return e.Err }

// Is lets errors.Is match the package sentinels by kind.
func (e *ScanError) Is(target error) bool {
	switch target {
	case ErrUnreadable:
		return e.Kind == KindUnreadable
	case ErrAmbiguous:
		return e.Kind == KindAmbiguous
	default:
		return false
	}
}

func unreadable(path string, err error) error {
	return &ScanError{Kind: KindUnreadable, Path: path, Err: err}
}

func ambiguous(path string, entries ...string) error {
	return &ScanError{Kind: KindAmbiguous, Path: path, Entries: entries}
}
