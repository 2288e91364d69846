package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	lockFileName = ".lock"
	lockRetry    = 50 * time.Millisecond
)

// ErrBusy is returned by CleanStale when workspaces are in use.
var ErrBusy = errors.New("staging area busy")

// Area is a staging root shared by concurrent operations.
type Area struct {
	Root string
}

// NewArea returns an area rooted at dir.
func NewArea(dir string) (*Area, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("staging directory required")
	}
	return &Area{Root: dir}, nil
}

func (a *Area) lockPath() string {
	return filepath.Join(a.Root, lockFileName)
}

// Workspace is a directory owned by a single operation.
type Workspace struct {
	Path string

	lock *flock.Flock
	once sync.Once
	err  error
}

// Acquire creates a fresh workspace. The caller must Release it on every
// exit path, typically with defer.
func (a *Area) Acquire(ctx context.Context) (*Workspace, error) {
	if err := os.MkdirAll(a.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	lock := flock.New(a.lockPath())
	ok, err := lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("lock staging root: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("lock staging root: %w", ErrBusy)
	}

	dir := filepath.Join(a.Root, uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Path: dir, lock: lock}, nil
}

// Release removes the workspace directory and drops the shared lock. Calling
// it more than once is safe and returns the first result.
func (w *Workspace) Release() error {
	if w == nil {
		return nil
	}
	w.once.Do(func() {
		removeErr := os.RemoveAll(w.Path)
		unlockErr := w.lock.Unlock()
		w.err = errors.Join(removeErr, unlockErr)
	})
	return w.err
}

// Join returns a path inside the workspace.
func (w *Workspace) Join(elem ...string) string {
	return filepath.Join(append([]string{w.Path}, elem...)...)
}
