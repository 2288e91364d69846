package staging

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"keyprobe/internal/logging"
)

// DirInfo describes one workspace under the staging root.
type DirInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size_bytes"`
}

// CleanupError is a workspace CleanStale could not inspect or remove.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStaleResult lists what a cleanup pass removed and what it left.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// ListDirectories reports every workspace under root with its size. A blank
// or missing root has no workspaces.
func ListDirectories(root string) ([]DirInfo, error) {
	entries, err := readRoot(root)
	if err != nil || entries == nil {
		return nil, err
	}
	var dirs []DirInfo
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(strings.TrimSpace(root), entry.Name())
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    treeSize(path),
		})
	}
	return dirs, nil
}

// CleanStale removes workspaces whose modification time is more than maxAge
// in the past. It holds the staging lock exclusively for the whole pass and
// returns ErrBusy without touching anything while any workspace is held.
// Per-workspace failures are collected in the result rather than aborting.
func CleanStale(ctx context.Context, root string, maxAge time.Duration, logger *slog.Logger) (CleanStaleResult, error) {
	var result CleanStaleResult
	root = strings.TrimSpace(root)
	if root == "" {
		return result, nil
	}
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return result, nil
	} else if err != nil {
		return result, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lock := flock.New(filepath.Join(root, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("lock staging root: %w", err)
	}
	if !locked {
		return result, ErrBusy
	}
	defer func() { _ = lock.Unlock() }()

	entries, err := readRoot(root)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
		return result, nil
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := filepath.Join(root, entry.Name())
		info, err := entry.Info()
		if err == nil && info.ModTime().After(cutoff) {
			continue
		}
		if err == nil {
			err = os.RemoveAll(path)
		}
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "stale workspace not removed", "staging_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed stale workspace",
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime()).Truncate(time.Second)),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
	return result, nil
}

// readRoot returns the directory entries of root. Files such as the lock are
// skipped. A blank or missing root yields nil.
func readRoot(root string) ([]fs.DirEntry, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dirs := entries[:0]
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

func treeSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, infoErr := d.Info(); infoErr == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
