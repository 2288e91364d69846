package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ErrPathTraversal indicates an entry name that would escape the destination.
var ErrPathTraversal = errors.New("archive entry contains path traversal")

// maxExtractSize bounds a single extracted entry. Provisioning profiles and
// certificate blocks are a few kilobytes.
const maxExtractSize = 64 << 20

// ExtractEntry writes the entry stored as fullPath into destDir, preserving
// its relative path, and returns the written file path.
func ExtractEntry(archivePath, fullPath, destDir string) (string, error) {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", unreadable(archivePath, err)
	}
	defer rc.Close()

	var file *zip.File
	for _, f := range rc.File {
		if f.Name == fullPath {
			file = f
			break
		}
	}
	if file == nil {
		return "", fmt.Errorf("extract %s: entry %q not present", archivePath, fullPath)
	}

	rel, err := validateEntryName(fullPath)
	if err != nil {
		return "", err
	}
	if file.UncompressedSize64 > maxExtractSize {
		return "", fmt.Errorf("extract %s: entry %q is %d bytes, limit %d", archivePath, fullPath, file.UncompressedSize64, maxExtractSize)
	}

	target := filepath.Join(destDir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating parent for %s: %w", fullPath, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening entry %s: %w", fullPath, err)
	}
	defer src.Close()

	if err := writeFile(target, io.LimitReader(src, maxExtractSize+1)); err != nil {
		return "", fmt.Errorf("extracting %s: %w", fullPath, err)
	}
	return target, nil
}

// validateEntryName converts a stored name to a relative OS path that stays
// inside the destination.
func validateEntryName(name string) (string, error) {
	if strings.Contains(name, "\\") {
		name = strings.ReplaceAll(name, "\\", "/")
	}
	if path.IsAbs(name) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: absolute path %q", ErrPathTraversal, name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes destination", ErrPathTraversal, name)
	}
	return filepath.FromSlash(clean), nil
}

func writeFile(target string, r io.Reader) error {
	tmp := target + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	n, err := io.Copy(f, r)
	if err == nil && n > maxExtractSize {
		err = fmt.Errorf("entry exceeds %d bytes", maxExtractSize)
	}
	if err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}
