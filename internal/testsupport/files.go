package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// ZipEntry is one member written by WriteZip. A Name ending in "/" becomes a
// directory record; an empty Body becomes "content of <Name>".
type ZipEntry struct {
	Name string
	Body string
}

// WriteZip builds an archive at path with entries in the given order and
// returns path.
func WriteZip(t testing.TB, path string, entries ...ZipEntry) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("add %s: %v", e.Name, err)
		}
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		body := e.Body
		if body == "" {
			body = "content of " + e.Name
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("fill %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("finish archive: %v", err)
	}

	mkParent(t, path)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func mkParent(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
