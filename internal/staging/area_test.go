package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireCreatesUniqueWorkspaces(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "staging")
	area, err := NewArea(root)
	if err != nil {
		t.Fatalf("NewArea: %v", err)
	}

	first, err := area.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()
	second, err := area.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	defer second.Release()

	if first.Path == second.Path {
		t.Fatal("workspaces must not share a directory")
	}
	for _, ws := range []*Workspace{first, second} {
		if filepath.Dir(ws.Path) != root {
			t.Fatalf("workspace %s not under %s", ws.Path, root)
		}
		info, err := os.Stat(ws.Path)
		if err != nil || !info.IsDir() {
			t.Fatalf("workspace missing: %v", err)
		}
	}
	if got := first.Join("Payload", "a.app"); got != filepath.Join(first.Path, "Payload", "a.app") {
		t.Fatalf("Join = %s", got)
	}
}

func TestReleaseRemovesWorkspaceAndIsIdempotent(t *testing.T) {
	area, err := NewArea(t.TempDir())
	if err != nil {
		t.Fatalf("NewArea: %v", err)
	}
	ws, err := area.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := os.WriteFile(ws.Join("embedded.mobileprovision"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(ws.Path); !os.IsNotExist(err) {
		t.Fatalf("workspace should be gone, stat err=%v", err)
	}
	if err := ws.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	var nilWorkspace *Workspace
	if err := nilWorkspace.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}

func TestNewAreaRequiresDirectory(t *testing.T) {
	if _, err := NewArea("  "); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
