package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"keyprobe/internal/archive"
	"keyprobe/internal/services"
	"keyprobe/internal/staging"
	"keyprobe/internal/testsupport"
)

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("artifact"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestListDispatchesToKeytool(t *testing.T) {
	env := setupCLITestEnv(t)
	apk := writeArtifact(t, env.baseDir, "app.apk")

	out, _, err := env.run(t, "list", apk)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "keytool -printcert -jarfile "+apk)
}

func TestListKeystorePassword(t *testing.T) {
	env := setupCLITestEnv(t)
	ks := writeArtifact(t, env.baseDir, "release.jks")

	out, _, err := env.run(t, "list", "--storepass", "hunter2", ks)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "keytool -list -v -storepass hunter2 -keystore "+ks)
}

func TestListIPADecodesEmbeddedProfile(t *testing.T) {
	env := setupCLITestEnv(t)
	ipa := testsupport.WriteZip(t, filepath.Join(env.baseDir, "Demo.ipa"),
		testsupport.ZipEntry{Name: "Payload/Demo.app/Info.plist"},
		testsupport.ZipEntry{Name: "Payload/Demo.app/embedded.mobileprovision", Body: "<plist>team</plist>"},
	)

	out, _, err := env.run(t, "list", ipa)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "profile: Payload/Demo.app/embedded.mobileprovision")
	requireContains(t, out, "<plist>team</plist>")

	dirs, err := staging.ListDirectories(env.cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected staging to be empty, found %d workspaces", len(dirs))
	}
}

func TestListReportsEachFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	apk := writeArtifact(t, env.baseDir, "app.apk")
	txt := writeArtifact(t, env.baseDir, "notes.txt")

	out, stderr, err := env.run(t, "list", txt, apk)
	if !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if code := services.ExitCode(err); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	requireContains(t, stderr, txt)
	requireContains(t, out, "==> "+apk+" <==")
}

func TestListJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	profile := writeArtifact(t, env.baseDir, "team.mobileprovision")

	out, _, err := env.run(t, "list", "--json", profile)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var results []map[string]any
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(results) != 1 || results[0]["kind"] != "mobileprovision" || results[0]["output"] != "artifact" {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestListRequiresArgs(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "list")
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code %d, want 2 (%v)", code, err)
	}
}

func TestLocate(t *testing.T) {
	env := setupCLITestEnv(t)
	ipa := testsupport.WriteZip(t, filepath.Join(env.baseDir, "Demo.ipa"),
		testsupport.ZipEntry{Name: "Payload/Demo.app/embedded.mobileprovision"},
		testsupport.ZipEntry{Name: "Payload/Demo.app/PlugIns/Ext.appex/embedded.mobileprovision"},
		testsupport.ZipEntry{Name: "META-INF/CERT.RSA"},
	)

	out, _, err := env.run(t, "locate", "--name", "CERT.RSA", ipa)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if out != "META-INF/CERT.RSA\n" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, _, err := env.run(t, "locate", ipa); !errors.Is(err, archive.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	if _, _, err := env.run(t, "locate", "--name", "missing.bin", ipa); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
