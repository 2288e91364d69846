package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"keyprobe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.RegistryPath = filepath.Join(base, "data", "fingerprints.db")
	cfgVal.Paths.LogDir = ""
	cfgVal.Tools.TimeoutSeconds = 10
	cfgVal.Inspect.KeystorePassword = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLogDir enables the file log under the test's base directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithFingerprint overrides the default algorithm and form.
func WithFingerprint(algorithm, form string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fingerprint.Algorithm = algorithm
		b.cfg.Fingerprint.Form = form
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the keyprobe toolchain is
// stubbed. Each stub echoes its own name and arguments.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"keytool", "security", "openssl"}
		}
		for _, name := range names {
			script := EchoScript(name)
			if name == "openssl" {
				script = OpenSSLScript
			}
			WriteStub(b.t, b.binDir(), name, script)
		}
		PrependPath(b.t, b.binDir())
	}
}

// WithStub installs a stub with a custom script body and points the matching
// tool setting at it.
func WithStub(name, script string) ConfigOption {
	return func(b *configBuilder) {
		path := WriteStub(b.t, b.binDir(), name, script)
		switch name {
		case "keytool":
			b.cfg.Tools.Keytool = path
		case "security":
			b.cfg.Tools.Security = path
		case "openssl":
			b.cfg.Tools.OpenSSL = path
		}
	}
}

func (b *configBuilder) binDir() string {
	return filepath.Join(b.baseDir, "bin")
}

// EchoScript returns a shell script printing name followed by its arguments.
func EchoScript(name string) string {
	return "#!/bin/sh\necho \"" + name + " $*\"\n"
}

// OpenSSLScript writes a placeholder PEM to every -out argument.
const OpenSSLScript = `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "-out" ]; then
    shift
    echo "-----BEGIN PLACEHOLDER-----" > "$1"
  fi
  shift
done
`

// WriteStub writes an executable script named name into dir and returns its path.
func WriteStub(t testing.TB, dir, name, script string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t testing.TB, dir string) {
	t.Helper()

	oldPath := os.Getenv("PATH")
	newPath := dir
	if oldPath != "" {
		newPath = dir + string(os.PathListSeparator) + oldPath
	}
	if err := os.Setenv("PATH", newPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}
