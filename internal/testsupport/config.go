package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"phototriage/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input and destination directories are created so the config validates.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Photos.InputDir = filepath.Join(base, "inbox")
	cfgVal.Destinations = config.Destinations{
		RAWBackupDir: filepath.Join(base, "raw-backup"),
		RAWEditDir:   filepath.Join(base, "raw-edit"),
		JPEGDir:      filepath.Join(base, "jpeg"),
		DeleteDir:    filepath.Join(base, "to-delete"),
	}
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{
		cfgVal.Photos.InputDir,
		cfgVal.Destinations.RAWBackupDir,
		cfgVal.Destinations.RAWEditDir,
		cfgVal.Destinations.JPEGDir,
		cfgVal.Destinations.DeleteDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	return builder.cfg
}

// WithExtensions overrides the JPEG and RAW extensions on the test config.
func WithExtensions(jpegExt, rawExt string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Photos.JPEGExtension = jpegExt
		b.cfg.Photos.RAWExtension = rawExt
	}
}

// WithSharedDeleteDir points every destination at one directory.
func WithSharedDeleteDir() ConfigOption {
	return func(b *configBuilder) {
		shared := filepath.Join(b.baseDir, "shared")
		b.cfg.Destinations = config.Destinations{
			RAWBackupDir: shared,
			RAWEditDir:   shared,
			JPEGDir:      shared,
			DeleteDir:    shared,
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WriteConfigFile writes cfg as TOML to <base>/phototriage.toml and returns the path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(BaseDir(cfg), "phototriage.toml")
	content := "[photos]\n" +
		"input_dir = " + quote(cfg.Photos.InputDir) + "\n" +
		"jpeg_extension = " + quote(cfg.Photos.JPEGExtension) + "\n" +
		"raw_extension = " + quote(cfg.Photos.RAWExtension) + "\n\n" +
		"[destinations]\n" +
		"raw_backup_dir = " + quote(cfg.Destinations.RAWBackupDir) + "\n" +
		"raw_edit_dir = " + quote(cfg.Destinations.RAWEditDir) + "\n" +
		"jpeg_dir = " + quote(cfg.Destinations.JPEGDir) + "\n" +
		"delete_dir = " + quote(cfg.Destinations.DeleteDir) + "\n\n" +
		"[paths]\n" +
		"state_dir = " + quote(cfg.Paths.StateDir) + "\n" +
		"log_dir = " + quote(cfg.Paths.LogDir) + "\n"
	WriteContent(t, path, content)
	return path
}

// quote renders a TOML literal string; test paths never contain single quotes.
func quote(value string) string {
	return "'" + value + "'"
}
