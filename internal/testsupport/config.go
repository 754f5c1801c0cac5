package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"shelfsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "source")
	cfg.Paths.TargetDir = filepath.Join(base, "target")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.DeepSeek.APIKey = "test"
	cfg.Sort.BatchSize = 2

	for _, dir := range []string{cfg.Paths.SourceDir, cfg.Paths.TargetDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBatchSize overrides the batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sort.BatchSize = size
	}
}

// WithOutcomePolicy overrides the per-item failure policy on the test config.
func WithOutcomePolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sort.OnItemFailure = policy
	}
}

// WriteSourceFiles creates empty files with the given names in the config's
// source directory and returns their full paths in name order.
func WriteSourceFiles(t testing.TB, cfg *config.Config, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(cfg.Paths.SourceDir, name)
		if err := os.WriteFile(path, []byte("content of "+name), 0o644); err != nil {
			t.Fatalf("write source file %s: %v", name, err)
		}
		paths = append(paths, path)
	}
	return paths
}
