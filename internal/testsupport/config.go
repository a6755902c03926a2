package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipgrid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Duration probing is off so tests never depend on a real ffprobe.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "export")
	cfgVal.Media.ProbeDurations = false

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

// WithSlots overrides the presentation slot count.
func WithSlots(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Presentation.Slots = n
	}
}

// WithHistoryLimit overrides how many orders are kept per folder.
func WithHistoryLimit(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Order.HistoryLimit = n
	}
}

// WithStubbedFFprobe writes an ffprobe stand-in that prints the given JSON,
// points the config at it, and enables duration probing.
func WithStubbedFFprobe(output string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		payload := filepath.Join(binDir, "ffprobe.json")
		if err := os.WriteFile(payload, []byte(output), 0o644); err != nil {
			b.t.Fatalf("write ffprobe payload: %v", err)
		}
		target := filepath.Join(binDir, "ffprobe")
		script := "#!/bin/sh\ncat '" + payload + "'\n"
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.Media.FFprobeBinary = target
		b.cfg.Media.ProbeDurations = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
