package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// StateDirEnv overrides paths.state_dir when set.
const StateDirEnv = "CLIPGRID_STATE_DIR"

// HistoryFileName is the sqlite database kept inside the state directory.
const HistoryFileName = "history.db"

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	ExportDir string `toml:"export_dir"`
}

// Layout holds viewport metrics in pixels. The terminal UI maps each
// character cell onto a fixed pixel box so the same values apply there.
type Layout struct {
	Gap           float64 `toml:"gap"`
	Padding       float64 `toml:"padding"`
	ToolbarHeight float64 `toml:"toolbar_height"`
}

// Presentation contains timings for presentation mode.
type Presentation struct {
	Slots                  int `toml:"slots"`
	RotateIntervalMS       int `toml:"rotate_interval_ms"`
	DigitDebounceMS        int `toml:"digit_debounce_ms"`
	RotationTimeoutSeconds int `toml:"rotation_timeout_seconds"`
}

// Media contains clip discovery and probing settings.
type Media struct {
	FFprobeBinary      string   `toml:"ffprobe_binary"`
	ProbeDurations     bool     `toml:"probe_durations"`
	DefaultClipSeconds float64  `toml:"default_clip_seconds"`
	Extensions         []string `toml:"extensions"`
}

// Order contains order-file settings.
type Order struct {
	FileName     string `toml:"file_name"`
	HistoryLimit int    `toml:"history_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for clipgrid.
//
// Configuration sections by subsystem:
//   - Paths: state database, logs, and the order-file fallback directory
//   - Layout: gap, padding, and toolbar metrics fed to the grid optimizer
//   - Presentation: slot count and rotation timings
//   - Media: video extensions and ffprobe duration probing
//   - Order: order file name and history retention
//   - Logging: log format, level, and retention
type Config struct {
	Paths        Paths        `toml:"paths"`
	Layout       Layout       `toml:"layout"`
	Presentation Presentation `toml:"presentation"`
	Media        Media        `toml:"media"`
	Order        Order        `toml:"order"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipgrid.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The export
// directory is only created when a fallback write needs it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the sqlite database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, HistoryFileName)
}

// LockDir returns the directory holding order-file lock files.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// RotateInterval returns the presentation rotation period.
func (c *Config) RotateInterval() time.Duration {
	return time.Duration(c.Presentation.RotateIntervalMS) * time.Millisecond
}

// DigitDebounce returns the slot-entry debounce delay.
func (c *Config) DigitDebounce() time.Duration {
	return time.Duration(c.Presentation.DigitDebounceMS) * time.Millisecond
}

// RotationTimeout returns how long a rotation may wait for its end signal.
// Zero disables the timeout.
func (c *Config) RotationTimeout() time.Duration {
	return time.Duration(c.Presentation.RotationTimeoutSeconds) * time.Second
}

// DefaultClipDuration is used when a clip's duration is unknown.
func (c *Config) DefaultClipDuration() time.Duration {
	return time.Duration(c.Media.DefaultClipSeconds * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
