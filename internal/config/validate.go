package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLayout(); err != nil {
		return err
	}
	if err := c.validatePresentation(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateOrder(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLayout() error {
	if c.Layout.Gap < 0 {
		return errors.New("layout.gap must be non-negative")
	}
	if c.Layout.Padding < 0 {
		return errors.New("layout.padding must be non-negative")
	}
	if c.Layout.ToolbarHeight < 0 {
		return errors.New("layout.toolbar_height must be non-negative")
	}
	return nil
}

func (c *Config) validatePresentation() error {
	if c.Presentation.Slots < 2 || c.Presentation.Slots > 999 {
		return errors.New("presentation.slots must be between 2 and 999")
	}
	if c.Presentation.RotateIntervalMS <= 0 {
		return errors.New("presentation.rotate_interval_ms must be positive")
	}
	if c.Presentation.DigitDebounceMS <= 0 {
		return errors.New("presentation.digit_debounce_ms must be positive")
	}
	if c.Presentation.RotationTimeoutSeconds < 0 {
		return errors.New("presentation.rotation_timeout_seconds must be non-negative (0 disables)")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.DefaultClipSeconds <= 0 {
		return errors.New("media.default_clip_seconds must be positive")
	}
	return nil
}

func (c *Config) validateOrder() error {
	name := c.Order.FileName
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("order.file_name must be a plain file name, got %q", name)
	}
	if c.Order.HistoryLimit < 1 {
		return errors.New("order.history_limit must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be non-negative (0 disables)")
	}
	return nil
}
