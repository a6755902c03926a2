package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipgrid/internal/config"
	"clipgrid/internal/history"
	"clipgrid/internal/logging"
	"clipgrid/internal/media"
)

type commandContext struct {
	configFlag *string

	configOnce  sync.Once
	config      *config.Config
	configPath  string
	configFound bool
	configErr   error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configFound = exists
	})
	return c.config, c.configErr
}

// logger builds the run logger. terminal controls whether records are also
// written to stderr; the full-screen UI turns that off.
func (c *commandContext) logger(terminal bool) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, _, err := logging.NewFromConfig(cfg, terminal)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return logger, nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open order history: %w", err)
	}
	return store, nil
}

// scanFolder lists the clips in dir using the configured extensions and
// optional ffprobe duration probing.
func (c *commandContext) scanFolder(cmd *cobra.Command, dir string, logger *slog.Logger, probe bool) ([]media.Item, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := media.ScanOptions{
		Extensions: cfg.Media.Extensions,
		Logger:     logger,
	}
	if probe && cfg.Media.ProbeDurations {
		opts.Prober = media.FFprobe{Binary: cfg.Media.FFprobeBinary}
	}
	return media.Scan(cmd.Context(), dir, opts)
}

func resolveFolder(arg string) (string, error) {
	dir, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", fmt.Errorf("resolve folder: %w", err)
	}
	if dir == "" {
		return "", fmt.Errorf("folder is required")
	}
	return dir, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
