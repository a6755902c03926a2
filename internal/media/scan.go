package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clipgrid/internal/logging"
	"clipgrid/internal/media/ffprobe"
)

// Prober reports the playable length of a clip.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// FFprobe probes durations with the ffprobe binary.
type FFprobe struct {
	Binary string
}

// Duration implements Prober.
func (p FFprobe) Duration(ctx context.Context, path string) (time.Duration, error) {
	result, err := ffprobe.Probe(ctx, p.Binary, path)
	if err != nil {
		return 0, err
	}
	return result.Duration(), nil
}

// ScanOptions tunes folder scanning.
type ScanOptions struct {
	Extensions []string
	// Prober is optional; nil leaves durations unknown.
	Prober Prober
	Logger *slog.Logger
}

// Scan lists the video clips directly inside dir in natural order.
func Scan(ctx context.Context, dir string, opts ScanOptions) ([]Item, error) {
	logger := logging.NewComponentLogger(opts.Logger, "media")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clip folder: %w", err)
	}

	matcher := NewMatcher(opts.Extensions)
	items := make([]Item, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !matcher.IsVideo(name, mime.TypeByExtension(filepath.Ext(name))) {
			skipped++
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Debug("skipping unreadable entry", logging.String("file", name), logging.Error(err))
			skipped++
			continue
		}
		items = append(items, Item{
			ID:   uuid.NewString(),
			Name: name,
			Path: filepath.Join(dir, name),
			Size: info.Size(),
		})
	}
	SortNatural(items)

	if opts.Prober != nil {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d, err := opts.Prober.Duration(ctx, items[i].Path)
			if errors.Is(err, exec.ErrNotFound) {
				logging.WarnWithContext(logger, "ffprobe not found; clip durations unknown", "probe_unavailable",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "install ffprobe or set media.probe_durations = false"),
					logging.String(logging.FieldImpact, "presentation falls back to the default clip length"),
				)
				break
			}
			if err != nil {
				logging.WarnWithContext(logger, "clip duration unavailable", "probe_failed",
					logging.String(logging.FieldItemName, items[i].Name),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "install ffprobe or set media.probe_durations = false"),
					logging.String(logging.FieldImpact, "presentation falls back to the default clip length"),
				)
				continue
			}
			items[i].Duration = d
		}
	}

	logger.Debug("clip folder scanned",
		logging.String("dir", dir),
		logging.Int("clips", len(items)),
		logging.Int("skipped", skipped),
	)
	return items, nil
}
