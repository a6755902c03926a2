package media

import (
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultExtensions lists the file extensions treated as video.
var DefaultExtensions = []string{"mp4", "m4v", "mov", "webm", "ogv", "avi", "mkv", "mpg", "mpeg"}

// Item is one clip tracked by the grid. Name is unique within a session and
// is the key used by order files.
type Item struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Duration time.Duration `json:"duration"`
}

// ItemName returns the item's name. It is handy as a key function.
func ItemName(item Item) string {
	return item.Name
}

// Names returns the names of items in order.
func Names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

// Matcher decides which files count as video.
type Matcher struct {
	extensions map[string]struct{}
}

// NewMatcher builds a Matcher for the given extensions. An empty list uses
// DefaultExtensions.
func NewMatcher(extensions []string) Matcher {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return Matcher{extensions: set}
}

// IsVideo reports whether a file is video by MIME type or extension.
func (m Matcher) IsVideo(name, mimeType string) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "video/") {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := m.extensions[ext]
	return ok
}

// IsVideo reports whether name is a video using the default extensions and
// the system MIME table.
func IsVideo(name string) bool {
	return NewMatcher(nil).IsVideo(name, mime.TypeByExtension(filepath.Ext(name)))
}

// SortNatural orders items by name, comparing digit runs numerically and
// ignoring case and diacritics. Names that collate equal fall back to a byte
// comparison so the order is deterministic.
func SortNatural(items []Item) {
	col := collate.New(language.Und, collate.Numeric, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
