package order

import (
	"fmt"
	"strings"
)

// ParseLines splits raw order-file text into lines. Carriage returns are
// stripped so files saved on Windows parse the same way.
func ParseLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
}

// Format renders names as an order file: one name per line with a trailing
// newline.
func Format(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if len(names) == 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

// Apply reorders items to match a validated order. The result is a
// permutation of items; nothing is created or dropped.
func Apply[T any](items []T, nameOf func(T) string, names []string) ([]T, error) {
	byName := make(map[string]T, len(items))
	for _, item := range items {
		byName[nameOf(item)] = item
	}
	out := make([]T, 0, len(items))
	for _, name := range names {
		item, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
		}
		out = append(out, item)
		delete(byName, name)
	}
	if len(out) != len(items) {
		return nil, fmt.Errorf("order lists %d of %d loaded names", len(out), len(items))
	}
	return out, nil
}
