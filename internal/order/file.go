package order

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// DefaultFileName is the order file written next to the clips.
const DefaultFileName = "clip-order.txt"

const lockRetryDelay = 50 * time.Millisecond

// ErrLocked indicates another writer holds the order file lock.
var ErrLocked = errors.New("order file is locked by another writer")

// Target describes where an order file should be written.
type Target struct {
	// Dir is the clip folder; the order file is written here when possible.
	Dir string
	// FileName defaults to DefaultFileName.
	FileName string
	// FallbackDir receives the file when Dir is not writable.
	FallbackDir string
	// LockDir holds advisory lock files. Defaults to Dir.
	LockDir string
}

// SaveResult reports where an order file ended up.
type SaveResult struct {
	Path     string `json:"path"`
	Fallback bool   `json:"fallback"`
	Names    int    `json:"names"`
}

// Save writes names as an order file for target. When the clip folder cannot
// be written the file goes to FallbackDir instead and the result is flagged.
func Save(ctx context.Context, target Target, names []string) (SaveResult, error) {
	fileName := strings.TrimSpace(target.FileName)
	if fileName == "" {
		fileName = DefaultFileName
	}
	data := []byte(Format(names))

	primary := filepath.Join(target.Dir, fileName)
	primaryErr := writeLocked(ctx, primary, lockDirFor(target, target.Dir), data)
	if primaryErr == nil {
		return SaveResult{Path: primary, Names: len(names)}, nil
	}
	if errors.Is(primaryErr, ErrLocked) || ctx.Err() != nil || strings.TrimSpace(target.FallbackDir) == "" {
		return SaveResult{}, primaryErr
	}

	if err := os.MkdirAll(target.FallbackDir, 0o755); err != nil {
		return SaveResult{}, fmt.Errorf("create export directory: %w (direct save failed: %v)", err, primaryErr)
	}
	fallback := filepath.Join(target.FallbackDir, fileName)
	if err := writeLocked(ctx, fallback, lockDirFor(target, target.FallbackDir), data); err != nil {
		return SaveResult{}, fmt.Errorf("export order file: %w (direct save failed: %v)", err, primaryErr)
	}
	return SaveResult{Path: fallback, Fallback: true, Names: len(names)}, nil
}

// ReadFile loads an order file and returns its raw lines.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read order file: %w", err)
	}
	return ParseLines(string(data)), nil
}

func lockDirFor(target Target, dir string) string {
	if strings.TrimSpace(target.LockDir) != "" {
		return target.LockDir
	}
	return dir
}

func writeLocked(ctx context.Context, path, lockDir string, data []byte) error {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(lockDir, lockName(path)))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return fmt.Errorf("acquire order lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() { _ = lock.Unlock() }()

	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".clip-order-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp order file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write order file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close order file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod order file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename order file: %w", err)
	}
	return nil
}

func lockName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return "order-" + hex.EncodeToString(sum[:8]) + ".lock"
}
