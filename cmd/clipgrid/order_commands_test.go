package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipgrid/internal/history"
	"clipgrid/internal/testsupport"
)

func historyEntry(folder string, names ...string) history.Entry {
	return history.Entry{Folder: folder, Names: names, Source: history.SourceSave}
}

func TestOrderExportStdoutUsesNaturalOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteClips(t, env.clipDir, "clip10.mp4", "clip2.mp4")

	out, _, err := runCLI(t, []string{"order", "export", "--stdout", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order export: %v", err)
	}
	if out != "clip2.mp4\nclip10.mp4\n" {
		t.Fatalf("export output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(env.clipDir, "clip-order.txt")); !os.IsNotExist(err) {
		t.Fatalf("--stdout should not write a file, stat err = %v", err)
	}
}

func TestOrderExportWritesFileAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteClips(t, env.clipDir, "b.mp4", "a.mp4")

	out, _, err := runCLI(t, []string{"order", "export", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order export: %v", err)
	}
	requireContains(t, out, "Wrote 2 clips")

	data, err := os.ReadFile(filepath.Join(env.clipDir, "clip-order.txt"))
	if err != nil {
		t.Fatalf("read order file: %v", err)
	}
	if string(data) != "a.mp4\nb.mp4\n" {
		t.Fatalf("order file = %q", data)
	}

	out, _, err = runCLI(t, []string{"order", "history", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order history: %v", err)
	}
	requireContains(t, out, "export")
	requireContains(t, out, "a.mp4, b.mp4")
}

func TestOrderExportPrefersSavedOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteClips(t, env.clipDir, "a.mp4", "b.mp4", "c.mp4")

	orderFile := filepath.Join(env.clipDir, "clip-order.txt")
	if _, _, err := runCLI(t, []string{"order", "export", env.clipDir}, env.configPath); err != nil {
		t.Fatalf("first export: %v", err)
	}
	store := testsupport.MustOpenStore(t, env.cfg)
	if _, err := store.RecordOrder(t.Context(), historyEntry(env.clipDir, "c.mp4", "a.mp4", "b.mp4")); err != nil {
		t.Fatalf("record order: %v", err)
	}

	out, _, err := runCLI(t, []string{"order", "export", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	requireContains(t, out, "saved order")
	data, err := os.ReadFile(orderFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "c.mp4\na.mp4\nb.mp4\n" {
		t.Fatalf("order file = %q", data)
	}
}

func TestOrderCheck(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteClips(t, env.clipDir, "a.mp4", "b.mp4")
	orderFile := filepath.Join(env.clipDir, "clip-order.txt")

	if err := os.WriteFile(orderFile, []byte("b.mp4\r\n\r\na.mp4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"order", "check", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order check: %v\n%s", err, out)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "matches 2 clips")

	if err := os.WriteFile(orderFile, []byte("b.mp4\nb.mp4\nzzz.mp4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, []string{"order", "check", env.clipDir}, env.configPath)
	if err == nil {
		t.Fatalf("expected order check to fail:\n%s", out)
	}
	requireContains(t, out, "Could not apply order")
	for _, name := range []string{"zzz.mp4", "a.mp4", "b.mp4"} {
		requireContains(t, out, name)
	}
	if !strings.Contains(err.Error(), "issues") {
		t.Fatalf("error should count issues: %v", err)
	}
}

func TestOrderCheckExplicitFile(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteClips(t, env.clipDir, "a.mp4")
	other := filepath.Join(env.baseDir, "custom.txt")
	if err := os.WriteFile(other, []byte("a.mp4"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"order", "check", "--file", other, env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order check --file: %v", err)
	}
	requireContains(t, out, "custom.txt matches 1 clip")
}

func TestOrderCheckMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"order", "check", env.clipDir}, env.configPath); err == nil {
		t.Fatal("expected error for missing order file")
	}
}

func TestOrderHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"order", "history", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order history: %v", err)
	}
	requireContains(t, out, "No saved orders")

	out, _, err = runCLI(t, []string{"order", "history", "--json", env.clipDir}, env.configPath)
	if err != nil {
		t.Fatalf("order history --json: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("json history = %q", out)
	}
}

func TestPreviewOrder(t *testing.T) {
	if got := previewOrder([]string{"a", "b"}); got != "a, b" {
		t.Fatalf("preview = %q", got)
	}
	if got := previewOrder([]string{"a", "b", "c", "d", "e"}); got != "a, b, c, +2 more" {
		t.Fatalf("preview = %q", got)
	}
}
