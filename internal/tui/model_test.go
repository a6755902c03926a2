package tui

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipgrid/internal/history"
	"clipgrid/internal/media"
	"clipgrid/internal/session"
	"clipgrid/internal/testsupport"
)

func testItems(names ...string) []media.Item {
	items := make([]media.Item, 0, len(names))
	for _, name := range names {
		items = append(items, media.Item{ID: "id-" + name, Name: name, Duration: 10 * time.Second})
	}
	return items
}

func newTestModel(t *testing.T, store *history.Store, names ...string) *Model {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	m := New(Options{
		Config: cfg,
		Folder: t.TempDir(),
		Items:  testItems(names...),
		Store:  store,
		Rand:   func(n int) int { return n - 1 },
	})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "delete":
			msg = tea.KeyMsg{Type: tea.KeyDelete}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

// fireAll runs every callback registered at call time, oldest first.
func fireAll(m *Model) {
	ids := make([]uint64, 0, len(m.sched.timers))
	for id := range m.sched.timers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		m.sched.Fire(id)
	}
}

func TestModelResizeLaysOutGrid(t *testing.T) {
	m := newTestModel(t, nil, "a.mp4", "b.mp4", "c.mp4", "d.mp4")
	grid := m.Session().Layout()
	if grid.Columns*grid.Rows < 4 {
		t.Fatalf("layout %+v cannot hold 4 clips", grid)
	}
	view := m.View()
	for _, name := range []string{"a.mp4", "d.mp4", "4 clips"} {
		if !strings.Contains(view, name) {
			t.Fatalf("view missing %q:\n%s", name, view)
		}
	}
}

func TestModelSelectAndMove(t *testing.T) {
	m := newTestModel(t, nil, "a", "b", "c", "d")
	press(m, "right")
	if got := m.Session().Selected(); got != 0 {
		t.Fatalf("first arrow should select slot 0, got %d", got)
	}
	press(m, "]")
	if got := m.Session().Names(); !slices.Equal(got, []string{"b", "a", "c", "d"}) {
		t.Fatalf("order after move = %v", got)
	}
	if got := m.Session().Selected(); got != 1 {
		t.Fatalf("selection should follow moved clip, got %d", got)
	}
	press(m, "[", "[")
	if got := m.Session().Names(); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("order after moving back = %v", got)
	}
	press(m, "left")
	if got := m.Session().Selected(); got != 0 {
		t.Fatalf("selection should clamp at 0, got %d", got)
	}
}

func TestModelDownMovesByRow(t *testing.T) {
	m := newTestModel(t, nil, "a", "b", "c", "d", "e", "f")
	cols := m.Session().Layout().Columns
	if cols >= 6 {
		t.Skipf("layout placed every clip on one row: %+v", m.Session().Layout())
	}
	press(m, "right", "down")
	if got := m.Session().Selected(); got != cols {
		t.Fatalf("down from slot 0 selected %d, want %d", got, cols)
	}
}

func TestModelRemoveSelected(t *testing.T) {
	m := newTestModel(t, nil, "a", "b", "c")
	press(m, "right", "right", "d")
	if got := m.Session().Names(); !slices.Equal(got, []string{"a", "c"}) {
		t.Fatalf("names after remove = %v", got)
	}
	if got := m.Session().Status(); got != "Clip removed from view." {
		t.Fatalf("status = %q", got)
	}
	if got := m.Session().Selected(); got != 1 {
		t.Fatalf("selection after remove = %d", got)
	}
	press(m, "delete", "delete", "delete")
	if m.Session().Len() != 0 {
		t.Fatalf("expected all clips removed, got %v", m.Session().Names())
	}
	if !strings.Contains(m.View(), "No clips to show.") {
		t.Fatal("empty view should say so")
	}
}

func TestModelPresentationDigitsAndExit(t *testing.T) {
	m := newTestModel(t, nil, "a", "b", "c", "d", "e", "f")
	press(m, "f")
	sess := m.Session()
	if sess.Mode() != session.ModePresentation {
		t.Fatalf("mode = %v", sess.Mode())
	}
	if sess.TitlesVisible() {
		t.Fatal("titles should hide while presenting")
	}

	press(m, "3")
	if got := sess.SlotBuffer(); got != "3" {
		t.Fatalf("slot buffer = %q", got)
	}
	fireAll(m)
	if got := sess.Slots(); got != 3 {
		t.Fatalf("slots = %d, want 3", got)
	}
	if sess.SlotBuffer() != "" {
		t.Fatalf("buffer should clear after commit, got %q", sess.SlotBuffer())
	}
	if !strings.Contains(m.View(), "presenting") {
		t.Fatal("status line should show presentation mode")
	}

	press(m, "esc")
	if sess.Mode() != session.ModeGrid {
		t.Fatalf("esc should exit presentation, mode = %v", sess.Mode())
	}
	if !sess.TitlesVisible() {
		t.Fatal("titles should be restored after exit")
	}
	for slot := range sess.Len() {
		if sess.Hidden(slot) {
			t.Fatalf("slot %d still hidden after exit", slot)
		}
	}
}

func TestModelGridKeysDisabledWhilePresenting(t *testing.T) {
	m := newTestModel(t, nil, "a", "b", "c")
	press(m, "right", "f", "]", "d")
	if got := m.Session().Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("grid edits applied while presenting: %v", got)
	}
}

func TestModelSlotsPersistedOnCommit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	folder := t.TempDir()
	m := New(Options{Config: cfg, Folder: folder, Items: testItems("a", "b", "c", "d"), Store: store})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	press(m, "f", "5")
	fireAll(m)

	if len(m.cmds) != 1 {
		t.Fatalf("expected one queued slot write, got %d", len(m.cmds))
	}
	msg, ok := m.cmds[0]().(historyMsg)
	if !ok || msg.err != nil {
		t.Fatalf("slot write returned %#v", msg)
	}
	slots, found, err := store.Slots(context.Background(), folder)
	if err != nil || !found || slots != 5 {
		t.Fatalf("stored slots = %d found=%v err=%v", slots, found, err)
	}
}

func TestModelSaveOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	folder := t.TempDir()
	m := New(Options{Config: cfg, Folder: folder, Items: testItems("b.mp4", "a.mp4"), Store: store})

	m.Update(m.saveOrder()())

	data, err := os.ReadFile(filepath.Join(folder, "clip-order.txt"))
	if err != nil {
		t.Fatalf("read order file: %v", err)
	}
	if string(data) != "b.mp4\na.mp4\n" {
		t.Fatalf("order file = %q", data)
	}
	if got := m.Session().Status(); got != "Saved clip-order.txt to the selected folder." {
		t.Fatalf("status = %q", got)
	}
	entries, err := store.ListOrders(context.Background(), folder, 10)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(entries) != 1 || entries[0].Source != history.SourceSave {
		t.Fatalf("history entries = %+v", entries)
	}
}

func TestModelLoadOrderRejectsMismatch(t *testing.T) {
	m := newTestModel(t, nil, "a.mp4", "b.mp4")
	path := filepath.Join(m.folder, "clip-order.txt")
	if err := os.WriteFile(path, []byte("b.mp4\nzzz.mp4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Update(m.loadOrder()())

	if got := m.Session().Names(); !slices.Equal(got, []string{"a.mp4", "b.mp4"}) {
		t.Fatalf("order changed despite issues: %v", got)
	}
	if len(m.issues) == 0 {
		t.Fatal("expected issues to be listed")
	}
	view := m.View()
	if !strings.Contains(view, "zzz.mp4") || !strings.Contains(view, "a.mp4") {
		t.Fatalf("issues should name the unknown and missing clips:\n%s", view)
	}

	press(m, "esc")
	if len(m.issues) != 0 {
		t.Fatal("esc should dismiss issues")
	}
}

func TestModelLoadOrderApplies(t *testing.T) {
	m := newTestModel(t, nil, "a.mp4", "b.mp4", "c.mp4")
	path := filepath.Join(m.folder, "clip-order.txt")
	if err := os.WriteFile(path, []byte("c.mp4\r\n\r\na.mp4\nb.mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Update(m.loadOrder()())

	if got := m.Session().Names(); !slices.Equal(got, []string{"c.mp4", "a.mp4", "b.mp4"}) {
		t.Fatalf("order = %v", got)
	}
	if got := m.Session().Status(); got != "Order applied." {
		t.Fatalf("status = %q", got)
	}
}

func TestModelLoadOrderReadsThroughOrderFile(t *testing.T) {
	m := newTestModel(t, nil, "a.mp4", "b.mp4")
	path := filepath.Join(m.folder, "clip-order.txt")
	if err := os.WriteFile(path, []byte("b.mp4\r\na.mp4\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	msg, ok := m.loadOrder()().(orderLoadedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("load returned %#v", msg)
	}
	if want := []string{"b.mp4", "a.mp4", ""}; !slices.Equal(msg.lines, want) {
		t.Fatalf("lines = %q, want %q", msg.lines, want)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	missing := m.loadOrder()().(orderLoadedMsg)
	if missing.err == nil || !strings.Contains(missing.err.Error(), "read order file") {
		t.Fatalf("missing file error should be wrapped by the order reader, got %v", missing.err)
	}
}

func TestModelLoadOrderMissingFile(t *testing.T) {
	m := newTestModel(t, nil, "a.mp4")
	m.Update(m.loadOrder()())
	if got := m.Session().Status(); got != "Could not read clip-order.txt." {
		t.Fatalf("status = %q", got)
	}
}

func TestModelStatusExpires(t *testing.T) {
	m := newTestModel(t, nil, "a", "b")
	press(m, "right", "d")
	if m.Session().Status() == "" {
		t.Fatal("expected a status message")
	}
	fireAll(m)
	if got := m.Session().Status(); got != "" {
		t.Fatalf("status should clear when its timer fires, got %q", got)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil, "a", "b", "c")
	press(m, "f")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if m.Session().Mode() != session.ModeGrid {
		t.Fatal("quitting should stop presentation timers")
	}
	if m.View() != "" {
		t.Fatal("view should be empty after quit")
	}
}
