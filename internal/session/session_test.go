package session

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"clipgrid/internal/clock"
	"clipgrid/internal/config"
	"clipgrid/internal/layout"
	"clipgrid/internal/media"
	"clipgrid/internal/order"
	"clipgrid/internal/presentation"
)

type recordingView struct {
	layouts []layout.Result
	hidden  map[int]bool
}

func (v *recordingView) ApplyLayout(r layout.Result) { v.layouts = append(v.layouts, r) }

func (v *recordingView) SetHidden(slot int, hidden bool) {
	if v.hidden == nil {
		v.hidden = map[int]bool{}
	}
	v.hidden[slot] = hidden
}

func (v *recordingView) hiddenCount() int {
	n := 0
	for _, h := range v.hidden {
		if h {
			n++
		}
	}
	return n
}

func clips(names ...string) []media.Item {
	items := make([]media.Item, 0, len(names))
	for _, name := range names {
		items = append(items, media.Item{ID: "id-" + name, Name: name})
	}
	return items
}

type fixture struct {
	clk   *clock.Fake
	view  *recordingView
	sess  *GridSession
	slots []int
}

// newFixture builds a session whose presentation area is 1280x720 and whose
// grid area is 1280x672.
func newFixture(t *testing.T, slots int, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		clk:  clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		view: &recordingView{},
	}
	f.sess = New(clips(names...), Options{
		Layout: config.Layout{Gap: 8, Padding: 28, ToolbarHeight: 48},
		Presentation: presentation.Config{
			Slots:          slots,
			RotateInterval: 3 * time.Second,
			DigitDebounce:  600 * time.Millisecond,
			Gap:            8,
		},
		DefaultClip: 10 * time.Second,
		Clock:       f.clk,
		View:        f.view,
		Rand:        func(n int) int { return n - 1 },
		OnSlots:     func(n int) { f.slots = append(f.slots, n) },
	})
	f.sess.Resize(1308, 748)
	return f
}

func TestNewDropsDuplicateNames(t *testing.T) {
	sess := New([]media.Item{{ID: "1", Name: "a"}, {ID: "2", Name: "a"}, {ID: "3", Name: "b"}}, Options{Clock: clock.NewFake(time.Now())})
	if got := sess.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestResizeComputesGridLayout(t *testing.T) {
	f := newFixture(t, 12, "a", "b", "c", "d")
	want := layout.Result{Columns: 2, Rows: 2, CellHeight: 332}
	if got := f.sess.Layout(); got != want {
		t.Fatalf("unexpected layout %+v want %+v", got, want)
	}
	if last := f.view.layouts[len(f.view.layouts)-1]; last != want {
		t.Fatalf("view received %+v", last)
	}
}

func TestMoveReordersAndKeepsSelection(t *testing.T) {
	f := newFixture(t, 12, "a", "b", "c", "d")
	if err := f.sess.Select(0); err != nil {
		t.Fatal(err)
	}
	if err := f.sess.Move(0, 2); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := f.sess.Names(); !slices.Equal(got, []string{"b", "c", "a", "d"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if f.sess.Selected() != 2 {
		t.Fatalf("selection should follow the clip, got %d", f.sess.Selected())
	}
	if err := f.sess.Move(0, 9); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestRemoveUpdatesLayoutAndStatus(t *testing.T) {
	f := newFixture(t, 12, "a", "b", "c", "d")
	_ = f.sess.Select(3)
	layouts := len(f.view.layouts)

	if err := f.sess.Remove("id-b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := f.sess.Names(); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Fatalf("unexpected names %v", got)
	}
	if f.sess.Selected() != 2 {
		t.Fatalf("selection should shift down, got %d", f.sess.Selected())
	}
	if len(f.view.layouts) != layouts+1 {
		t.Fatal("removal should recompute the layout")
	}
	if f.sess.Status() != "Clip removed from view." {
		t.Fatalf("unexpected status %q", f.sess.Status())
	}
	f.clk.Advance(StatusTimeout)
	if f.sess.Status() != "" {
		t.Fatalf("status should expire, got %q", f.sess.Status())
	}

	if err := f.sess.Remove("nope"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	f := newFixture(t, 12, "a")
	if err := f.sess.Add(media.Item{ID: "x", Name: "a"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if err := f.sess.Add(media.Item{ID: "y", Name: "b"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if f.sess.Len() != 2 {
		t.Fatalf("expected 2 clips, got %d", f.sess.Len())
	}
}

func TestApplyOrderTextPermutesCollection(t *testing.T) {
	f := newFixture(t, 12, "a", "b", "c", "d")
	before := f.sess.Items()

	if _, err := f.sess.ApplyOrderText("d\r\nc\n\n b \na\n"); err != nil {
		t.Fatalf("ApplyOrderText: %v", err)
	}
	if got := f.sess.Names(); !slices.Equal(got, []string{"d", "c", "b", "a"}) {
		t.Fatalf("unexpected order %v", got)
	}
	after := f.sess.Items()
	ids := func(items []media.Item) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.ID)
		}
		slices.Sort(out)
		return out
	}
	if !slices.Equal(ids(before), ids(after)) {
		t.Fatalf("applying an order must be a permutation: %v vs %v", ids(before), ids(after))
	}

	if _, err := f.sess.ApplyOrderText(f.sess.OrderText()); err != nil {
		t.Fatalf("reapply: %v", err)
	}
	if got := f.sess.Names(); !slices.Equal(got, []string{"d", "c", "b", "a"}) {
		t.Fatalf("reapplying the same order must be idempotent, got %v", got)
	}
	if f.sess.Status() != "Order applied." {
		t.Fatalf("unexpected status %q", f.sess.Status())
	}
}

func TestApplyOrderTextRejectsInvalidOrder(t *testing.T) {
	f := newFixture(t, 12, "a", "b")

	res, err := f.sess.ApplyOrderText("a\na\nc\n")
	var verr *order.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *order.ValidationError, got %v", err)
	}
	joined := strings.Join(res.Messages(), "\n")
	for _, want := range []string{"a (x2)", "- b", "- c"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("issues %q missing %q", joined, want)
		}
	}
	if got := f.sess.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("collection must stay untouched, got %v", got)
	}
}

func TestOrderText(t *testing.T) {
	f := newFixture(t, 12, "clip 1.mp4", "clip 2.mp4")
	if got := f.sess.OrderText(); got != "clip 1.mp4\nclip 2.mp4\n" {
		t.Fatalf("unexpected order text %q", got)
	}
}

func TestPresentationEndToEnd(t *testing.T) {
	f := newFixture(t, 4, "a", "b", "c", "d", "e")

	f.sess.EnterPresentation()
	if f.sess.Mode() != ModePresentation {
		t.Fatal("expected presentation mode")
	}
	if f.sess.TitlesVisible() {
		t.Fatal("titles should hide in presentation mode")
	}
	snap := f.sess.Snapshot()
	if snap.TargetVisible != 3 || len(snap.VisibleCells()) != 3 {
		t.Fatalf("expected 3 visible, got target=%d visible=%d", snap.TargetVisible, len(snap.VisibleCells()))
	}
	if f.view.hiddenCount() != 2 {
		t.Fatalf("expected 2 hidden in view, got %d", f.view.hiddenCount())
	}

	if !f.sess.TypeDigit('6') {
		t.Fatal("digit should be consumed")
	}
	f.clk.Advance(600 * time.Millisecond)

	if f.sess.Slots() != 6 {
		t.Fatalf("expected 6 slots, got %d", f.sess.Slots())
	}
	snap = f.sess.Snapshot()
	if len(snap.VisibleCells()) != 5 || len(snap.Cells) != 5 {
		t.Fatalf("expected all 5 clips visible, got %d of %d", len(snap.VisibleCells()), len(snap.Cells))
	}
	if !slices.Equal(f.slots, []int{6}) {
		t.Fatalf("expected slot callback, got %v", f.slots)
	}
	if f.sess.Status() != "Slots: 6 (showing 5)" {
		t.Fatalf("unexpected status %q", f.sess.Status())
	}

	f.sess.ExitPresentation()
	if f.sess.Mode() != ModeGrid || !f.sess.TitlesVisible() {
		t.Fatal("exit should restore grid mode and titles")
	}
	if f.view.hiddenCount() != 0 {
		t.Fatalf("every clip should be visible after exit, hidden=%d", f.view.hiddenCount())
	}
	if f.sess.Slots() != 6 {
		t.Fatal("typed slot count should survive exit")
	}
}

func TestPresentationRotatesOnClipEnd(t *testing.T) {
	f := newFixture(t, 4, "a", "b", "c", "d", "e")
	f.sess.EnterPresentation()

	f.clk.Advance(3 * time.Second)
	if !f.sess.RotationPending() {
		t.Fatal("expected pending rotation after first tick")
	}
	// slot 2 started at t=0 with a 10s clip, so it ends at t=10s
	f.clk.Advance(7 * time.Second)
	if f.sess.RotationPending() {
		t.Fatal("rotation should complete when the clip ends")
	}
	if got := f.sess.Names(); !slices.Equal(got, []string{"a", "b", "e", "d", "c"}) {
		t.Fatalf("unexpected order after rotation %v", got)
	}
	if !f.sess.Hidden(4) || f.sess.Hidden(2) {
		t.Fatal("hidden flags belong to slot positions")
	}
}

func TestExitAbandonsPendingRotation(t *testing.T) {
	f := newFixture(t, 4, "a", "b", "c", "d", "e")
	f.sess.EnterPresentation()
	f.clk.Advance(3 * time.Second)

	f.sess.ExitPresentation()
	f.clk.Advance(time.Minute)

	if got := f.sess.Names(); !slices.Equal(got, []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("abandoned rotation must not swap, got %v", got)
	}
	if f.clk.Pending() != 0 {
		t.Fatalf("expected no timers after exit, %d pending", f.clk.Pending())
	}
	if f.sess.Layout().Columns != layout.BestGrid(5, 1280, 672, 8).Columns {
		t.Fatalf("expected grid layout after exit, got %+v", f.sess.Layout())
	}
}

func TestRemoveWhilePresentingRepartitions(t *testing.T) {
	f := newFixture(t, 4, "a", "b", "c", "d", "e")
	f.sess.EnterPresentation()
	f.clk.Advance(3 * time.Second)

	if err := f.sess.Remove("id-a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if f.sess.RotationPending() {
		t.Fatal("removal should abandon the pending rotation")
	}
	snap := f.sess.Snapshot()
	if len(snap.VisibleCells()) != 3 || len(snap.Cells) != 4 {
		t.Fatalf("expected 3 of 4 visible, got %d of %d", len(snap.VisibleCells()), len(snap.Cells))
	}
}

func TestTypeDigitOutsidePresentation(t *testing.T) {
	f := newFixture(t, 4, "a")
	if f.sess.TypeDigit('3') {
		t.Fatal("digits only count in presentation mode")
	}
}

func TestSnapshotReportsCount(t *testing.T) {
	f := newFixture(t, 12, "a", "b")
	_ = f.sess.Select(1)
	snap := f.sess.Snapshot()
	if snap.Count != "2 clips" || snap.Mode != ModeGrid || !snap.TitlesVisible {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.Cells[1].Selected || snap.Cells[0].Selected {
		t.Fatal("selection not reflected in snapshot")
	}
}
