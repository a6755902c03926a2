package layout

import (
	"testing"
	"time"
)

func TestBestGridDegenerateInputs(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		width      float64
		height     float64
		wantRows   int
		wantHeight float64
	}{
		{"zero count", 0, 100, 100, 1, 100},
		{"negative count", -3, 100, 100, 1, 100},
		{"zero width", 4, 0, 500, 4, 500},
		{"zero height", 4, 500, 0, 4, MinCellHeight},
		{"negative height", 2, 500, -20, 2, MinCellHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestGrid(tt.count, tt.width, tt.height, 10)
			if got.Columns != 1 {
				t.Fatalf("columns = %d, want 1", got.Columns)
			}
			if got.Rows != tt.wantRows {
				t.Fatalf("rows = %d, want %d", got.Rows, tt.wantRows)
			}
			if got.CellHeight != tt.wantHeight {
				t.Fatalf("cell height = %v, want %v", got.CellHeight, tt.wantHeight)
			}
		})
	}
}

func TestBestGridPrefersWiderGridForWideSpace(t *testing.T) {
	got := BestGrid(4, 800, 400, 10)
	if got.Columns != 2 || got.Rows != 2 {
		t.Fatalf("expected 2x2 grid, got %+v", got)
	}
	if got.CellHeight != 195 {
		t.Fatalf("cell height = %v, want 195", got.CellHeight)
	}
}

func TestBestGridTieKeepsFewerColumns(t *testing.T) {
	// 1x2 and 2x1 give the same 5000 area; the first one scanned wins.
	got := BestGrid(2, 100, 100, 0)
	if got.Columns != 1 {
		t.Fatalf("columns = %d, want 1 on tie", got.Columns)
	}
}

func TestBestGridFallbackWhenNothingFits(t *testing.T) {
	// Gaps consume the entire height and width for every candidate.
	got := BestGrid(3, 10, 10, 50)
	if got.Columns != 1 || got.Rows != 3 {
		t.Fatalf("unexpected fallback grid %+v", got)
	}
	if got.CellHeight != MinCellHeight {
		t.Fatalf("cell height = %v, want %v", got.CellHeight, MinCellHeight)
	}
}

func TestBestGridMaximizesAreaProperty(t *testing.T) {
	sizes := [][2]float64{{800, 600}, {1920, 1080}, {300, 1200}, {1200, 300}, {640, 640}}
	gaps := []float64{0, 4, 12}
	for count := 1; count <= 40; count++ {
		for _, size := range sizes {
			for _, gap := range gaps {
				got := BestGrid(count, size[0], size[1], gap)
				if got.Columns < 1 || got.Columns > count {
					t.Fatalf("count=%d size=%v gap=%v: columns %d out of range", count, size, gap, got.Columns)
				}
				if got.Rows != ceilDiv(count, got.Columns) {
					t.Fatalf("count=%d: rows %d inconsistent with columns %d", count, got.Rows, got.Columns)
				}
				bestArea, _, ok := score(got.Columns, got.Rows, size[0], size[1], gap)
				if !ok {
					continue
				}
				for _, columns := range []int{1, count} {
					area, _, fits := score(columns, ceilDiv(count, columns), size[0], size[1], gap)
					if fits && area > bestArea {
						t.Fatalf("count=%d size=%v gap=%v: %d columns beats chosen %d (%v > %v)",
							count, size, gap, columns, got.Columns, area, bestArea)
					}
				}
			}
		}
	}
}

func TestBestGridIsDeterministic(t *testing.T) {
	first := BestGrid(17, 1280, 720, 8)
	for i := 0; i < 5; i++ {
		if again := BestGrid(17, 1280, 720, 8); again != first {
			t.Fatalf("run %d: %+v != %+v", i, again, first)
		}
	}
}

func TestBestPresentationGrid(t *testing.T) {
	tests := []struct {
		name        string
		slots       int
		wantRows    int
		wantColumns int
		wantVisible int
	}{
		{"four slots", 4, 2, 2, 3},
		{"six slots", 6, 2, 3, 5},
		{"one slot clamps to two", 1, 1, 2, 1},
		{"zero slots clamps to two", 0, 1, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BestPresentationGrid(tt.slots, 1200, 800, 10)
			if got.Rows != tt.wantRows || got.Columns != tt.wantColumns {
				t.Fatalf("grid = %dx%d, want %dx%d", got.Rows, got.Columns, tt.wantRows, tt.wantColumns)
			}
			if got.TargetVisible != tt.wantVisible {
				t.Fatalf("target visible = %d, want %d", got.TargetVisible, tt.wantVisible)
			}
			if got.ReservedCell() != got.Cells()-1 {
				t.Fatalf("reserved cell = %d, want %d", got.ReservedCell(), got.Cells()-1)
			}
		})
	}
}

func TestBestPresentationGridTargetVisibleProperty(t *testing.T) {
	for slots := -2; slots <= 50; slots++ {
		for _, size := range [][2]float64{{1920, 1080}, {0, 0}, {400, 3000}} {
			got := BestPresentationGrid(slots, size[0], size[1], 6)
			if got.TargetVisible < 1 {
				t.Fatalf("slots=%d: target visible %d < 1", slots, got.TargetVisible)
			}
			if got.Cells() >= 1 && got.TargetVisible != max(1, got.Cells()-1) {
				t.Fatalf("slots=%d: target visible %d, cells %d", slots, got.TargetVisible, got.Cells())
			}
			if got.Cells() < max(2, slots) {
				t.Fatalf("slots=%d: grid %dx%d cannot host every slot", slots, got.Rows, got.Columns)
			}
		}
	}
}

func TestBestPresentationGridFallback(t *testing.T) {
	got := BestPresentationGrid(5, 0, 0, 0)
	if got.Rows != 1 || got.Columns != 5 {
		t.Fatalf("fallback grid = %dx%d, want 1x5", got.Rows, got.Columns)
	}
	if got.CellHeight != fallbackPresentationCellHeight {
		t.Fatalf("fallback cell height = %v", got.CellHeight)
	}
	if got.TargetVisible != 4 {
		t.Fatalf("fallback target visible = %d, want 4", got.TargetVisible)
	}
}

// scanAll is the exhaustive reference scan over every divisor.
func scanAll(n int, width, height, gap float64, rowsMajor bool) (int, int, bool) {
	bestArea := 0.0
	bestCols, bestRows := 0, 0
	for k := 1; k <= n; k++ {
		cols, rows := k, ceilDiv(n, k)
		if rowsMajor {
			cols, rows = rows, k
		}
		cellW := (width - gap*float64(cols-1)) / float64(cols)
		cellH := (height - gap*float64(rows-1)) / float64(rows)
		if cellW <= 0 || cellH <= 0 {
			continue
		}
		if area := cellW * cellH; area > bestArea {
			bestArea, bestCols, bestRows = area, cols, rows
		}
	}
	return bestCols, bestRows, bestArea > 0
}

func TestGridsMatchExhaustiveScan(t *testing.T) {
	sizes := [][3]float64{
		{1920, 1080, 8}, {1280, 720, 0}, {400, 3000, 6}, {3000, 90, 12}, {50, 50, 30},
	}
	for _, size := range sizes {
		for n := 1; n <= 300; n++ {
			w, h, gap := size[0], size[1], size[2]

			cols, rows, ok := scanAll(n, w, h, gap, false)
			got := BestGrid(n, w, h, gap)
			if ok && (got.Columns != cols || got.Rows != rows) {
				t.Fatalf("BestGrid(%d, %v, %v, %v) = %dx%d, want %dx%d", n, w, h, gap, got.Columns, got.Rows, cols, rows)
			}
			if !ok && got.Columns != 1 {
				t.Fatalf("BestGrid(%d, %v, %v, %v) should fall back to one column, got %d", n, w, h, gap, got.Columns)
			}

			if n < 2 {
				continue
			}
			cols, rows, ok = scanAll(n, w, h, gap, true)
			pres := BestPresentationGrid(n, w, h, gap)
			if ok && (pres.Columns != cols || pres.Rows != rows) {
				t.Fatalf("BestPresentationGrid(%d, %v, %v, %v) = %dx%d, want %dx%d", n, w, h, gap, pres.Columns, pres.Rows, cols, rows)
			}
			if !ok && (pres.Rows != 1 || pres.Columns != n) {
				t.Fatalf("BestPresentationGrid(%d, %v, %v, %v) should fall back to one row, got %dx%d", n, w, h, gap, pres.Rows, pres.Columns)
			}
		}
	}
}

func TestLargeCountsFinishQuickly(t *testing.T) {
	done := make(chan PresentationResult, 1)
	go func() {
		BestGrid(2_000_000_000, 1920, 1080, 0)
		BestPresentationGrid(2_000_000_000, 1920, 1080, 0)
		done <- BestPresentationGrid(2_000_000_000, 1920, 1080, 8)
	}()
	select {
	case got := <-done:
		if got.Cells() < 2_000_000_000 {
			t.Fatalf("grid %dx%d cannot host every slot", got.Rows, got.Columns)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("layout for a huge slot count did not finish")
	}
}
