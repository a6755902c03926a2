package layout

import "math"

// MinCellHeight is the floor applied to fallback cell heights.
const MinCellHeight = 80.0

// fallbackPresentationCellHeight is used when no presentation candidate fits.
const fallbackPresentationCellHeight = 120.0

// Result describes a grid partition.
type Result struct {
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	CellHeight float64 `json:"cell_height"`
}

// Cells reports the number of grid cells in the partition.
func (r Result) Cells() int {
	return r.Columns * r.Rows
}

// PresentationResult is a presentation-mode partition with one reserved cell.
type PresentationResult struct {
	Result
	// TargetVisible is how many items stay on screen; the remaining cell is
	// left empty.
	TargetVisible int `json:"target_visible"`
}

// ReservedCell returns the index of the always-empty cell.
func (r PresentationResult) ReservedCell() int {
	return r.Cells() - 1
}

type candidate struct {
	columns    int
	rows       int
	cellHeight float64
	area       float64
}

func tileSize(span, gap float64, n int) float64 {
	return (span - gap*float64(n-1)) / float64(n)
}

// BestGrid picks the column count that maximizes per-tile area for count
// tiles inside width x height with gap spacing between tiles.
func BestGrid(count int, width, height, gap float64) Result {
	if count <= 0 || width <= 0 || height <= 0 {
		return Result{
			Columns:    1,
			Rows:       max(1, count),
			CellHeight: math.Max(MinCellHeight, height),
		}
	}

	best := candidate{
		columns:    1,
		rows:       count,
		cellHeight: math.Max(MinCellHeight, (height-gap*float64(count-1))/float64(count)),
	}
	for columns := 1; columns > 0 && columns <= count; columns = nextDivisor(count, columns) {
		cellW := tileSize(width, gap, columns)
		if cellW <= 0 {
			if gap >= 0 {
				// only shrinks as columns grow
				break
			}
			continue
		}
		rows := ceilDiv(count, columns)
		cellH := tileSize(height, gap, rows)
		if cellH <= 0 {
			continue
		}
		if area := cellW * cellH; area > best.area {
			best = candidate{columns: columns, rows: rows, cellHeight: cellH, area: area}
		}
	}
	return Result{Columns: best.columns, Rows: best.rows, CellHeight: best.cellHeight}
}

// BestPresentationGrid picks the row count that maximizes per-tile area for a
// fixed number of slots. At least two slots are always laid out so one can
// stay empty.
func BestPresentationGrid(slots int, width, height, gap float64) PresentationResult {
	n := max(2, slots)

	best := candidate{rows: 1, columns: n, cellHeight: fallbackPresentationCellHeight}
	for rows := 1; rows > 0 && rows <= n; rows = nextDivisor(n, rows) {
		cellH := tileSize(height, gap, rows)
		if cellH <= 0 {
			if gap >= 0 {
				// only shrinks as rows grow
				break
			}
			continue
		}
		columns := ceilDiv(n, rows)
		cellW := tileSize(width, gap, columns)
		if cellW <= 0 {
			continue
		}
		if area := cellW * cellH; area > best.area {
			best = candidate{columns: columns, rows: rows, cellHeight: cellH, area: area}
		}
	}

	return PresentationResult{
		Result:        Result{Columns: best.columns, Rows: best.rows, CellHeight: best.cellHeight},
		TargetVisible: max(1, best.rows*best.columns-1),
	}
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// nextDivisor returns the smallest d > k with ceil(n/d) < ceil(n/k). For a
// fixed quotient the smallest divisor yields the largest tile, so the scans
// only visit the first divisor of each quotient and stay O(sqrt n) for
// large slot counts while keeping the same tie-break as a full scan.
func nextDivisor(n, k int) int {
	q := ceilDiv(n, k)
	if q <= 1 {
		return 0
	}
	return ceilDiv(n, q-1)
}
