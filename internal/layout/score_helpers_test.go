package layout

// score reports the per-tile area and cell height for a columns x rows grid,
// and whether the tiles fit at all. It mirrors the candidate scoring in
// BestGrid using the same tileSize helper.
func score(columns, rows int, width, height, gap float64) (float64, float64, bool) {
	cellW := tileSize(width, gap, columns)
	cellH := tileSize(height, gap, rows)
	if cellW <= 0 || cellH <= 0 {
		return 0, 0, false
	}
	return cellW * cellH, cellH, true
}
