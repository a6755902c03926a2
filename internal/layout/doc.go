// Package layout computes grid partitions for a set of equally sized tiles.
//
// Both entry points exhaustively score every candidate rectangle by the area
// each tile would receive and keep the first strictly larger candidate, so the
// result is deterministic for a given input. BestGrid serves the browsing view
// and searches column counts; BestPresentationGrid serves presentation mode,
// searches row counts for a fixed slot count, and reserves the final cell as
// an always-empty slot.
//
// Degenerate inputs never fail; they fall back to a single column with a
// minimum cell height so callers always have something to render.
package layout
