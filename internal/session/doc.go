// Package session owns one interactive grid session: the ordered clip
// collection, the current mode, and the viewport.
//
// The collection is an explicit index-ordered slice and is the single source
// of truth for rendering. Every resize or content change recomputes the grid
// layout; external orders are reconciled before they are applied; entering
// presentation mode hands the partition to a presentation.Controller and
// leaving it tears the controller down again.
//
// A GridSession is not safe for concurrent use. All methods and all clock
// callbacks must run on one goroutine.
package session
