// Package order validates, formats, and persists clip orderings.
//
// An ordering is a newline-separated list of clip names. Reconcile compares a
// proposed ordering against the names currently loaded and reports every
// duplicate, missing, unknown, and count problem in a single pass; callers
// must only apply an ordering whose result is valid. Apply then performs the
// reorder as a pure permutation of the loaded items.
//
// Save writes order files atomically under an advisory file lock and falls
// back to an export directory when the clip folder cannot be written.
package order
