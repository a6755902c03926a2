// Package presentation drives presentation mode: a fixed grid that keeps one
// cell empty, shows as many clips as the remaining cells allow, and
// periodically rotates a hidden clip in for a visible one once the visible
// clip finishes playing.
//
// A Controller is owned by a single goroutine. Its timers come from an
// injected clock.Clock whose callbacks must be delivered on that same
// goroutine, so the controller never locks. Rotations are single-flight; a
// rotation abandoned by exit, repartitioning, or timeout turns its eventual
// end-of-playback callback into a no-op.
package presentation
