// Package clock abstracts time so timer-driven components can be tested
// deterministically and driven from a single event goroutine.
package clock

import "time"

// Clock provides the current time and one-shot timers.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc runs f once after d elapses. Implementations document which
	// goroutine f runs on.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before the callback ran.
	Stop() bool
}
