package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

// Loop is a real-time Clock that serializes every callback onto the goroutine
// running Run. Components that assume single-threaded event handling can use
// it without their own locking.
type Loop struct {
	events   chan func()
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewLoop creates a Loop with the given event buffer size.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{events: make(chan func(), buffer), done: make(chan struct{}), now: time.Now}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// Post queues fn to run on the loop goroutine. After Run has returned, fn
// is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.events <- fn:
	case <-l.done:
	}
}

// AfterFunc queues f onto the loop after d. Stop called from the loop
// goroutine guarantees f will not run, even when the timer already fired and
// f is waiting in the queue.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.state.CompareAndSwap(timerPending, timerFired) {
				f()
			}
		})
	})
	return lt
}

// Run executes queued callbacks until ctx is cancelled. A Loop runs once;
// pending timers and posts are discarded after it returns.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
}

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
