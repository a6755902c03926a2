package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipgrid/internal/clock"
)

// timerMsg is delivered by tea when a scheduled callback is due.
type timerMsg struct {
	id uint64
}

// Scheduler is a clock.Clock whose callbacks run inside the bubbletea Update
// loop. AfterFunc only records the timer; Drain turns newly registered timers
// into tick commands, and Fire runs a callback when its message arrives.
type Scheduler struct {
	now    func() time.Time
	next   uint64
	timers map[uint64]func()
	queued []queuedTimer
}

type queuedTimer struct {
	id uint64
	d  time.Duration
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now, timers: make(map[uint64]func())}
}

// Now returns the wall-clock time.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// AfterFunc registers f to run d from now. The timer starts counting when the
// command returned by Drain is executed.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	s.next++
	id := s.next
	s.timers[id] = f
	s.queued = append(s.queued, queuedTimer{id: id, d: max(d, 0)})
	return schedTimer{s: s, id: id}
}

// Drain returns tick commands for timers registered since the last call.
func (s *Scheduler) Drain() []tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.queued))
	for _, q := range s.queued {
		if _, ok := s.timers[q.id]; !ok {
			continue
		}
		id := q.id
		cmds = append(cmds, tea.Tick(q.d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	}
	s.queued = s.queued[:0]
	return cmds
}

// Fire runs the callback for id if it is still registered.
func (s *Scheduler) Fire(id uint64) bool {
	fn, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	fn()
	return true
}

var _ clock.Clock = (*Scheduler)(nil)

// Pending returns the number of registered callbacks.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

type schedTimer struct {
	s  *Scheduler
	id uint64
}

func (t schedTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}
