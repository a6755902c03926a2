// Package playback simulates clip playback for presentation mode. Each slot
// loops its clip or plays it once to the end, with clip lengths taken from
// probed durations and time taken from an injected clock.
package playback

import (
	"time"

	"clipgrid/internal/clock"
)

// State describes what a slot is doing.
type State int

const (
	// Looping repeats the clip indefinitely.
	Looping State = iota
	// Finishing plays the clip to its end once.
	Finishing
)

func (s State) String() string {
	if s == Finishing {
		return "finishing"
	}
	return "looping"
}

// DurationFunc returns the clip length currently held by a slot. Zero means
// unknown.
type DurationFunc func(slot int) time.Duration

type slotState struct {
	state   State
	started time.Time
	length  time.Duration
	timer   clock.Timer
}

// Simulator tracks per-slot playback positions. Like the presentation
// controller it is confined to the clock's callback goroutine.
type Simulator struct {
	clock    clock.Clock
	duration DurationFunc
	fallback time.Duration
	slots    map[int]*slotState
}

// NewSimulator builds a simulator. fallback is used for clips whose duration
// is unknown.
func NewSimulator(clk clock.Clock, duration DurationFunc, fallback time.Duration) *Simulator {
	if fallback <= 0 {
		fallback = 10 * time.Second
	}
	return &Simulator{clock: clk, duration: duration, fallback: fallback, slots: map[int]*slotState{}}
}

// PlayLooped restarts the slot's clip from the beginning in loop mode.
func (s *Simulator) PlayLooped(slot int) {
	st := s.slot(slot)
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.state = Looping
	st.started = s.clock.Now()
	st.length = s.lengthOf(slot)
}

// PlayToEnd lets the current pass of the slot's clip run out and then calls
// done once. The returned cancel stops the wait without calling done and
// leaves the slot finishing until it is looped again.
func (s *Simulator) PlayToEnd(slot int, done func()) func() {
	st := s.slot(slot)
	if st.timer != nil {
		st.timer.Stop()
	}
	remaining := st.length - s.elapsed(st)
	st.state = Finishing
	var timer clock.Timer
	timer = s.clock.AfterFunc(remaining, func() {
		if st.timer != timer {
			return
		}
		st.timer = nil
		done()
	})
	st.timer = timer
	return func() {
		if st.timer == timer {
			timer.Stop()
			st.timer = nil
		}
	}
}

// Progress returns the playback position of the slot as a fraction in [0, 1).
func (s *Simulator) Progress(slot int) float64 {
	st, ok := s.slots[slot]
	if !ok || st.length <= 0 {
		return 0
	}
	return float64(s.elapsed(st)) / float64(st.length)
}

// State reports the slot's playback mode.
func (s *Simulator) State(slot int) State {
	if st, ok := s.slots[slot]; ok {
		return st.state
	}
	return Looping
}

// Reset forgets every slot and stops pending end-of-clip timers.
func (s *Simulator) Reset() {
	for _, st := range s.slots {
		if st.timer != nil {
			st.timer.Stop()
		}
	}
	s.slots = map[int]*slotState{}
}

func (s *Simulator) slot(slot int) *slotState {
	st, ok := s.slots[slot]
	if !ok {
		st = &slotState{started: s.clock.Now(), length: s.lengthOf(slot)}
		s.slots[slot] = st
	}
	return st
}

// elapsed is the position within the current pass.
func (s *Simulator) elapsed(st *slotState) time.Duration {
	if st.length <= 0 {
		return 0
	}
	pos := s.clock.Now().Sub(st.started)
	if pos < 0 {
		return 0
	}
	if st.state == Finishing && pos >= st.length {
		return st.length - 1
	}
	return pos % st.length
}

func (s *Simulator) lengthOf(slot int) time.Duration {
	if s.duration != nil {
		if d := s.duration(slot); d > 0 {
			return d
		}
	}
	return s.fallback
}
