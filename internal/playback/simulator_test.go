package playback

import (
	"testing"
	"time"

	"clipgrid/internal/clock"
)

func newTestSimulator(durations map[int]time.Duration) (*clock.Fake, *Simulator) {
	clk := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sim := NewSimulator(clk, func(slot int) time.Duration { return durations[slot] }, 4*time.Second)
	return clk, sim
}

func TestPlayToEndWaitsForRemainderOfPass(t *testing.T) {
	clk, sim := newTestSimulator(map[int]time.Duration{0: 5 * time.Second})
	sim.PlayLooped(0)
	clk.Advance(7 * time.Second)

	ended := 0
	sim.PlayToEnd(0, func() { ended++ })
	if sim.State(0) != Finishing {
		t.Fatalf("expected finishing state, got %v", sim.State(0))
	}
	clk.Advance(2*time.Second + 999*time.Millisecond)
	if ended != 0 {
		t.Fatal("clip ended early")
	}
	clk.Advance(time.Millisecond)
	if ended != 1 {
		t.Fatalf("expected one end signal, got %d", ended)
	}
	clk.Advance(time.Minute)
	if ended != 1 {
		t.Fatalf("end signal must fire once, got %d", ended)
	}
}

func TestCancelSuppressesEnd(t *testing.T) {
	clk, sim := newTestSimulator(nil)
	sim.PlayLooped(1)
	ended := false
	cancel := sim.PlayToEnd(1, func() { ended = true })
	cancel()
	clk.Advance(time.Minute)
	if ended {
		t.Fatal("cancelled wait must not fire")
	}
	if clk.Pending() != 0 {
		t.Fatalf("expected timer stopped, %d pending", clk.Pending())
	}
}

func TestUnknownDurationUsesFallback(t *testing.T) {
	clk, sim := newTestSimulator(nil)
	sim.PlayLooped(3)
	clk.Advance(time.Second)
	if got := sim.Progress(3); got != 0.25 {
		t.Fatalf("expected progress 0.25 with 4s fallback, got %v", got)
	}
}

func TestPlayLoopedRestartsAndCancelsWait(t *testing.T) {
	clk, sim := newTestSimulator(map[int]time.Duration{2: 10 * time.Second})
	sim.PlayLooped(2)
	clk.Advance(3 * time.Second)
	ended := false
	sim.PlayToEnd(2, func() { ended = true })
	sim.PlayLooped(2)
	if sim.Progress(2) != 0 || sim.State(2) != Looping {
		t.Fatalf("expected restart, progress=%v state=%v", sim.Progress(2), sim.State(2))
	}
	clk.Advance(time.Minute)
	if ended {
		t.Fatal("looping again must drop the pending end signal")
	}
}

func TestResetStopsTimers(t *testing.T) {
	clk, sim := newTestSimulator(nil)
	sim.PlayToEnd(0, func() { t.Fatal("reset wait fired") })
	sim.Reset()
	clk.Advance(time.Minute)
	if sim.Progress(0) != 0 {
		t.Fatal("expected forgotten slot")
	}
}
