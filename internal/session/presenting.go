package session

import (
	"fmt"

	"clipgrid/internal/logging"
	"clipgrid/internal/presentation"
)

// slotsAdapter exposes the collection to the presentation controller.
type slotsAdapter struct{ s *GridSession }

func (a slotsAdapter) Len() int { return len(a.s.items) }

func (a slotsAdapter) Swap(i, j int) {
	a.s.items[i], a.s.items[j] = a.s.items[j], a.s.items[i]
}

// EnterPresentation switches to presentation mode. Titles are hidden for the
// duration and restored on exit.
func (s *GridSession) EnterPresentation() {
	if s.presenter != nil {
		return
	}
	cfg := s.opts.Presentation
	cfg.Slots = s.slots
	s.presenter = presentation.New(cfg, presentation.Deps{
		Clock:    s.clock,
		Items:    slotsAdapter{s},
		View:     s.view,
		Player:   s.player,
		Rand:     s.opts.Rand,
		Logger:   s.log,
		OnStatus: func(msg string) { s.Notify(msg, SlotsStatusTimeout) },
		OnSlots: func(n int) {
			s.slots = n
			if s.opts.OnSlots != nil {
				s.opts.OnSlots(n)
			}
		},
	})
	s.mode = ModePresentation
	s.savedTitles = s.titles
	s.titles = false
	for slot := range s.items {
		s.player.PlayLooped(slot)
	}
	w, h := s.area(ModePresentation)
	s.presenter.Start(w, h)
}

// ExitPresentation returns to the normal grid. Timers stop, any pending
// rotation is abandoned, every clip is shown again, and titles return to
// their previous state.
func (s *GridSession) ExitPresentation() {
	if s.presenter == nil {
		return
	}
	s.presenter.Stop()
	s.presenter = nil
	s.mode = ModeGrid
	s.titles = s.savedTitles
	s.relayout()
}

// TogglePresentation enters or exits presentation mode.
func (s *GridSession) TogglePresentation() {
	if s.presenter != nil {
		s.ExitPresentation()
		return
	}
	s.EnterPresentation()
}

// TypeDigit forwards a keystroke to the slot-count entry. It reports whether
// the key was consumed, which only happens in presentation mode.
func (s *GridSession) TypeDigit(r rune) bool {
	if s.presenter == nil {
		return false
	}
	return s.presenter.TypeDigit(r)
}

// SetSlots sets the presentation slot count, for example from saved
// preferences.
func (s *GridSession) SetSlots(n int) {
	n = presentation.ClampSlots(n)
	s.slots = n
	if s.presenter != nil {
		s.presenter.SetSlots(n)
	}
	s.log.Debug("slots set", logging.Int(logging.FieldSlots, n))
}

// Hidden reports whether a slot is parked by presentation mode.
func (s *GridSession) Hidden(slot int) bool {
	return s.presenter != nil && s.presenter.Hidden(slot)
}

// SlotBuffer returns digits typed but not yet applied.
func (s *GridSession) SlotBuffer() string {
	if s.presenter == nil {
		return ""
	}
	return s.presenter.Buffer()
}

// RotationPending reports whether a presentation rotation is in flight.
func (s *GridSession) RotationPending() bool {
	return s.presenter != nil && s.presenter.Pending()
}

// PresentationSummary describes the current partition for status lines.
func (s *GridSession) PresentationSummary() string {
	if s.presenter == nil {
		return ""
	}
	return fmt.Sprintf("%d slots, %d shown, %d parked",
		s.presenter.Slots(), s.presenter.VisibleCount(), s.presenter.HiddenCount())
}
