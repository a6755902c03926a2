package session

import (
	"clipgrid/internal/layout"
	"clipgrid/internal/media"
)

// Cell is one rendered slot.
type Cell struct {
	Slot     int        `json:"slot"`
	Item     media.Item `json:"item"`
	Hidden   bool       `json:"hidden"`
	Selected bool       `json:"selected"`
	Progress float64    `json:"progress"`
}

// Snapshot is a read-only view of the session for renderers.
type Snapshot struct {
	ID            string        `json:"id"`
	Mode          Mode          `json:"mode"`
	Layout        layout.Result `json:"layout"`
	Cells         []Cell        `json:"cells"`
	Slots         int           `json:"slots"`
	TargetVisible int           `json:"target_visible"`
	TitlesVisible bool          `json:"titles_visible"`
	Status        string        `json:"status,omitempty"`
	SlotBuffer    string        `json:"slot_buffer,omitempty"`
	Count         string        `json:"count"`
}

// Snapshot captures the session for rendering.
func (s *GridSession) Snapshot() Snapshot {
	snap := Snapshot{
		ID:            s.id,
		Mode:          s.mode,
		Layout:        s.Layout(),
		Cells:         make([]Cell, len(s.items)),
		Slots:         s.Slots(),
		TitlesVisible: s.titles,
		Status:        s.status,
		SlotBuffer:    s.SlotBuffer(),
		Count:         media.FormatCount(len(s.items)),
	}
	if s.presenter != nil {
		snap.TargetVisible = s.presenter.Layout().TargetVisible
	}
	for i, item := range s.items {
		cell := Cell{
			Slot:     i,
			Item:     item,
			Hidden:   s.Hidden(i),
			Selected: i == s.selected,
		}
		if s.mode == ModePresentation {
			cell.Progress = s.Progress(i)
		}
		snap.Cells[i] = cell
	}
	return snap
}

// VisibleCells returns the cells that are not parked, in slot order.
func (snap Snapshot) VisibleCells() []Cell {
	out := make([]Cell, 0, len(snap.Cells))
	for _, cell := range snap.Cells {
		if !cell.Hidden {
			out = append(out, cell)
		}
	}
	return out
}
