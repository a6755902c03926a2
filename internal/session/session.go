package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"clipgrid/internal/clock"
	"clipgrid/internal/config"
	"clipgrid/internal/layout"
	"clipgrid/internal/logging"
	"clipgrid/internal/media"
	"clipgrid/internal/order"
	"clipgrid/internal/playback"
	"clipgrid/internal/presentation"
)

// Mode is the session display mode.
type Mode int

const (
	// ModeGrid shows every clip in an auto-fitting grid.
	ModeGrid Mode = iota
	// ModePresentation holds a fixed grid and rotates hidden clips in.
	ModePresentation
)

func (m Mode) String() string {
	if m == ModePresentation {
		return "presentation"
	}
	return "grid"
}

// MarshalText renders the mode name in JSON output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Status message lifetimes.
const (
	StatusTimeout      = 2500 * time.Millisecond
	SlotsStatusTimeout = 1500 * time.Millisecond
)

var (
	// ErrUnknownItem indicates an item id that is not in the collection.
	ErrUnknownItem = errors.New("unknown item")
	// ErrDuplicateName indicates an added item whose name is already loaded.
	ErrDuplicateName = errors.New("duplicate item name")
	// ErrOutOfRange indicates a slot index outside the collection.
	ErrOutOfRange = errors.New("slot out of range")
)

// Options configure a GridSession.
type Options struct {
	Layout       config.Layout
	Presentation presentation.Config
	// DefaultClip is the simulated length of clips with unknown duration.
	DefaultClip time.Duration
	// Clock is required. Its callbacks must run on the session goroutine.
	Clock clock.Clock
	// View receives layouts and hidden flags. Optional.
	View presentation.View
	// Player drives clip playback. Defaults to a playback.Simulator.
	Player presentation.Player
	Rand   func(n int) int
	Logger *slog.Logger
	// OnSlots is called after a typed slot count has been applied.
	OnSlots func(int)
}

// OptionsFromConfig maps application config onto session options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Layout: cfg.Layout,
		Presentation: presentation.Config{
			Slots:           cfg.Presentation.Slots,
			RotateInterval:  cfg.RotateInterval(),
			DigitDebounce:   cfg.DigitDebounce(),
			RotationTimeout: cfg.RotationTimeout(),
			Gap:             cfg.Layout.Gap,
		},
		DefaultClip: cfg.DefaultClipDuration(),
	}
}

// GridSession is one interactive session over a folder of clips.
type GridSession struct {
	id     string
	opts   Options
	log    *slog.Logger
	clock  clock.Clock
	view   presentation.View
	player presentation.Player

	items    []media.Item
	mode     Mode
	width    float64
	height   float64
	grid     layout.Result
	selected int

	titles      bool
	savedTitles bool

	slots     int
	presenter *presentation.Controller

	status      string
	statusTimer clock.Timer
}

// New creates a session over items in the given order. Item names must be
// unique; later duplicates are dropped.
func New(items []media.Item, opts Options) *GridSession {
	s := &GridSession{
		id:       uuid.NewString(),
		opts:     opts,
		clock:    opts.Clock,
		view:     opts.View,
		titles:   true,
		selected: -1,
		slots:    opts.Presentation.Slots,
	}
	if s.view == nil {
		s.view = nopView{}
	}
	if s.slots < presentation.MinSlots {
		s.slots = presentation.DefaultSlots
	}
	s.slots = presentation.ClampSlots(s.slots)
	s.log = logging.NewComponentLogger(opts.Logger, "session").With(logging.String(logging.FieldSessionID, s.id))
	s.player = opts.Player
	if s.player == nil {
		s.player = playback.NewSimulator(s.clock, s.durationAt, opts.DefaultClip)
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.Name]; ok {
			logging.WarnWithContext(s.log, "duplicate clip name skipped", "duplicate_name",
				logging.String(logging.FieldItemName, item.Name),
				logging.String(logging.FieldImpact, "clip not shown"),
			)
			continue
		}
		seen[item.Name] = struct{}{}
		s.items = append(s.items, item)
	}
	return s
}

// ID identifies the session in logs.
func (s *GridSession) ID() string { return s.id }

// Len returns the number of clips.
func (s *GridSession) Len() int { return len(s.items) }

// Items returns a copy of the collection in display order.
func (s *GridSession) Items() []media.Item { return slices.Clone(s.items) }

// Names returns the clip names in display order.
func (s *GridSession) Names() []string { return media.Names(s.items) }

// Mode returns the current display mode.
func (s *GridSession) Mode() Mode { return s.mode }

// Layout returns the layout most recently applied to the view.
func (s *GridSession) Layout() layout.Result {
	if s.presenter != nil {
		return s.presenter.Layout().Result
	}
	return s.grid
}

// Selected returns the selected slot, or -1.
func (s *GridSession) Selected() int { return s.selected }

// TitlesVisible reports whether clip titles are shown.
func (s *GridSession) TitlesVisible() bool { return s.titles }

// Status returns the current transient status message.
func (s *GridSession) Status() string { return s.status }

// Slots returns the presentation slot count.
func (s *GridSession) Slots() int {
	if s.presenter != nil {
		return s.presenter.Slots()
	}
	return s.slots
}

// Resize records a new viewport size and recomputes the layout.
func (s *GridSession) Resize(width, height float64) {
	s.width, s.height = width, height
	if s.presenter != nil {
		w, h := s.area(ModePresentation)
		s.presenter.Resize(w, h)
		return
	}
	s.relayout()
}

// area returns the grid area for a mode after padding and toolbar.
func (s *GridSession) area(mode Mode) (float64, float64) {
	w := s.width - s.opts.Layout.Padding
	h := s.height - s.opts.Layout.Padding
	if mode == ModeGrid {
		h -= s.opts.Layout.ToolbarHeight
	}
	return w, h
}

func (s *GridSession) relayout() {
	w, h := s.area(ModeGrid)
	s.grid = layout.BestGrid(len(s.items), w, h, s.opts.Layout.Gap)
	s.view.ApplyLayout(s.grid)
}

// contentChanged recomputes whatever layout the current mode uses.
func (s *GridSession) contentChanged() {
	if s.presenter != nil {
		s.presenter.Refresh()
		return
	}
	s.relayout()
}

// Select marks a slot as selected. -1 clears the selection.
func (s *GridSession) Select(slot int) error {
	if slot < -1 || slot >= len(s.items) {
		return fmt.Errorf("select %d: %w", slot, ErrOutOfRange)
	}
	s.selected = slot
	return nil
}

// Add appends clips to the collection.
func (s *GridSession) Add(items ...media.Item) error {
	for _, item := range items {
		if s.index(item.Name) >= 0 {
			return fmt.Errorf("add %q: %w", item.Name, ErrDuplicateName)
		}
	}
	s.items = append(s.items, items...)
	s.contentChanged()
	return nil
}

// Move relocates the clip at from to position to, shifting the clips in
// between. The selection follows the moved clip.
func (s *GridSession) Move(from, to int) error {
	if from < 0 || from >= len(s.items) || to < 0 || to >= len(s.items) {
		return fmt.Errorf("move %d to %d: %w", from, to, ErrOutOfRange)
	}
	if from == to {
		return nil
	}
	item := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, item)
	if s.selected == from {
		s.selected = to
	}
	s.log.Debug("clip moved",
		logging.String(logging.FieldItemName, item.Name),
		logging.Int("from", from),
		logging.Int("to", to),
	)
	s.contentChanged()
	return nil
}

// Remove drops a clip from the session.
func (s *GridSession) Remove(id string) error {
	idx := slices.IndexFunc(s.items, func(item media.Item) bool { return item.ID == id })
	if idx < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrUnknownItem)
	}
	removed := s.items[idx]
	s.items = slices.Delete(s.items, idx, idx+1)
	switch {
	case s.selected == idx:
		s.selected = -1
	case s.selected > idx:
		s.selected--
	}
	s.log.Info("clip removed",
		logging.String(logging.FieldItemID, removed.ID),
		logging.String(logging.FieldItemName, removed.Name),
		logging.String(logging.FieldEventType, "clip_removed"),
	)
	s.contentChanged()
	s.Notify("Clip removed from view.", StatusTimeout)
	return nil
}

// OrderText renders the collection as an order file.
func (s *GridSession) OrderText() string {
	return order.Format(s.Names())
}

// ApplyOrderText parses and reconciles an order file and, when it is valid,
// reorders the collection. A failed reconciliation returns an
// *order.ValidationError and leaves the collection untouched.
func (s *GridSession) ApplyOrderText(text string) (order.Result, error) {
	return s.ApplyOrderLines(order.ParseLines(text))
}

// ApplyOrderLines reconciles already parsed order-file lines, as returned by
// order.ReadFile, and applies them when valid.
func (s *GridSession) ApplyOrderLines(lines []string) (order.Result, error) {
	res := order.Reconcile(lines, s.Names())
	if err := res.Err(); err != nil {
		logging.WarnWithContext(s.log, "order rejected", "order_rejected",
			logging.Int("issues", len(res.Issues)),
			logging.String(logging.FieldErrorHint, "fix the listed names in the order file"),
			logging.String(logging.FieldImpact, "current order kept"),
		)
		return res, err
	}
	if err := s.applyNames(res.Order); err != nil {
		return res, err
	}
	return res, nil
}

func (s *GridSession) applyNames(names []string) error {
	var selectedName string
	if s.selected >= 0 {
		selectedName = s.items[s.selected].Name
	}
	reordered, err := order.Apply(s.items, media.ItemName, names)
	if err != nil {
		return err
	}
	s.items = reordered
	if selectedName != "" {
		s.selected = s.index(selectedName)
	}
	s.log.Info("order applied",
		logging.Int("count", len(names)),
		logging.String(logging.FieldEventType, "order_applied"),
	)
	s.contentChanged()
	s.Notify("Order applied.", StatusTimeout)
	return nil
}

func (s *GridSession) index(name string) int {
	return slices.IndexFunc(s.items, func(item media.Item) bool { return item.Name == name })
}

// ToggleTitles flips title visibility.
func (s *GridSession) ToggleTitles() {
	s.titles = !s.titles
}

// Notify shows a status message that clears itself after d.
func (s *GridSession) Notify(msg string, d time.Duration) {
	s.status = msg
	if s.statusTimer != nil {
		s.statusTimer.Stop()
	}
	s.statusTimer = s.clock.AfterFunc(d, func() {
		s.status = ""
		s.statusTimer = nil
	})
}

func (s *GridSession) durationAt(slot int) time.Duration {
	if slot < 0 || slot >= len(s.items) {
		return 0
	}
	return s.items[slot].Duration
}

// Progress reports the playback position of a slot when the player tracks
// one.
func (s *GridSession) Progress(slot int) float64 {
	if p, ok := s.player.(interface{ Progress(int) float64 }); ok {
		return p.Progress(slot)
	}
	return 0
}

type nopView struct{}

func (nopView) ApplyLayout(layout.Result)       {}
func (nopView) SetHidden(slot int, hidden bool) {}
