package presentation

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"clipgrid/internal/clock"
	"clipgrid/internal/layout"
	"clipgrid/internal/logging"
)

// Default timings and slot count.
const (
	DefaultSlots          = 12
	DefaultRotateInterval = 3 * time.Second
	DefaultDigitDebounce  = 600 * time.Millisecond
	MinSlots              = 2
	// MaxSlots bounds typed counts; a terminal cannot draw more cells.
	MaxSlots              = 999
)

// ClampSlots limits n to [MinSlots, MaxSlots].
func ClampSlots(n int) int {
	return min(MaxSlots, max(MinSlots, n))
}

// Slots is the ordered collection the controller partitions. Swap exchanges
// the content held by two slot positions.
type Slots interface {
	Len() int
	Swap(i, j int)
}

// View renders the grid.
type View interface {
	ApplyLayout(layout.Result)
	SetHidden(slot int, hidden bool)
}

// Player controls clip playback per slot.
type Player interface {
	// PlayToEnd stops looping the slot and calls done once when the clip
	// reaches its end. cancel releases the subscription without calling done.
	PlayToEnd(slot int, done func()) (cancel func())
	// PlayLooped (re)starts looped playback of the slot's content.
	PlayLooped(slot int)
}

// Config holds presentation settings.
type Config struct {
	Slots           int
	RotateInterval  time.Duration
	DigitDebounce   time.Duration
	RotationTimeout time.Duration
	Gap             float64
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Clock  clock.Clock
	Items  Slots
	View   View
	Player Player
	// Rand returns a uniform integer in [0, n). Defaults to math/rand/v2.
	Rand   func(n int) int
	Logger *slog.Logger
	// OnStatus receives short user-facing messages.
	OnStatus func(string)
	// OnSlots is called after a typed slot count has been applied.
	OnSlots func(int)
}

type rotation struct {
	epoch   uint64
	visible int
	hidden  int
	cancel  func()
	timeout clock.Timer
}

// Controller owns the visible/hidden partition while presentation mode is
// active.
type Controller struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	slots         int
	width, height float64
	grid          layout.PresentationResult
	hidden        []bool
	active        bool

	epoch    uint64
	pending  *rotation
	digits   []byte
	debounce clock.Timer
	ticker   clock.Timer
}

// New builds an inactive controller.
func New(cfg Config, deps Deps) *Controller {
	if cfg.Slots < MinSlots {
		cfg.Slots = DefaultSlots
	}
	cfg.Slots = ClampSlots(cfg.Slots)
	if cfg.RotateInterval <= 0 {
		cfg.RotateInterval = DefaultRotateInterval
	}
	if cfg.DigitDebounce <= 0 {
		cfg.DigitDebounce = DefaultDigitDebounce
	}
	if deps.Rand == nil {
		deps.Rand = rand.IntN
	}
	return &Controller{
		cfg:   cfg,
		deps:  deps,
		log:   logging.NewComponentLogger(deps.Logger, "presentation"),
		slots: cfg.Slots,
	}
}

// Start enters presentation mode for the given viewport: it computes the
// presentation grid, partitions the collection, and arms the rotation timer.
func (c *Controller) Start(width, height float64) {
	if c.active {
		c.Resize(width, height)
		return
	}
	c.active = true
	c.width, c.height = width, height
	c.applySlots()
	c.ticker = c.deps.Clock.AfterFunc(c.cfg.RotateInterval, c.tick)
	c.log.Info("presentation started",
		logging.Int(logging.FieldSlots, c.slots),
		logging.Int("visible", c.VisibleCount()),
		logging.Int("hidden", c.HiddenCount()),
		logging.String(logging.FieldEventType, "presentation_started"),
	)
}

// Stop leaves presentation mode. Timers are cancelled, a pending rotation is
// abandoned, and every hidden slot is shown again.
func (c *Controller) Stop() {
	if !c.active {
		return
	}
	c.active = false
	stopTimer(&c.ticker)
	stopTimer(&c.debounce)
	c.digits = c.digits[:0]
	c.abandon(false)
	c.showAll()
	c.log.Info("presentation stopped", logging.String(logging.FieldEventType, "presentation_stopped"))
}

// Active reports whether presentation mode is on.
func (c *Controller) Active() bool { return c.active }

// Slots returns the configured slot count.
func (c *Controller) Slots() int { return c.slots }

// Layout returns the current presentation grid.
func (c *Controller) Layout() layout.PresentationResult { return c.grid }

// Pending reports whether a rotation is waiting for its clip to end.
func (c *Controller) Pending() bool { return c.pending != nil }

// Buffer returns the digits typed since the last applied slot count.
func (c *Controller) Buffer() string { return string(c.digits) }

// Hidden reports whether the slot is parked out of view.
func (c *Controller) Hidden(slot int) bool {
	return slot >= 0 && slot < len(c.hidden) && c.hidden[slot]
}

// VisibleCount returns how many slots are shown.
func (c *Controller) VisibleCount() int { return len(c.hidden) - c.HiddenCount() }

// HiddenCount returns how many slots are parked.
func (c *Controller) HiddenCount() int {
	n := 0
	for _, h := range c.hidden {
		if h {
			n++
		}
	}
	return n
}

// SetSlots changes the slot count directly. While active the collection is
// repartitioned immediately.
func (c *Controller) SetSlots(n int) {
	c.slots = ClampSlots(n)
	if c.active {
		c.applySlots()
	}
}

// TypeDigit feeds one keystroke into the slot-count buffer. It reports
// whether the key was consumed. Each digit restarts the debounce timer; only
// the settled value is applied.
func (c *Controller) TypeDigit(r rune) bool {
	if !c.active || r < '0' || r > '9' {
		return false
	}
	c.digits = append(c.digits, byte(r))
	stopTimer(&c.debounce)
	c.debounce = c.deps.Clock.AfterFunc(c.cfg.DigitDebounce, c.commitDigits)
	return true
}

// Resize updates the viewport. The collection is only repartitioned when the
// grid or the item count changed.
func (c *Controller) Resize(width, height float64) {
	c.width, c.height = width, height
	if !c.active {
		return
	}
	next := layout.BestPresentationGrid(c.slots, width, height, c.cfg.Gap)
	if next == c.grid && c.deps.Items.Len() == len(c.hidden) {
		return
	}
	c.applySlots()
}

// Refresh repartitions after the collection changed, for example when an
// item was removed.
func (c *Controller) Refresh() {
	if c.active {
		c.applySlots()
	}
}

func (c *Controller) commitDigits() {
	c.debounce = nil
	text := string(c.digits)
	c.digits = c.digits[:0]
	if !c.active || text == "" {
		return
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return
	}
	c.slots = ClampSlots(n)
	c.applySlots()
	c.log.Info("slots changed",
		logging.Int(logging.FieldSlots, c.slots),
		logging.Int("target_visible", c.grid.TargetVisible),
		logging.String(logging.FieldEventType, "slots_changed"),
	)
	c.status(fmt.Sprintf("Slots: %d (showing %d)", c.slots, c.grid.TargetVisible))
	if c.deps.OnSlots != nil {
		c.deps.OnSlots(c.slots)
	}
}

// applySlots restores hidden slots, recomputes the grid, and repartitions so
// the first min(total, TargetVisible) slots are shown.
func (c *Controller) applySlots() {
	interrupted := c.pending
	c.abandon(false)
	c.showAll()

	c.grid = layout.BestPresentationGrid(c.slots, c.width, c.height, c.cfg.Gap)
	c.deps.View.ApplyLayout(c.grid.Result)

	total := c.deps.Items.Len()
	visible := min(total, c.grid.TargetVisible)
	c.hidden = make([]bool, total)
	for slot := visible; slot < total; slot++ {
		c.hidden[slot] = true
		c.deps.View.SetHidden(slot, true)
	}
	// The interrupted slot stopped looping; after a removal it may hold a
	// different clip or be parked now.
	if interrupted != nil && interrupted.visible < total && !c.hidden[interrupted.visible] {
		c.deps.Player.PlayLooped(interrupted.visible)
	}
}

func (c *Controller) showAll() {
	for slot, h := range c.hidden {
		if h {
			c.deps.View.SetHidden(slot, false)
		}
	}
	c.hidden = nil
}

func (c *Controller) tick() {
	if !c.active {
		return
	}
	c.ticker = c.deps.Clock.AfterFunc(c.cfg.RotateInterval, c.tick)
	c.rotate()
}

func (c *Controller) rotate() {
	if c.pending != nil {
		return
	}
	var shown, parked []int
	for slot, h := range c.hidden {
		if h {
			parked = append(parked, slot)
		} else {
			shown = append(shown, slot)
		}
	}
	if len(shown) < 2 || len(parked) == 0 {
		return
	}

	c.epoch++
	r := &rotation{
		epoch:   c.epoch,
		visible: shown[c.deps.Rand(len(shown))],
		hidden:  parked[c.deps.Rand(len(parked))],
	}
	c.pending = r
	c.log.Debug("rotation pending",
		logging.Int(logging.FieldSlot, r.visible),
		logging.Int("incoming_slot", r.hidden),
	)
	r.cancel = c.deps.Player.PlayToEnd(r.visible, func() { c.finish(r) })
	if c.pending != r {
		// done fired synchronously
		return
	}
	if c.cfg.RotationTimeout > 0 {
		r.timeout = c.deps.Clock.AfterFunc(c.cfg.RotationTimeout, func() { c.expire(r) })
	}
}

func (c *Controller) current(r *rotation) bool {
	return c.active && c.pending == r && r.epoch == c.epoch
}

// finish completes a rotation once the outgoing clip has ended: content
// moves between the two slot positions, the partition flags stay with the
// positions.
func (c *Controller) finish(r *rotation) {
	if !c.current(r) {
		return
	}
	c.pending = nil
	stopTimer(&r.timeout)

	c.deps.Items.Swap(r.visible, r.hidden)
	c.deps.View.SetHidden(r.hidden, true)
	c.deps.View.SetHidden(r.visible, false)
	c.deps.Player.PlayLooped(r.visible)
	c.log.Debug("rotation complete",
		logging.Int(logging.FieldSlot, r.visible),
		logging.Int("outgoing_slot", r.hidden),
	)
}

func (c *Controller) expire(r *rotation) {
	if !c.current(r) {
		return
	}
	logging.WarnWithContext(c.log, "rotation timed out; resuming loop", "rotation_timeout",
		logging.Int(logging.FieldSlot, r.visible),
		logging.Duration("timeout", c.cfg.RotationTimeout),
		logging.String(logging.FieldErrorHint, "the clip never reported its end; check the file plays to completion"),
		logging.String(logging.FieldImpact, "rotation skipped"),
	)
	c.abandon(true)
}

// abandon drops the pending rotation. Its callbacks become no-ops because the
// epoch moves on. With resume set, the outgoing slot goes back to looping.
func (c *Controller) abandon(resume bool) {
	r := c.pending
	if r == nil {
		return
	}
	c.pending = nil
	c.epoch++
	stopTimer(&r.timeout)
	if r.cancel != nil {
		r.cancel()
	}
	if resume {
		c.deps.Player.PlayLooped(r.visible)
	}
}

func (c *Controller) status(msg string) {
	if c.deps.OnStatus != nil {
		c.deps.OnStatus(msg)
	}
}

func stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
