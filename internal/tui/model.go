// Package tui is the interactive terminal front end for a clip folder. It
// renders a GridSession with lipgloss and drives every session timer through
// the bubbletea Update loop, so the session never sees concurrent calls.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"clipgrid/internal/config"
	"clipgrid/internal/history"
	"clipgrid/internal/logging"
	"clipgrid/internal/media"
	"clipgrid/internal/session"
)

// Terminal cells are mapped to pixels so the layout engine can keep working
// in viewport units. A cell is roughly twice as tall as it is wide.
const (
	pixelsPerColumn = 8
	pixelsPerRow    = 16
)

const frameInterval = 250 * time.Millisecond

// Options configure a Model.
type Options struct {
	Config *config.Config
	// Folder is the clip folder; order files are saved next to the clips.
	Folder string
	Items  []media.Item
	// Store records saved orders and slot preferences. Optional.
	Store  *history.Store
	Logger *slog.Logger
	// Slots overrides the configured presentation slot count when positive.
	Slots int
	Rand  func(n int) int
}

// Model is the bubbletea model for the clip grid.
type Model struct {
	cfg    *config.Config
	folder string
	store  *history.Store
	log    *slog.Logger

	sched *Scheduler
	sess  *session.GridSession
	keys  keyMap
	help  help.Model

	width  int
	height int
	issues []string

	framing  bool
	quitting bool
	cmds     []tea.Cmd
}

type frameMsg struct{}

// New builds a Model over the given clips.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	m := &Model{
		cfg:    cfg,
		folder: opts.Folder,
		store:  opts.Store,
		log:    logging.NewComponentLogger(opts.Logger, "tui"),
		sched:  NewScheduler(),
		keys:   newKeyMap(),
		help:   help.New(),
	}
	sessOpts := session.OptionsFromConfig(cfg)
	sessOpts.Clock = m.sched
	sessOpts.Rand = opts.Rand
	sessOpts.Logger = opts.Logger
	sessOpts.OnSlots = m.slotsChanged
	m.sess = session.New(opts.Items, sessOpts)
	if opts.Slots > 0 {
		m.sess.SetSlots(opts.Slots)
	}
	return m
}

// Session exposes the underlying session.
func (m *Model) Session() *session.GridSession {
	return m.sess
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.flush()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.sess.Resize(float64(msg.Width*pixelsPerColumn), float64(msg.Height*pixelsPerRow))
	case timerMsg:
		m.sched.Fire(msg.id)
	case frameMsg:
		m.framing = false
	case orderSavedMsg:
		m.handleSaved(msg)
	case orderLoadedMsg:
		m.handleLoaded(msg)
	case historyMsg:
		m.handleHistory(msg)
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			m.queue(cmd)
		}
	}
	return m, m.flush()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.sess.ExitPresentation()
		return tea.Quit
	}
	presenting := m.sess.Mode() == session.ModePresentation
	if presenting && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && m.sess.TypeDigit(msg.Runes[0]) {
		return nil
	}
	keys := m.keys.forMode(presenting)
	switch {
	case key.Matches(msg, keys.Present):
		m.issues = nil
		m.sess.TogglePresentation()
		m.log.Info("display mode changed",
			logging.String(logging.FieldMode, m.sess.Mode().String()),
			logging.String(logging.FieldEventType, "mode_changed"),
		)
	case key.Matches(msg, keys.Exit):
		if presenting {
			m.sess.ExitPresentation()
			return nil
		}
		m.issues = nil
		_ = m.sess.Select(-1)
	case key.Matches(msg, keys.Titles):
		m.sess.ToggleTitles()
	case key.Matches(msg, keys.Left):
		m.step(-1)
	case key.Matches(msg, keys.Right):
		m.step(1)
	case key.Matches(msg, keys.Up):
		m.step(-max(1, m.sess.Layout().Columns))
	case key.Matches(msg, keys.Down):
		m.step(max(1, m.sess.Layout().Columns))
	case key.Matches(msg, keys.MoveBack):
		m.move(-1)
	case key.Matches(msg, keys.MoveForward):
		m.move(1)
	case key.Matches(msg, keys.Remove):
		m.removeSelected()
	case key.Matches(msg, keys.Save):
		return m.saveOrder()
	case key.Matches(msg, keys.Load):
		return m.loadOrder()
	case key.Matches(msg, keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// step moves the selection by delta, clamped to the collection.
func (m *Model) step(delta int) {
	n := m.sess.Len()
	if n == 0 {
		return
	}
	sel := m.sess.Selected()
	if sel < 0 {
		sel = 0
	} else {
		sel = min(max(sel+delta, 0), n-1)
	}
	_ = m.sess.Select(sel)
}

func (m *Model) move(delta int) {
	sel := m.sess.Selected()
	if sel < 0 {
		return
	}
	to := sel + delta
	if to < 0 || to >= m.sess.Len() {
		return
	}
	if err := m.sess.Move(sel, to); err != nil {
		m.log.Debug("move ignored", logging.Error(err))
	}
}

func (m *Model) removeSelected() {
	sel := m.sess.Selected()
	if sel < 0 {
		return
	}
	items := m.sess.Items()
	if err := m.sess.Remove(items[sel].ID); err != nil {
		m.log.Debug("remove ignored", logging.Error(err))
		return
	}
	if n := m.sess.Len(); n > 0 {
		_ = m.sess.Select(min(sel, n-1))
	}
}

func (m *Model) queue(cmd tea.Cmd) {
	m.cmds = append(m.cmds, cmd)
}

// flush collects commands queued during the last update along with ticks for
// newly scheduled timers.
func (m *Model) flush() tea.Cmd {
	cmds := append(m.cmds, m.sched.Drain()...)
	m.cmds = nil
	if m.sess.Mode() == session.ModePresentation && !m.framing && !m.quitting {
		m.framing = true
		cmds = append(cmds, tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} }))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
