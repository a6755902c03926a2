package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipgrid/internal/history"
	"clipgrid/internal/logging"
	"clipgrid/internal/order"
	"clipgrid/internal/session"
)

const ioTimeout = 10 * time.Second

type orderSavedMsg struct {
	result order.SaveResult
	err    error
	// historyErr is set when the file was written but could not be recorded.
	historyErr error
}

type orderLoadedMsg struct {
	path  string
	lines []string
	err   error
}

type historyMsg struct {
	op  string
	err error
}

func (m *Model) orderFileName() string {
	if name := m.cfg.Order.FileName; name != "" {
		return name
	}
	return order.DefaultFileName
}

// saveOrder writes the current order next to the clips, falling back to the
// export directory when the folder is read-only.
func (m *Model) saveOrder() tea.Cmd {
	target := order.Target{
		Dir:         m.folder,
		FileName:    m.orderFileName(),
		FallbackDir: m.cfg.Paths.ExportDir,
		LockDir:     m.cfg.LockDir(),
	}
	names := m.sess.Names()
	store := m.store
	folder := m.folder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		res, err := order.Save(ctx, target, names)
		if err != nil {
			return orderSavedMsg{err: err}
		}
		msg := orderSavedMsg{result: res}
		if store != nil {
			_, msg.historyErr = store.RecordOrder(ctx, history.Entry{
				Folder:   folder,
				Names:    names,
				FilePath: res.Path,
				Source:   history.SourceSave,
			})
		}
		return msg
	}
}

func (m *Model) handleSaved(msg orderSavedMsg) {
	if msg.err != nil {
		logging.ErrorWithContext(m.log, "order save failed", "order_save_failed",
			logging.Error(msg.err),
			logging.String(logging.FieldErrorHint, "check folder permissions and export_dir"),
			logging.String(logging.FieldImpact, "order not saved"),
		)
		m.sess.Notify("Save failed: "+msg.err.Error(), session.StatusTimeout)
		return
	}
	if msg.historyErr != nil {
		logging.WarnWithContext(m.log, "order history not recorded", "history_write_failed",
			logging.Error(msg.historyErr),
			logging.String(logging.FieldImpact, "order missing from history"),
		)
	}
	m.log.Info("order saved",
		logging.String("path", msg.result.Path),
		logging.Bool("fallback", msg.result.Fallback),
		logging.Int("count", msg.result.Names),
		logging.String(logging.FieldEventType, "order_saved"),
	)
	name := filepath.Base(msg.result.Path)
	if msg.result.Fallback {
		m.sess.Notify(fmt.Sprintf("Downloaded %s.", name), session.StatusTimeout)
		return
	}
	m.sess.Notify(fmt.Sprintf("Saved %s to the selected folder.", name), session.StatusTimeout)
}

// loadOrder reads the order file from the clip folder.
func (m *Model) loadOrder() tea.Cmd {
	path := filepath.Join(m.folder, m.orderFileName())
	return func() tea.Msg {
		lines, err := order.ReadFile(path)
		return orderLoadedMsg{path: path, lines: lines, err: err}
	}
}

func (m *Model) handleLoaded(msg orderLoadedMsg) {
	if msg.err != nil {
		logging.WarnWithContext(m.log, "order file unreadable", "order_read_failed",
			logging.String("path", msg.path),
			logging.Error(msg.err),
			logging.String(logging.FieldImpact, "current order kept"),
		)
		m.sess.Notify(fmt.Sprintf("Could not read %s.", filepath.Base(msg.path)), session.StatusTimeout)
		return
	}
	res, err := m.sess.ApplyOrderLines(msg.lines)
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			m.issues = res.Messages()
			m.sess.Notify(fmt.Sprintf("Order not applied: %d %s.", len(res.Issues), plural(len(res.Issues), "issue")), session.StatusTimeout)
			return
		}
		m.sess.Notify("Order not applied: "+err.Error(), session.StatusTimeout)
		return
	}
	m.issues = nil
	if m.store != nil {
		m.queue(m.recordImport(msg.path, res.Order))
	}
}

func (m *Model) recordImport(path string, names []string) tea.Cmd {
	store := m.store
	folder := m.folder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		_, err := store.RecordOrder(ctx, history.Entry{
			Folder:   folder,
			Names:    names,
			FilePath: path,
			Source:   history.SourceImport,
		})
		return historyMsg{op: "record import", err: err}
	}
}

// slotsChanged persists a typed slot count for the folder. It runs inside
// Update, so the write is queued as a command.
func (m *Model) slotsChanged(n int) {
	if m.store == nil {
		return
	}
	store := m.store
	folder := m.folder
	m.queue(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return historyMsg{op: "save slots", err: store.SaveSlots(ctx, folder, n)}
	})
}

func (m *Model) handleHistory(msg historyMsg) {
	if msg.err == nil {
		return
	}
	logging.WarnWithContext(m.log, "history update failed", "history_write_failed",
		logging.String("op", msg.op),
		logging.Error(msg.err),
		logging.String(logging.FieldImpact, "preference not remembered"),
	)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
