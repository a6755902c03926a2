package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clipgrid/internal/clock"
	"clipgrid/internal/config"
	"clipgrid/internal/history"
	"clipgrid/internal/logging"
	"clipgrid/internal/media"
	"clipgrid/internal/order"
	"clipgrid/internal/playback"
	"clipgrid/internal/session"
	"clipgrid/internal/tui"
)

var errNoClips = errors.New("no video clips found")

const (
	headlessWidth  = 1920
	headlessHeight = 1080
)

func newPresentCommand(ctx *commandContext) *cobra.Command {
	var (
		slots     int
		headless  bool
		width     float64
		height    float64
		runFor    time.Duration
		noRestore bool
	)

	cmd := &cobra.Command{
		Use:   "present <folder>",
		Short: "Open a folder of clips in the interactive grid",
		Long: "Open the interactive grid for a folder. Press f for presentation mode, " +
			"type digits to change the slot count, and s to save the order.\n\n" +
			"With --headless the presentation rotation runs without a UI and logs " +
			"each rotation until interrupted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := resolveFolder(args[0])
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, err := ctx.logger(headless)
			if err != nil {
				return err
			}
			items, err := ctx.scanFolder(cmd, dir, logger, true)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("%w in %s", errNoClips, dir)
			}

			store, err := ctx.openHistory()
			if err != nil {
				logging.WarnWithContext(logger, "order history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "orders and slot counts will not be remembered"),
				)
				store = nil
			} else {
				defer store.Close()
			}

			if store != nil && !noRestore {
				items = restoreOrder(runCtx, store, dir, items, logger)
				if slots <= 0 {
					if saved, ok, err := store.Slots(runCtx, dir); err == nil && ok {
						slots = saved
					}
				}
			}

			if headless {
				if width <= 0 {
					width = headlessWidth
				}
				if height <= 0 {
					height = headlessHeight
				}
				return runHeadless(runCtx, cmd.OutOrStdout(), headlessRun{
					cfg:    cfg,
					folder: dir,
					items:  items,
					store:  store,
					logger: logger,
					slots:  slots,
					width:  width,
					height: height,
					runFor: runFor,
				})
			}

			model := tui.New(tui.Options{
				Config: cfg,
				Folder: dir,
				Items:  items,
				Store:  store,
				Logger: logger,
				Slots:  slots,
			})
			return tui.Run(runCtx, model)
		},
	}

	cmd.Flags().IntVar(&slots, "slots", 0, "Presentation slot count (defaults to the folder's saved count or config)")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run presentation rotation without a UI")
	cmd.Flags().Float64Var(&width, "width", 0, "Headless viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "Headless viewport height in pixels")
	cmd.Flags().DurationVar(&runFor, "for", 0, "Stop a headless run after this long (0 runs until interrupted)")
	cmd.Flags().BoolVar(&noRestore, "no-restore", false, "Ignore the folder's saved order and slot count")
	return cmd
}

// restoreOrder applies the newest saved order when it still matches the
// folder's clips.
func restoreOrder(ctx context.Context, store *history.Store, dir string, items []media.Item, logger *slog.Logger) []media.Item {
	latest, err := store.LatestOrder(ctx, dir)
	if err != nil || latest == nil {
		return items
	}
	res := order.Reconcile(latest.Names, media.Names(items))
	if !res.Valid() {
		logger.Info("saved order skipped; folder contents changed",
			logging.Int("issues", len(res.Issues)),
			logging.String(logging.FieldEventType, "order_restore_skipped"),
		)
		return items
	}
	reordered, err := order.Apply(items, media.ItemName, res.Order)
	if err != nil {
		return items
	}
	logger.Info("saved order restored",
		logging.Int("count", len(reordered)),
		logging.String(logging.FieldEventType, "order_restored"),
	)
	return reordered
}

type headlessRun struct {
	cfg    *config.Config
	folder string
	items  []media.Item
	store  *history.Store
	logger *slog.Logger
	slots  int
	width  float64
	height float64
	runFor time.Duration
}

// runHeadless drives a presentation session on a clock.Loop. Every session
// callback runs on this goroutine inside loop.Run.
func runHeadless(ctx context.Context, out io.Writer, run headlessRun) error {
	if run.runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, run.runFor)
		defer cancel()
	}

	loop := clock.NewLoop(64)
	var sess *session.GridSession
	player := &loggingPlayer{
		Simulator: playback.NewSimulator(loop, func(slot int) time.Duration {
			items := sess.Items()
			if slot < 0 || slot >= len(items) {
				return 0
			}
			return items[slot].Duration
		}, run.cfg.DefaultClipDuration()),
		log: logging.NewComponentLogger(run.logger, "headless"),
		name: func(slot int) string {
			items := sess.Items()
			if slot < 0 || slot >= len(items) {
				return ""
			}
			return items[slot].Name
		},
	}

	opts := session.OptionsFromConfig(run.cfg)
	opts.Clock = loop
	opts.Player = player
	opts.Logger = run.logger
	opts.OnSlots = func(n int) {
		if run.store == nil {
			return
		}
		if err := run.store.SaveSlots(ctx, run.folder, n); err != nil {
			run.logger.Warn("slot count not saved", logging.Error(err))
		}
	}
	sess = session.New(run.items, opts)
	if run.slots > 0 {
		sess.SetSlots(run.slots)
	}

	loop.Post(func() {
		sess.Resize(run.width, run.height)
		sess.EnterPresentation()
		fmt.Fprintf(out, "Presenting %s from %s (%s)\n", media.FormatCount(sess.Len()), run.folder, sess.PresentationSummary())
	})

	err := loop.Run(ctx)
	sess.ExitPresentation()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// loggingPlayer reports rotations as they happen.
type loggingPlayer struct {
	*playback.Simulator
	log  *slog.Logger
	name func(slot int) string
}

func (p *loggingPlayer) PlayToEnd(slot int, done func()) func() {
	p.log.Info("rotation started",
		logging.Int(logging.FieldSlot, slot),
		logging.String(logging.FieldItemName, p.name(slot)),
		logging.String(logging.FieldEventType, "rotation_started"),
	)
	return p.Simulator.PlayToEnd(slot, func() {
		p.log.Info("rotation finished",
			logging.Int(logging.FieldSlot, slot),
			logging.String(logging.FieldItemName, p.name(slot)),
			logging.String(logging.FieldEventType, "rotation_finished"),
		)
		done()
	})
}
