package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipgrid/internal/history"
	"clipgrid/internal/logging"
	"clipgrid/internal/media"
	"clipgrid/internal/order"
)

func newOrderCommand(ctx *commandContext) *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Manage clip-order files and their history",
	}
	orderCmd.AddCommand(newOrderExportCommand(ctx))
	orderCmd.AddCommand(newOrderCheckCommand(ctx))
	orderCmd.AddCommand(newOrderHistoryCommand(ctx))
	return orderCmd
}

func newOrderExportCommand(ctx *commandContext) *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "export <folder>",
		Short: "Write the folder's current order as an order file",
		Long: "Write the most recent saved order for the folder, or natural filename " +
			"order when none applies, to the folder's order file. The export " +
			"directory is used when the folder is not writable.",
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
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			items, err := ctx.scanFolder(cmd, dir, logger, false)
			if err != nil {
				return err
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			names, source := currentOrder(cmd.Context(), store, dir, media.Names(items), logger)
			if toStdout {
				fmt.Fprint(cmd.OutOrStdout(), order.Format(names))
				return nil
			}

			res, err := order.Save(cmd.Context(), order.Target{
				Dir:         dir,
				FileName:    cfg.Order.FileName,
				FallbackDir: cfg.Paths.ExportDir,
				LockDir:     cfg.LockDir(),
			}, names)
			if err != nil {
				return fmt.Errorf("write order file: %w", err)
			}
			if _, err := store.RecordOrder(cmd.Context(), history.Entry{
				Folder:   dir,
				Names:    names,
				FilePath: res.Path,
				Source:   history.SourceExport,
			}); err != nil {
				return fmt.Errorf("record order: %w", err)
			}
			logger.Info("order exported",
				logging.String("path", res.Path),
				logging.Bool("fallback", res.Fallback),
				logging.Int("count", res.Names),
				logging.String("order_source", source),
				logging.String(logging.FieldEventType, "order_exported"),
			)

			out := cmd.OutOrStdout()
			if res.Fallback {
				fmt.Fprintf(out, "Folder is not writable; wrote %s to %s\n", media.FormatCount(res.Names), res.Path)
				return nil
			}
			fmt.Fprintf(out, "Wrote %s to %s (%s order)\n", media.FormatCount(res.Names), res.Path, source)
			return nil
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the order instead of writing a file")
	return cmd
}

// currentOrder returns the newest saved order for dir when it still matches
// the folder, otherwise the natural order.
func currentOrder(ctx context.Context, store *history.Store, dir string, natural []string, logger *slog.Logger) ([]string, string) {
	latest, err := store.LatestOrder(ctx, dir)
	if err != nil {
		logging.WarnWithContext(logger, "order history unavailable", "history_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "natural order used"),
		)
		return natural, "natural"
	}
	if latest == nil {
		return natural, "natural"
	}
	res := order.Reconcile(latest.Names, natural)
	if !res.Valid() {
		logging.WarnWithContext(logger, "saved order no longer matches folder", "history_stale",
			logging.Int("issues", len(res.Issues)),
			logging.String(logging.FieldImpact, "natural order used"),
		)
		return natural, "natural"
	}
	return res.Order, "saved"
}

func newOrderCheckCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "check <folder>",
		Short: "Check an order file against the clips in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := resolveFolder(args[0])
			if err != nil {
				return err
			}
			path := strings.TrimSpace(filePath)
			if path == "" {
				path = filepath.Join(dir, cfg.Order.FileName)
			}
			lines, err := order.ReadFile(path)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			items, err := ctx.scanFolder(cmd, dir, logger, false)
			if err != nil {
				return err
			}

			res := order.Reconcile(lines, media.Names(items))
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if res.Valid() {
				fmt.Fprintln(out, renderStatusLine("Order", statusOK, fmt.Sprintf("%s matches %s", filepath.Base(path), media.FormatCount(len(res.Order))), colorize))
				return nil
			}
			for _, line := range renderSectionHeader("Could not apply order due to the following issues", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, msg := range res.Messages() {
				fmt.Fprintln(out, colorizeText(msg, statusError, colorize))
				fmt.Fprintln(out)
			}
			return fmt.Errorf("%s has %d %s", filepath.Base(path), len(res.Issues), pluralize(len(res.Issues), "issue"))
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Order file to check (defaults to the folder's order file)")
	return cmd
}

func newOrderHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history <folder>",
		Short: "List saved orders for a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveFolder(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.ListOrders(cmd.Context(), dir, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No saved orders for %s\n", dir)
				return nil
			}
			fmt.Fprintln(out, renderTable(historyTable(entries)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

const previewNames = 3

func historyTable(entries []history.Entry) tableSpec {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			string(e.Source),
			media.FormatCount(len(e.Names)),
			previewOrder(e.Names),
			e.FilePath,
		})
	}
	return tableSpec{
		Headers: []string{"ID", "Saved", "Source", "Clips", "Starts with", "File"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	}
}

func previewOrder(names []string) string {
	if len(names) <= previewNames {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:previewNames], ", ") + fmt.Sprintf(", +%d more", len(names)-previewNames)
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
