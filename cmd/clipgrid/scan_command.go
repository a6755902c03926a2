package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"clipgrid/internal/media"
)

type scanOutput struct {
	Folder string       `json:"folder"`
	Count  int          `json:"count"`
	Total  float64      `json:"total_seconds"`
	Items  []media.Item `json:"items"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "scan <folder>",
		Short: "List the video clips in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveFolder(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			items, err := ctx.scanFolder(cmd, dir, logger, !noProbe)
			if err != nil {
				return err
			}

			var total time.Duration
			for _, item := range items {
				total += item.Duration
			}
			if jsonOut {
				return writeJSON(cmd, scanOutput{Folder: dir, Count: len(items), Total: total.Seconds(), Items: items})
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No video clips found in %s\n", dir)
				return nil
			}
			fmt.Fprintln(out, renderTable(scanTable(items, total)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip ffprobe duration probing")
	return cmd
}

func scanTable(items []media.Item, total time.Duration) tableSpec {
	rows := make([][]string, 0, len(items))
	var size int64
	for i, item := range items {
		size += item.Size
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Name,
			media.FormatClipDuration(item.Duration),
			humanize.IBytes(uint64(max(item.Size, 0))),
		})
	}
	return tableSpec{
		Headers: []string{"#", "Clip", "Duration", "Size"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignRight},
		Footer:  []string{"", media.FormatCount(len(items)), media.FormatClipDuration(total), humanize.IBytes(uint64(max(size, 0)))},
	}
}
