package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipgrid/internal/config"
	"clipgrid/internal/layout"
)

// Pixels per terminal cell, matching the interactive UI.
const (
	pixelsPerColumn = 8
	pixelsPerRow    = 16
)

const (
	fallbackViewportWidth  = 1280
	fallbackViewportHeight = 720
)

type layoutOutput struct {
	Mode          string  `json:"mode"`
	Count         int     `json:"count"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	AreaWidth     float64 `json:"area_width"`
	AreaHeight    float64 `json:"area_height"`
	Gap           float64 `json:"gap"`
	Columns       int     `json:"columns"`
	Rows          int     `json:"rows"`
	CellWidth     float64 `json:"cell_width"`
	CellHeight    float64 `json:"cell_height"`
	TargetVisible int     `json:"target_visible,omitempty"`
	ReservedCell  *int    `json:"reserved_cell,omitempty"`
}

func newLayoutCommand(ctx *commandContext) *cobra.Command {
	var (
		count   int
		width   float64
		height  float64
		gap     float64
		slots   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "layout [folder]",
		Short: "Show the grid layout for a clip count and viewport",
		Long: "Compute the grid the viewer would use. With --slots the presentation " +
			"grid is shown instead. Width and height are in pixels and default to " +
			"the terminal size (8x16 pixels per character cell).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 && !cmd.Flags().Changed("count") {
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
				count = len(items)
			}
			if count < 0 {
				return errors.New("--count must not be negative")
			}
			if !cmd.Flags().Changed("gap") {
				gap = cfg.Layout.Gap
			}
			if width <= 0 || height <= 0 {
				w, h := defaultViewport()
				if width <= 0 {
					width = w
				}
				if height <= 0 {
					height = h
				}
			}

			result := computeLayout(cfg.Layout, count, width, height, gap, slots)
			if jsonOut {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(layoutTable(result)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of clips (defaults to the folder's clip count)")
	cmd.Flags().Float64Var(&width, "width", 0, "Viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "Viewport height in pixels")
	cmd.Flags().Float64Var(&gap, "gap", 0, "Gap between tiles in pixels (defaults to config)")
	cmd.Flags().IntVar(&slots, "slots", 0, "Show the presentation grid for this many slots")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func defaultViewport() (float64, float64) {
	if cols, rows, ok := terminalSize(); ok {
		return float64(cols * pixelsPerColumn), float64(rows * pixelsPerRow)
	}
	return fallbackViewportWidth, fallbackViewportHeight
}

// computeLayout applies padding and, outside presentation mode, the toolbar
// before running the optimizer.
func computeLayout(metrics config.Layout, count int, width, height, gap float64, slots int) layoutOutput {
	out := layoutOutput{
		Mode:      "grid",
		Count:     count,
		Width:     width,
		Height:    height,
		Gap:       gap,
		AreaWidth: width - metrics.Padding,
	}
	var grid layout.Result
	if slots > 0 {
		out.Mode = "presentation"
		out.Count = max(2, slots)
		out.AreaHeight = height - metrics.Padding
		pres := layout.BestPresentationGrid(slots, out.AreaWidth, out.AreaHeight, gap)
		grid = pres.Result
		out.TargetVisible = pres.TargetVisible
		reserved := pres.ReservedCell()
		out.ReservedCell = &reserved
	} else {
		out.AreaHeight = height - metrics.Padding - metrics.ToolbarHeight
		grid = layout.BestGrid(count, out.AreaWidth, out.AreaHeight, gap)
	}
	out.Columns = grid.Columns
	out.Rows = grid.Rows
	out.CellHeight = grid.CellHeight
	out.CellWidth = max(0, (out.AreaWidth-gap*float64(grid.Columns-1))/float64(max(1, grid.Columns)))
	return out
}

func layoutTable(l layoutOutput) tableSpec {
	px := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
	rows := [][]string{
		{"Mode", l.Mode},
		{"Items", strconv.Itoa(l.Count)},
		{"Viewport", fmt.Sprintf("%s x %s", px(l.Width), px(l.Height))},
		{"Grid area", fmt.Sprintf("%s x %s", px(l.AreaWidth), px(l.AreaHeight))},
		{"Gap", px(l.Gap)},
		{"Columns", strconv.Itoa(l.Columns)},
		{"Rows", strconv.Itoa(l.Rows)},
		{"Cell", fmt.Sprintf("%s x %s", px(l.CellWidth), px(l.CellHeight))},
	}
	if l.Mode == "presentation" {
		rows[1][0] = "Slots"
		rows = append(rows, []string{"Visible", strconv.Itoa(l.TargetVisible)})
		if l.ReservedCell != nil {
			rows = append(rows, []string{"Reserved cell", strconv.Itoa(*l.ReservedCell)})
		}
	}
	return tableSpec{
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}
}
