package render

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/park285/dama-board/internal/board"
)

// RenderText draws the board with one glyph per cell, one line per row.
func RenderText(ctx context.Context, w io.Writer, cells []board.Cell, opts RenderOptions) error {
	if len(cells) == 0 {
		return ErrNoCells
	}
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	g := opts.Theme.Glyphs
	if err := opts.Theme.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n := board.Dimension(cells)
	grid := make([][]string, n)
	for i := range grid {
		grid[i] = make([]string, n)
	}
	for _, c := range cells {
		glyph := g.Light
		if c.Dark {
			glyph = g.Dark
		}
		switch c.Occupant.Owner {
		case board.Player1:
			glyph = g.Player1
		case board.Player2:
			glyph = g.Player2
		}
		grid[c.Row][c.Col] = glyph
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(opts.Title + "\n")
	for i, row := range grid {
		if opts.Coordinates {
			bw.WriteString(padLeft(RowLabel(i, n), 2) + " ")
		}
		bw.WriteString(strings.Join(row, " "))
		bw.WriteString("\n")
	}
	if opts.Coordinates {
		labels := make([]string, n)
		for j := range labels {
			labels[j] = ColLabel(j)
		}
		bw.WriteString("   " + strings.Join(labels, " ") + "\n")
	}
	return bw.Flush()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
