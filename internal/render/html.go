package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/theme"
)

//go:embed templates/board.html.tmpl
var templateFiles embed.FS

var pageTemplate = template.Must(
	template.New("board.html.tmpl").Option("missingkey=error").ParseFS(templateFiles, "templates/board.html.tmpl"),
)

type htmlCell struct {
	Key       string
	Tone      string
	Fill      string
	Owner     string
	PieceFill string
}

type htmlPage struct {
	Title    string
	Classes  theme.Classes
	Colors   theme.Colors
	Squares  int
	SquarePx int
	PiecePx  int
	Cells    []htmlCell
}

// RenderHTML writes a page with a heading and one container per cell, each
// element tagged with the class the theme maps its style role to.
func RenderHTML(ctx context.Context, w io.Writer, cells []board.Cell, opts RenderOptions) error {
	if len(cells) == 0 {
		return ErrNoCells
	}
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	t := opts.Theme
	if err := t.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	page := htmlPage{
		Title:    opts.Title,
		Classes:  t.Classes,
		Colors:   t.Colors,
		Squares:  board.Dimension(cells),
		SquarePx: opts.SquareSize,
		PiecePx:  int(float64(opts.SquareSize) * pieceScale),
		Cells:    make([]htmlCell, 0, len(cells)),
	}
	for _, c := range cells {
		hc := htmlCell{Key: c.Key(), Tone: "light", Fill: t.Colors.Light}
		if c.Dark {
			hc.Tone = "dark"
			hc.Fill = t.Colors.Dark
		}
		if piece, ok := c.Piece(); ok {
			hc.Owner = piece.Owner.String()
			hc.PieceFill = t.Colors.Player1
			if piece.Owner == board.Player2 {
				hc.PieceFill = t.Colors.Player2
			}
		}
		page.Cells = append(page.Cells, hc)
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("execute board template: %w", err)
	}
	return nil
}
