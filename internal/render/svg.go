package render

import (
	"context"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/park285/dama-board/internal/board"
)

// RenderSVG writes the board as a standalone SVG document. Squares and pieces
// carry the theme's casa/peca classes so the output can be restyled.
func RenderSVG(ctx context.Context, w io.Writer, cells []board.Cell, opts RenderOptions) error {
	if len(cells) == 0 {
		return ErrNoCells
	}
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	if err := opts.Theme.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t := opts.Theme
	geo := NewGeometry(board.Dimension(cells), opts.SquareSize)
	boardRect := geo.BoardRect()
	radius := int(float64(geo.SquareSize) * pieceScale / 2)

	canvas := svg.New(w)
	canvas.Start(geo.Width, geo.Height)
	canvas.Title(opts.Title)
	canvas.Rect(0, 0, geo.Width, geo.Height, "fill:"+t.Colors.Background)

	canvas.Group(classAttr(t.Classes.Heading))
	canvas.Text(geo.Width/2, boardRect.Min.Y-gapToBoard-titleHeight/3, opts.Title,
		fmt.Sprintf("fill:%s;font-family:sans-serif;font-weight:bold;font-size:24px;text-anchor:middle", t.Colors.Heading))
	canvas.Gend()

	canvas.Group(classAttr(t.Classes.Board))
	for _, c := range cells {
		rect := geo.CellRect(c.Row, c.Col)
		fill := t.Colors.Light
		tone := "light"
		if c.Dark {
			fill = t.Colors.Dark
			tone = "dark"
		}
		canvas.Rect(rect.Min.X, rect.Min.Y, geo.SquareSize, geo.SquareSize,
			classAttr(t.Classes.Casa+" "+tone),
			fmt.Sprintf(`data-key="%s"`, c.Key()),
			"fill:"+fill)

		piece, ok := c.Piece()
		if !ok {
			continue
		}
		pfill := t.Colors.Player1
		if piece.Owner == board.Player2 {
			pfill = t.Colors.Player2
		}
		cx := rect.Min.X + geo.SquareSize/2
		cy := rect.Min.Y + geo.SquareSize/2
		canvas.Circle(cx, cy, radius,
			classAttr(t.Classes.Peca+" "+piece.Owner.String()),
			fmt.Sprintf(`data-owner="%s"`, piece.Owner),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:3", pfill, t.Colors.Outline))
	}
	canvas.Gend()

	if opts.Coordinates {
		style := fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:16px;text-anchor:middle", t.Colors.Coordinates)
		for i := 0; i < geo.Squares; i++ {
			center := i*geo.SquareSize + geo.SquareSize/2
			canvas.Text(boardRect.Min.X-sideMargin/2, boardRect.Min.Y+center+6, RowLabel(i, geo.Squares), style)
			canvas.Text(boardRect.Min.X+center, boardRect.Max.Y+22, ColLabel(i), style)
		}
	}

	canvas.End()
	return nil
}

func classAttr(class string) string {
	return fmt.Sprintf(`class="%s"`, class)
}
