package boardpresenter

import (
	"github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/pkg/boarddto"
)

func ToDTOBoard(layout board.Layout, cells []board.Cell) *boarddto.Board {
	out := &boarddto.Board{
		Size:      layout.Size,
		PieceRows: layout.PieceRows,
		Cells:     make([]boarddto.Cell, 0, len(cells)),
	}
	for _, c := range cells {
		out.Cells = append(out.Cells, ToDTOCell(c))
	}
	counts := board.Count(cells)
	out.Counts = boarddto.Counts{Player1: counts.Player1, Player2: counts.Player2, Total: counts.Total()}
	return out
}

func ToDTOCell(c board.Cell) boarddto.Cell {
	dto := boarddto.Cell{Row: c.Row, Col: c.Col, Key: c.Key(), Dark: c.Dark}
	if piece, ok := c.Piece(); ok {
		owner := piece.Owner.String()
		dto.Occupant = &owner
	}
	return dto
}
