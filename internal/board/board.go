package board

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid board configuration")

const (
	maxSize = 26
)

// Layout describes the board dimension and how many rows each side fills at the start.
type Layout struct {
	Size      int
	PieceRows int
}

// Standard is the 8x8 board with three rows of pieces per side.
var Standard = Layout{Size: 8, PieceRows: 3}

// NewLayout fills zero values: size 0 is the standard size, rows 0 leaves
// the two middle rows empty ((size-2)/2 rows per side). The result is not validated.
func NewLayout(size, pieceRows int) Layout {
	if size == 0 {
		size = Standard.Size
	}
	if pieceRows == 0 {
		pieceRows = (size - 2) / 2
	}
	return Layout{Size: size, PieceRows: pieceRows}
}

// Generate returns the 64 cells of the standard board in row-major order.
func Generate() []Cell {
	cells, _ := Standard.Generate()
	return cells
}

func (l Layout) Validate() error {
	if l.Size < 2 || l.Size > maxSize {
		return fmt.Errorf("%w: size %d out of range [2,%d]", ErrInvalidConfiguration, l.Size, maxSize)
	}
	if l.Size%2 != 0 {
		return fmt.Errorf("%w: size %d must be even", ErrInvalidConfiguration, l.Size)
	}
	if l.PieceRows < 1 {
		return fmt.Errorf("%w: piece rows %d must be positive", ErrInvalidConfiguration, l.PieceRows)
	}
	// at least one empty row must separate the two sides
	if 2*l.PieceRows >= l.Size {
		return fmt.Errorf("%w: %d piece rows leave no empty row on a %dx%d board", ErrInvalidConfiguration, l.PieceRows, l.Size, l.Size)
	}
	return nil
}

// Generate lays out the board row by row, columns inner. The order is the display order.
func (l Layout) Generate() ([]Cell, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	cells := make([]Cell, 0, l.Size*l.Size)
	for i := 0; i < l.Size; i++ {
		for j := 0; j < l.Size; j++ {
			dark := (i+j)%2 != 0
			var occupant Piece
			if dark && i < l.PieceRows {
				occupant = Piece{Owner: Player1}
			} else if dark && i >= l.Size-l.PieceRows {
				occupant = Piece{Owner: Player2}
			}
			cells = append(cells, Cell{Row: i, Col: j, Dark: dark, Occupant: occupant})
		}
	}
	return cells, nil
}

// Dimension infers the side length of a square board from its cells.
func Dimension(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if c.Row+1 > n {
			n = c.Row + 1
		}
		if c.Col+1 > n {
			n = c.Col + 1
		}
	}
	return n
}

// CellAt finds the cell at (row, col).
func CellAt(cells []Cell, row, col int) (Cell, bool) {
	n := Dimension(cells)
	if idx := row*n + col; row >= 0 && col >= 0 && row < n && col < n && idx < len(cells) {
		if c := cells[idx]; c.Row == row && c.Col == col {
			return c, true
		}
	}
	for _, c := range cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

func Count(cells []Cell) Counts {
	var out Counts
	for _, c := range cells {
		switch c.Occupant.Owner {
		case Player1:
			out.Player1++
		case Player2:
			out.Player2++
		}
	}
	return out
}
