package board

import (
	"fmt"
	"strings"
)

// Owner identifies the side a piece belongs to.
type Owner string

const (
	NoOwner Owner = ""
	Player1 Owner = "player1"
	Player2 Owner = "player2"
)

func (o Owner) String() string {
	if o == NoOwner {
		return "none"
	}
	return string(o)
}

// ParseOwner accepts "player1"/"player2" as well as the short forms "1"/"2" and "p1"/"p2".
func ParseOwner(s string) (Owner, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player1", "p1", "1":
		return Player1, nil
	case "player2", "p2", "2":
		return Player2, nil
	default:
		return NoOwner, fmt.Errorf("unknown owner %q", s)
	}
}

// Piece is a player's token. The zero Piece means "no piece".
type Piece struct {
	Owner Owner
}

// Cell is one square of the board.
type Cell struct {
	Row      int
	Col      int
	Dark     bool
	Occupant Piece
}

func (c Cell) Occupied() bool { return c.Occupant.Owner != NoOwner }

// Piece returns the occupying piece, if any.
func (c Cell) Piece() (Piece, bool) {
	return c.Occupant, c.Occupied()
}

// Key is the stable per-render identity of the cell, "row-col".
func (c Cell) Key() string { return fmt.Sprintf("%d-%d", c.Row, c.Col) }

// Counts reports how many pieces each side has on a generated board.
type Counts struct {
	Player1 int
	Player2 int
}

func (c Counts) Total() int { return c.Player1 + c.Player2 }
