package board

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerateCoversEveryPositionOnce(t *testing.T) {
	cells := Generate()
	if len(cells) != 64 {
		t.Fatalf("expected 64 cells, got %d", len(cells))
	}
	seen := make(map[[2]int]bool)
	for idx, c := range cells {
		if c.Row < 0 || c.Row > 7 || c.Col < 0 || c.Col > 7 {
			t.Fatalf("cell %d out of range: %+v", idx, c)
		}
		key := [2]int{c.Row, c.Col}
		if seen[key] {
			t.Fatalf("duplicate cell %v", key)
		}
		seen[key] = true
		// row-major display order
		if want := c.Row*8 + c.Col; want != idx {
			t.Fatalf("cell (%d,%d) at index %d, want %d", c.Row, c.Col, idx, want)
		}
	}
}

func TestGenerateDarkParityAndOccupants(t *testing.T) {
	for _, c := range Generate() {
		wantDark := (c.Row+c.Col)%2 != 0
		if c.Dark != wantDark {
			t.Fatalf("cell (%d,%d): dark=%v want %v", c.Row, c.Col, c.Dark, wantDark)
		}
		var want Owner
		switch {
		case c.Dark && c.Row < 3:
			want = Player1
		case c.Dark && c.Row > 4:
			want = Player2
		}
		if c.Occupant.Owner != want {
			t.Fatalf("cell (%d,%d): occupant=%s want %s", c.Row, c.Col, c.Occupant.Owner, want)
		}
		if (c.Row == 3 || c.Row == 4 || !c.Dark) && c.Occupied() {
			t.Fatalf("cell (%d,%d) must be empty", c.Row, c.Col)
		}
	}
}

func TestGenerateScenarios(t *testing.T) {
	cells := Generate()
	tests := []struct {
		row, col int
		dark     bool
		owner    Owner
	}{
		{0, 1, true, Player1},
		{3, 2, true, NoOwner},
		{5, 0, true, Player2},
		{0, 0, false, NoOwner},
		{7, 6, true, Player2},
		{4, 4, false, NoOwner},
	}
	for _, tt := range tests {
		c, ok := CellAt(cells, tt.row, tt.col)
		if !ok {
			t.Fatalf("cell (%d,%d) not found", tt.row, tt.col)
		}
		if c.Dark != tt.dark || c.Occupant.Owner != tt.owner {
			t.Fatalf("cell (%d,%d) = dark:%v owner:%s, want dark:%v owner:%s", tt.row, tt.col, c.Dark, c.Occupant.Owner, tt.dark, tt.owner)
		}
	}
}

func TestGenerateIdempotent(t *testing.T) {
	if !reflect.DeepEqual(Generate(), Generate()) {
		t.Fatalf("two generations differ")
	}
}

func TestGenerateCounts(t *testing.T) {
	cells := Generate()
	counts := Count(cells)
	if counts.Player1 != 12 || counts.Player2 != 12 || counts.Total() != 24 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	perRow := make(map[int]int)
	for _, c := range cells {
		if c.Occupied() {
			perRow[c.Row]++
		}
	}
	for _, row := range []int{0, 1, 2, 5, 6, 7} {
		if perRow[row] != 4 {
			t.Fatalf("row %d has %d pieces, want 4", row, perRow[row])
		}
	}
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		ok     bool
	}{
		{"standard", Standard, true},
		{"international", Layout{Size: 10, PieceRows: 4}, true},
		{"tiny", Layout{Size: 4, PieceRows: 1}, true},
		{"odd size", Layout{Size: 9, PieceRows: 3}, false},
		{"zero size", Layout{}, false},
		{"too large", Layout{Size: 28, PieceRows: 3}, false},
		{"no rows", Layout{Size: 8, PieceRows: 0}, false},
		{"no empty row", Layout{Size: 8, PieceRows: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.layout.Generate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestLayoutInternational(t *testing.T) {
	cells, err := Layout{Size: 10, PieceRows: 4}.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cells) != 100 || Dimension(cells) != 10 {
		t.Fatalf("unexpected board: %d cells, dimension %d", len(cells), Dimension(cells))
	}
	if c := Count(cells); c.Player1 != 20 || c.Player2 != 20 {
		t.Fatalf("unexpected counts: %+v", c)
	}
}

func TestCellKeyAndOwnerParsing(t *testing.T) {
	c, _ := CellAt(Generate(), 2, 5)
	if c.Key() != "2-5" {
		t.Fatalf("unexpected key %q", c.Key())
	}
	for in, want := range map[string]Owner{"player1": Player1, "P2": Player2, "1": Player1} {
		got, err := ParseOwner(in)
		if err != nil || got != want {
			t.Fatalf("ParseOwner(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseOwner("red"); err == nil {
		t.Fatalf("expected error for unknown owner")
	}
	if _, ok := CellAt(Generate(), 8, 0); ok {
		t.Fatalf("expected no cell outside the board")
	}
}

func TestNewLayoutDefaults(t *testing.T) {
	cases := []struct {
		size, rows int
		want       Layout
	}{
		{0, 0, Standard},
		{10, 0, Layout{Size: 10, PieceRows: 4}},
		{0, 2, Layout{Size: 8, PieceRows: 2}},
		{12, 3, Layout{Size: 12, PieceRows: 3}},
	}
	for _, tc := range cases {
		if got := NewLayout(tc.size, tc.rows); got != tc.want {
			t.Fatalf("NewLayout(%d, %d) = %+v, want %+v", tc.size, tc.rows, got, tc.want)
		}
	}
}
