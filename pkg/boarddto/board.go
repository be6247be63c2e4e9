package boarddto

// Cell is the wire form of one square. Occupant is nil for an empty square.
type Cell struct {
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Key      string  `json:"key"`
	Dark     bool    `json:"dark"`
	Occupant *string `json:"occupant"`
}

type Counts struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
	Total   int `json:"total"`
}

type Board struct {
	Size      int    `json:"size"`
	PieceRows int    `json:"piece_rows"`
	Cells     []Cell `json:"cells"`
	Counts    Counts `json:"counts"`
}
