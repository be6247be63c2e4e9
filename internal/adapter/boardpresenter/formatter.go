package boardpresenter

import (
	"fmt"
	"strings"

	"github.com/park285/dama-board/pkg/boarddto"
)

// Formatter renders board DTOs into short human-readable text blocks.
type Formatter struct {
	title string
}

func NewFormatter(title string) *Formatter {
	return &Formatter{title: strings.TrimSpace(title)}
}

// Summary describes the board setup, e.g. for a CLI status line.
func (f *Formatter) Summary(b *boarddto.Board, themeName string) string {
	if b == nil {
		return ""
	}
	title := "Dama"
	if f != nil && f.title != "" {
		title = f.title
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("♟️ %s %dx%d\n", title, b.Size, b.Size))
	sb.WriteString(fmt.Sprintf("• player1 %d pieces (rows 1-%d)\n", b.Counts.Player1, b.PieceRows))
	sb.WriteString(fmt.Sprintf("• player2 %d pieces (rows %d-%d)\n", b.Counts.Player2, b.Size-b.PieceRows+1, b.Size))
	if t := strings.TrimSpace(themeName); t != "" {
		sb.WriteString("• theme " + t + "\n")
	}
	sb.WriteString(fmt.Sprintf("• %d squares, %d occupied", len(b.Cells), b.Counts.Total))
	return sb.String()
}
