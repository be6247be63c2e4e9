package boardpresenter

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Presenter delivers a rendered board to an output without coupling to the command layer.
type Presenter struct {
	out    io.Writer
	base64 bool
}

func NewPresenter(out io.Writer, encodeBase64 bool) *Presenter {
	return &Presenter{out: out, base64: encodeBase64}
}

// Board writes an optional message line followed by the rendered bytes.
// Binary formats are base64 encoded when the presenter was built with encodeBase64.
func (p *Presenter) Board(message string, data []byte) error {
	if p == nil || p.out == nil {
		return nil
	}
	if text := strings.TrimSpace(message); text != "" {
		if _, err := fmt.Fprintln(p.out, text); err != nil {
			return err
		}
	}
	if len(data) == 0 {
		return nil
	}
	if p.base64 {
		encoded := base64.StdEncoding.EncodeToString(data)
		_, err := fmt.Fprintln(p.out, encoded)
		return err
	}
	_, err := p.out.Write(data)
	return err
}
