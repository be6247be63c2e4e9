package theme

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const Default = "classic"

var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// Classes maps the logical style roles of the board page to presentation classes.
type Classes struct {
	Container string
	Heading   string
	Board     string
	Casa      string
	Peca      string
}

// Colors holds "#rrggbb" values.
type Colors struct {
	Dark        string
	Light       string
	Player1     string
	Player2     string
	Outline     string
	Background  string
	Heading     string
	Coordinates string
}

// Glyphs are used by the text renderer.
type Glyphs struct {
	Dark    string
	Light   string
	Player1 string
	Player2 string
}

type Theme struct {
	Name    string
	Classes Classes
	Colors  Colors
	Glyphs  Glyphs
}

// fields binds the flattened "<group>.<field>" keys to Theme slots.
func (t *Theme) fields() map[string]*string {
	return map[string]*string{
		"classes.container":  &t.Classes.Container,
		"classes.heading":    &t.Classes.Heading,
		"classes.board":      &t.Classes.Board,
		"classes.casa":       &t.Classes.Casa,
		"classes.peca":       &t.Classes.Peca,
		"colors.dark":        &t.Colors.Dark,
		"colors.light":       &t.Colors.Light,
		"colors.player1":     &t.Colors.Player1,
		"colors.player2":     &t.Colors.Player2,
		"colors.outline":     &t.Colors.Outline,
		"colors.background":  &t.Colors.Background,
		"colors.heading":     &t.Colors.Heading,
		"colors.coordinates": &t.Colors.Coordinates,
		"glyphs.dark":        &t.Glyphs.Dark,
		"glyphs.light":       &t.Glyphs.Light,
		"glyphs.player1":     &t.Glyphs.Player1,
		"glyphs.player2":     &t.Glyphs.Player2,
	}
}

// Validate checks that every slot is filled, colours parse and the two
// square colours and the two player colours can be told apart.
func (t *Theme) Validate() error {
	for key, v := range t.fields() {
		if strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w: %s: %s is empty", ErrInvalidTheme, t.Name, key)
		}
		if strings.HasPrefix(key, "colors.") {
			if _, err := ParseHex(*v); err != nil {
				return fmt.Errorf("%w: %s: %s: %v", ErrInvalidTheme, t.Name, key, err)
			}
		}
	}
	if MustHex(t.Colors.Dark) == MustHex(t.Colors.Light) {
		return fmt.Errorf("%w: %s: dark and light squares share a colour", ErrInvalidTheme, t.Name)
	}
	if MustHex(t.Colors.Player1) == MustHex(t.Colors.Player2) {
		return fmt.Errorf("%w: %s: players share a colour", ErrInvalidTheme, t.Name)
	}
	glyphs := []string{t.Glyphs.Dark, t.Glyphs.Light, t.Glyphs.Player1, t.Glyphs.Player2}
	seen := make(map[string]bool, len(glyphs))
	for _, g := range glyphs {
		if seen[g] {
			return fmt.Errorf("%w: %s: glyph %q used twice", ErrInvalidTheme, t.Name, g)
		}
		seen[g] = true
	}
	return nil
}

// ParseHex parses "#rrggbb" into an opaque colour.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("colour %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustHex is for colours that already passed Validate.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
