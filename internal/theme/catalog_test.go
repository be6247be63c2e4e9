package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLoadsEmbeddedThemes(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if names := c.Names(); len(names) != 2 || names[0] != "classic" || names[1] != "wood" {
		t.Fatalf("unexpected themes: %v", names)
	}
	th, err := c.Get("")
	if err != nil {
		t.Fatalf("Get default: %v", err)
	}
	if th.Name != Default || th.Colors.Dark != "#000000" || th.Colors.Light != "#ffffff" {
		t.Fatalf("unexpected default theme: %+v", th)
	}
	if th.Classes.Casa == "" || th.Classes.Peca == "" {
		t.Fatalf("style roles must be mapped: %+v", th.Classes)
	}
}

func TestGetUnknownTheme(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Get("neon"); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c, _ := New("")
	a, _ := c.Get("classic")
	a.Colors.Dark = "#123456"
	b, _ := c.Get("classic")
	if b.Colors.Dark != "#000000" {
		t.Fatalf("catalog theme was mutated through a returned copy")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("10-classic.yaml", "classic:\n  colors:\n    player1: \"#00ff00\"\n")
	write("notes.txt", "ignored")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	th, _ := c.Get("classic")
	if th.Colors.Player1 != "#00ff00" {
		t.Fatalf("override not applied: %s", th.Colors.Player1)
	}
	if th.Colors.Player2 != "#1d4ed8" {
		t.Fatalf("untouched key changed: %s", th.Colors.Player2)
	}
}

func TestOverrideDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	body := []byte("wood:\n  colors:\n    dark: \"#101010\"\n")
	_ = os.WriteFile(filepath.Join(dir, "a.yaml"), body, 0o644)
	_ = os.WriteFile(filepath.Join(dir, "b.yml"), body, 0o644)
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestOverrideRejectsIndistinguishableColours(t *testing.T) {
	dir := t.TempDir()
	body := []byte("classic:\n  colors:\n    light: \"#000000\"\n")
	_ = os.WriteFile(filepath.Join(dir, "a.yaml"), body, 0o644)
	if _, err := New(dir); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestOverrideRejectsBadColoursAndGlyphs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bare light", "classic:\n  colors:\n    light: \"000000\"\n"},
		{"bare player1", "classic:\n  colors:\n    player1: \"d62828\"\n"},
		{"same dark in other case", "classic:\n  colors:\n    dark: \"#FFFFFF\"\n"},
		{"same players in other case", "classic:\n  colors:\n    player1: \"#1D4ED8\"\n"},
		{"piece glyph equals dark square", "classic:\n  glyphs:\n    player1: \"#\"\n"},
		{"piece glyph equals light square", "classic:\n  glyphs:\n    player2: \".\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write override: %v", err)
			}
			if _, err := New(dir); !errors.Is(err, ErrInvalidTheme) {
				t.Fatalf("expected ErrInvalidTheme, got %v", err)
			}
		})
	}
}

func TestOverrideRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("classic:\n  colors:\n    sparkle: \"#ffffff\"\n"), 0o644)
	if _, err := New(dir); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#bb8860")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c.R != 0xbb || c.G != 0x88 || c.B != 0x60 || c.A != 255 {
		t.Fatalf("unexpected colour %+v", c)
	}
	for _, bad := range []string{"", "#fff", "#zzzzzz", "bb8860", "##bb886"} {
		if _, err := ParseHex(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
