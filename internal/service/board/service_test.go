package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	coreboard "github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/render"
	"github.com/park285/dama-board/internal/rendercache"
	"github.com/park285/dama-board/internal/theme"
	"github.com/park285/dama-board/pkg/boarddto"
)

func newTestService(t *testing.T, cache rendercache.Cache) *Service {
	t.Helper()
	themes, err := theme.New("")
	if err != nil {
		t.Fatalf("theme.New: %v", err)
	}
	svc, err := NewService(render.NewBoardRenderer(), themes, cache, Config{SquareSize: 24}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

type failingCache struct {
	gets atomic.Int32
	sets atomic.Int32
}

func (f *failingCache) Get(context.Context, string) ([]byte, error) {
	f.gets.Add(1)
	return nil, errors.New("redis down")
}

func (f *failingCache) Set(context.Context, string, []byte) error {
	f.sets.Add(1)
	return errors.New("redis down")
}

func (f *failingCache) Close() error { return nil }

func TestRenderPNGUsesCache(t *testing.T) {
	svc := newTestService(t, rendercache.NewMemory(time.Minute))
	ctx := context.Background()

	first, err := svc.Render(ctx, Request{Format: FormatPNG})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first.Cached {
		t.Fatalf("first render must not be cached")
	}
	if first.ContentType != "image/png" {
		t.Fatalf("content type: %s", first.ContentType)
	}
	img, err := png.Decode(bytes.NewReader(first.Data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	want := render.NewGeometry(8, 24)
	if b := img.Bounds(); b.Dx() != want.Width || b.Dy() != want.Height {
		t.Fatalf("png size %dx%d, want %dx%d", b.Dx(), b.Dy(), want.Width, want.Height)
	}

	second, err := svc.Render(ctx, Request{Format: FormatPNG})
	if err != nil {
		t.Fatalf("Render (cached): %v", err)
	}
	if !second.Cached || second.Key != first.Key {
		t.Fatalf("expected cache hit with key %s, got cached=%v key=%s", first.Key, second.Cached, second.Key)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatalf("cached bytes differ")
	}
}

func TestRenderSurvivesCacheFailure(t *testing.T) {
	fc := &failingCache{}
	svc := newTestService(t, fc)

	res, err := svc.Render(context.Background(), Request{Format: FormatText})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Cached || len(res.Data) == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if fc.gets.Load() != 1 || fc.sets.Load() != 1 {
		t.Fatalf("cache calls get=%d set=%d", fc.gets.Load(), fc.sets.Load())
	}
}

func TestRenderWithoutCache(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.Render(context.Background(), Request{Format: FormatSVG})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.ContentType != "image/svg+xml" || !bytes.Contains(res.Data, []byte("<svg")) {
		t.Fatalf("unexpected svg result: %s", res.ContentType)
	}
}

func TestRenderErrors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"odd size", Request{Layout: coreboard.Layout{Size: 7, PieceRows: 3}}, coreboard.ErrInvalidConfiguration},
		{"rows overlap", Request{Layout: coreboard.Layout{Size: 8, PieceRows: 4}}, coreboard.ErrInvalidConfiguration},
		{"unknown theme", Request{Theme: "neon"}, theme.ErrThemeNotFound},
		{"unknown format", Request{Format: "gif"}, ErrUnsupportedFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Render(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRenderCancelled(t *testing.T) {
	svc := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Render(ctx, Request{Format: FormatPNG}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderJSON(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.Render(context.Background(), Request{Format: FormatJSON})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var b boarddto.Board
	if err := json.Unmarshal(res.Data, &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Size != 8 || len(b.Cells) != 64 {
		t.Fatalf("unexpected board: size=%d cells=%d", b.Size, len(b.Cells))
	}
	if b.Counts.Player1 != 12 || b.Counts.Player2 != 12 || b.Counts.Total != 24 {
		t.Fatalf("unexpected counts: %+v", b.Counts)
	}
}

func TestRenderTextTitleAndLayout(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.Render(context.Background(), Request{
		Format: FormatText,
		Layout: coreboard.Layout{Size: 10, PieceRows: 4},
		Title:  "Dama 10x10",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(res.Data), "\n"), "\n")
	if lines[0] != "Dama 10x10" {
		t.Fatalf("title line: %q", lines[0])
	}
	if len(lines) != 11 {
		t.Fatalf("expected title + 10 rows, got %d lines", len(lines))
	}
}

func TestCacheKeyDependsOnRequest(t *testing.T) {
	svc := newTestService(t, nil)
	classic, _ := svc.themes.Get("classic")
	wood, _ := svc.themes.Get("wood")

	base := svc.normalize(Request{Format: FormatPNG})
	if cacheKey(base, classic) != cacheKey(base, classic) {
		t.Fatalf("cache key must be stable")
	}
	if cacheKey(base, classic) == cacheKey(base, wood) {
		t.Fatalf("theme must change the cache key")
	}
	other := base
	other.Coordinates = !base.Coordinates
	if cacheKey(base, classic) == cacheKey(other, classic) {
		t.Fatalf("coordinates must change the cache key")
	}
	edited := *classic
	edited.Colors.Player1 = "#00ff00"
	if cacheKey(base, classic) == cacheKey(base, &edited) {
		t.Fatalf("theme contents must change the cache key")
	}
}

func TestBoard(t *testing.T) {
	svc := newTestService(t, nil)
	b, err := svc.Board(context.Background(), coreboard.Layout{})
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(b.Cells) != 64 || b.Cells[1].Occupant == nil || *b.Cells[1].Occupant != "player1" {
		t.Fatalf("unexpected board: %+v", b.Cells[:2])
	}
	if _, err := svc.Board(context.Background(), coreboard.Layout{Size: 3, PieceRows: 1}); !errors.Is(err, coreboard.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":     FormatPNG,
		"PNG":  FormatPNG,
		"svg":  FormatSVG,
		"htm":  FormatHTML,
		"txt":  FormatText,
		"text": FormatText,
		"json": FormatJSON,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("bmp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNewServiceRejectsUnknownDefaultTheme(t *testing.T) {
	themes, err := theme.New("")
	if err != nil {
		t.Fatalf("theme.New: %v", err)
	}
	if _, err := NewService(render.NewBoardRenderer(), themes, nil, Config{DefaultTheme: "neon"}, nil); !errors.Is(err, theme.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestCoordinatesComeFromDefaultRequest(t *testing.T) {
	themes, err := theme.New("")
	if err != nil {
		t.Fatalf("theme.New: %v", err)
	}
	svc, err := NewService(render.NewBoardRenderer(), themes, nil, Config{Coordinates: true}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if !svc.DefaultRequest(FormatText).Coordinates {
		t.Fatalf("DefaultRequest must carry the configured coordinates")
	}
	if svc.normalize(Request{Format: FormatText}).Coordinates {
		t.Fatalf("an explicit false must not be overridden")
	}

	res, err := svc.Render(context.Background(), svc.DefaultRequest(FormatText))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(res.Data), "   a b c d e f g h") {
		t.Fatalf("expected column labels:\n%s", res.Data)
	}
}
