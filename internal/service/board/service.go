package board

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/dama-board/internal/adapter/boardpresenter"
	coreboard "github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/render"
	"github.com/park285/dama-board/internal/rendercache"
	"github.com/park285/dama-board/internal/theme"
	"github.com/park285/dama-board/pkg/boarddto"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported render format")

type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	case "html", "htm":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "image/png"
	}
}

type Config struct {
	DefaultTheme string
	Title        string
	SquareSize   int
	Coordinates  bool
}

// Request describes one render. Zero Format, Theme, Layout, Title and SquareSize
// fall back to the service Config. Coordinates is used as given; start from
// DefaultRequest to inherit the configured value.
type Request struct {
	Format      Format
	Theme       string
	Layout      coreboard.Layout
	Title       string
	SquareSize  int
	Coordinates bool
}

type Result struct {
	Format      Format
	ContentType string
	Data        []byte
	Cached      bool
	Key         string
}

type Service struct {
	renderer render.BoardRenderer
	themes   *theme.Catalog
	cache    rendercache.Cache
	cfg      Config
	logger   *zap.Logger
}

func NewService(renderer render.BoardRenderer, themes *theme.Catalog, cache rendercache.Cache, cfg Config, logger *zap.Logger) (*Service, error) {
	if renderer == nil {
		return nil, errors.New("board service: nil renderer")
	}
	if themes == nil {
		return nil, errors.New("board service: nil theme catalog")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = theme.Default
	}
	if _, err := themes.Get(cfg.DefaultTheme); err != nil {
		return nil, fmt.Errorf("board service: default theme: %w", err)
	}
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = render.DefaultTitle
	}
	if cfg.SquareSize <= 0 {
		cfg.SquareSize = render.DefaultSquareSize
	}
	return &Service{
		renderer: renderer,
		themes:   themes,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// DefaultRequest is the standard board rendered with the configured defaults.
func (s *Service) DefaultRequest(format Format) Request {
	return Request{
		Format:      format,
		Theme:       s.cfg.DefaultTheme,
		Layout:      coreboard.Standard,
		Title:       s.cfg.Title,
		SquareSize:  s.cfg.SquareSize,
		Coordinates: s.cfg.Coordinates,
	}
}

func (s *Service) Themes() []string { return s.themes.Names() }

func (s *Service) normalize(req Request) Request {
	if req.Format == "" {
		req.Format = FormatPNG
	}
	if req.Layout == (coreboard.Layout{}) {
		req.Layout = coreboard.Standard
	}
	if strings.TrimSpace(req.Theme) == "" {
		req.Theme = s.cfg.DefaultTheme
	}
	req.Theme = strings.ToLower(strings.TrimSpace(req.Theme))
	if strings.TrimSpace(req.Title) == "" {
		req.Title = s.cfg.Title
	}
	if req.SquareSize == 0 {
		req.SquareSize = s.cfg.SquareSize
	}
	return req
}

// Render generates the board and draws it in the requested format.
// Cache failures are logged and never fail the render.
func (s *Service) Render(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	req = s.normalize(req)

	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return nil, err
	}
	req.Format = format
	cells, err := req.Layout.Generate()
	if err != nil {
		return nil, err
	}
	th, err := s.themes.Get(req.Theme)
	if err != nil {
		return nil, err
	}

	key := cacheKey(req, th)
	if data, ok := s.cacheGet(ctx, key); ok {
		s.logger.Debug("board_render_cached", zap.String("format", string(req.Format)), zap.String("key", key))
		return &Result{Format: req.Format, ContentType: req.Format.ContentType(), Data: data, Cached: true, Key: key}, nil
	}

	data, err := s.draw(ctx, req, cells, th)
	if err != nil {
		s.logger.Warn("board_render_error",
			zap.String("format", string(req.Format)),
			zap.String("theme", th.Name),
			zap.Int("size", req.Layout.Size),
			zap.Error(err),
		)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn("board_cache_set_error", zap.String("key", key), zap.Error(err))
		}
	}

	s.logger.Info("board_render",
		zap.String("format", string(req.Format)),
		zap.String("theme", th.Name),
		zap.Int("size", req.Layout.Size),
		zap.Int("piece_rows", req.Layout.PieceRows),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return &Result{Format: req.Format, ContentType: req.Format.ContentType(), Data: data, Key: key}, nil
}

// Board returns the wire form of the generated cells.
func (s *Service) Board(ctx context.Context, layout coreboard.Layout) (*boarddto.Board, error) {
	if layout == (coreboard.Layout{}) {
		layout = coreboard.Standard
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cells, err := layout.Generate()
	if err != nil {
		return nil, err
	}
	return boardpresenter.ToDTOBoard(layout, cells), nil
}

func (s *Service) draw(ctx context.Context, req Request, cells []coreboard.Cell, th *theme.Theme) ([]byte, error) {
	opts := render.RenderOptions{
		Theme:       th,
		Title:       req.Title,
		SquareSize:  req.SquareSize,
		Coordinates: req.Coordinates,
	}
	var buf bytes.Buffer
	switch req.Format {
	case FormatPNG:
		return s.renderer.RenderPNG(ctx, cells, opts)
	case FormatSVG:
		if err := render.RenderSVG(ctx, &buf, cells, opts); err != nil {
			return nil, err
		}
	case FormatHTML:
		if err := render.RenderHTML(ctx, &buf, cells, opts); err != nil {
			return nil, err
		}
	case FormatText:
		if err := render.RenderText(ctx, &buf, cells, opts); err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(boardpresenter.ToDTOBoard(req.Layout, cells)); err != nil {
			return nil, fmt.Errorf("encode board json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	return buf.Bytes(), nil
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, rendercache.ErrCacheMiss) {
			s.logger.Warn("board_cache_get_error", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// cacheKey covers the theme contents, not just its name, so edited overrides never hit stale entries.
func cacheKey(req Request, th *theme.Theme) string {
	raw := fmt.Sprintf("v1|%s|%d|%d|%s|%d|%t|%+v",
		req.Format, req.Layout.Size, req.Layout.PieceRows, req.Title, req.SquareSize, req.Coordinates, *th)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
