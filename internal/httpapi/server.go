// Package httpapi serves rendered boards over fasthttp.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	coreboard "github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/render"
	boardsvc "github.com/park285/dama-board/internal/service/board"
	"github.com/park285/dama-board/internal/theme"
	"github.com/park285/dama-board/pkg/boarddto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var ErrBadQuery = errors.New("bad query parameter")

const headerRequestID = "X-Request-Id"

// Renderer is the part of the board service the HTTP layer depends on.
type Renderer interface {
	Render(ctx context.Context, req boardsvc.Request) (*boardsvc.Result, error)
	DefaultRequest(format boardsvc.Format) boardsvc.Request
	Themes() []string
}

type Server struct {
	svc    Renderer
	logger *zap.Logger
	srv    *fasthttp.Server
}

func NewServer(svc Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger}
	s.srv = &fasthttp.Server{
		Handler:      s.Handler,
		Name:         "dama-board",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

var routes = map[string]boardsvc.Format{
	"/":           boardsvc.FormatHTML,
	"/index.html": boardsvc.FormatHTML,
	"/board.html": boardsvc.FormatHTML,
	"/board.png":  boardsvc.FormatPNG,
	"/board.svg":  boardsvc.FormatSVG,
	"/board.txt":  boardsvc.FormatText,
	"/board.json": boardsvc.FormatJSON,
}

func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	started := time.Now()
	reqID := strings.TrimSpace(string(ctx.Request.Header.Peek(headerRequestID)))
	if reqID == "" {
		reqID = uuid.NewString()
	}
	ctx.Response.Header.Set(headerRequestID, reqID)

	defer func() {
		s.logger.Info("http_request",
			zap.String("request_id", reqID),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("elapsed", time.Since(started)),
		)
	}()

	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Response.Header.Set("Allow", "GET, HEAD")
		s.writeError(ctx, reqID, fasthttp.StatusMethodNotAllowed, "method_not_allowed", "only GET and HEAD are supported")
		return
	}

	path := string(ctx.Path())
	if path == "/healthz" {
		s.writeJSON(ctx, fasthttp.StatusOK, boarddto.Health{Status: "ok", Themes: s.svc.Themes()})
		return
	}
	format, ok := routes[path]
	if !ok {
		s.writeError(ctx, reqID, fasthttp.StatusNotFound, "not_found", "no such resource: "+path)
		return
	}

	req, err := s.parseRequest(ctx.QueryArgs(), format)
	if err == nil {
		var res *boardsvc.Result
		res, err = s.svc.Render(ctx, req)
		if err == nil {
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.SetContentType(res.ContentType)
			ctx.Response.Header.Set("Cache-Control", "public, max-age=300")
			ctx.Response.Header.Set("ETag", `"`+res.Key+`"`)
			if res.Cached {
				ctx.Response.Header.Set("X-Cache", "hit")
			} else {
				ctx.Response.Header.Set("X-Cache", "miss")
			}
			ctx.SetBody(res.Data)
			return
		}
	}

	status, code := statusFor(err)
	if status >= fasthttp.StatusInternalServerError {
		s.logger.Error("http_render_failed", zap.String("request_id", reqID), zap.Error(err))
	}
	s.writeError(ctx, reqID, status, code, err.Error())
}

// parseRequest reads theme, size, rows, title, square and coords on top of the service defaults.
func (s *Server) parseRequest(args *fasthttp.Args, format boardsvc.Format) (boardsvc.Request, error) {
	req := s.svc.DefaultRequest(format)

	if v := strings.TrimSpace(string(args.Peek("theme"))); v != "" {
		req.Theme = v
	}
	if v := strings.TrimSpace(string(args.Peek("title"))); v != "" {
		req.Title = v
	}

	size, hasSize, err := intArg(args, "size")
	if err != nil {
		return req, err
	}
	rows, hasRows, err := intArg(args, "rows")
	if err != nil {
		return req, err
	}
	if hasSize || hasRows {
		req.Layout = coreboard.NewLayout(size, rows)
	}

	if sq, ok, err := intArg(args, "square"); err != nil {
		return req, err
	} else if ok {
		req.SquareSize = sq
	}

	if v := strings.TrimSpace(string(args.Peek("coords"))); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: coords=%q", ErrBadQuery, v)
		}
		req.Coordinates = b
	}
	return req, nil
}

func intArg(args *fasthttp.Args, name string) (int, bool, error) {
	raw := strings.TrimSpace(string(args.Peek(name)))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q", ErrBadQuery, name, raw)
	}
	return n, true, nil
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadQuery):
		return fasthttp.StatusBadRequest, "bad_query"
	case errors.Is(err, coreboard.ErrInvalidConfiguration):
		return fasthttp.StatusBadRequest, "invalid_layout"
	case errors.Is(err, render.ErrSquareSize):
		return fasthttp.StatusBadRequest, "invalid_square_size"
	case errors.Is(err, boardsvc.ErrUnsupportedFormat):
		return fasthttp.StatusBadRequest, "unsupported_format"
	case errors.Is(err, theme.ErrThemeNotFound):
		return fasthttp.StatusNotFound, "theme_not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fasthttp.StatusServiceUnavailable, "cancelled"
	default:
		return fasthttp.StatusInternalServerError, "render_failed"
	}
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, reqID string, status int, code, msg string) {
	s.writeJSON(ctx, status, boarddto.ErrorResponse{Error: msg, Code: code, RequestID: reqID})
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("http_encode_failed", zap.Error(err))
		ctx.Error(`{"error":"encode failed"}`, fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
