package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/park285/dama-board/internal/adapter/boardpresenter"
	coreboard "github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/boardbuilder"
	appcfg "github.com/park285/dama-board/internal/config"
	"github.com/park285/dama-board/internal/httpapi"
	"github.com/park285/dama-board/internal/obslog"
	boardsvc "github.com/park285/dama-board/internal/service/board"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	app := cli.NewApp()
	app.Name = "dama"
	app.Usage = "render and serve a checkers board"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:   "render",
			Usage:  "render the starting board to a file or stdout",
			Action: renderCmd,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format, f", Value: "png", Usage: "png|svg|html|text|json"},
				cli.StringFlag{Name: "out, o", Value: "-", Usage: "output file, - for stdout"},
				cli.StringFlag{Name: "theme, t", Usage: "theme name (default: DAMA_THEME)"},
				cli.IntFlag{Name: "size", Usage: "board dimension, even, 2..26"},
				cli.IntFlag{Name: "rows", Usage: "piece rows per side"},
				cli.StringFlag{Name: "title", Usage: "heading text (default: DAMA_TITLE)"},
				cli.IntFlag{Name: "square", Usage: "PNG square size in px (default: DAMA_SQUARE_SIZE)"},
				cli.StringFlag{Name: "coords", Usage: "draw coordinates: true|false (default: DAMA_COORDINATES)"},
				cli.BoolFlag{Name: "base64", Usage: "base64 encode binary output on stdout"},
			},
		},
		{
			Name:   "serve",
			Usage:  "serve boards over HTTP",
			Action: serveCmd,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr, a", Usage: "listen address (default: DAMA_ADDR)"},
			},
		},
		{
			Name:   "check",
			Usage:  "probe a running server's /healthz",
			Action: checkCmd,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "url, u", Value: "http://127.0.0.1:8080", Usage: "server base URL"},
				cli.DurationFlag{Name: "timeout", Value: 5 * time.Second},
			},
		},
		{
			Name:   "themes",
			Usage:  "list available themes",
			Action: themesCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("dama: %v", err)
	}
}

// setup loads config, logging and the board deps shared by every command.
func setup(ctx context.Context) (*appcfg.AppConfig, *boardbuilder.Deps, error) {
	cfg, err := appcfg.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	logger, err := obslog.Init(cfg.LogOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("logger init: %w", err)
	}
	deps, err := boardbuilder.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("board init: %w", err)
	}
	return cfg, deps, nil
}

func renderCmd(c *cli.Context) error {
	ctx := context.Background()
	_, deps, err := setup(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()
	defer func() { _ = obslog.L().Sync() }()

	format, err := boardsvc.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	req := deps.Service.DefaultRequest(format)
	if v := strings.TrimSpace(c.String("theme")); v != "" {
		req.Theme = v
	}
	if v := strings.TrimSpace(c.String("title")); v != "" {
		req.Title = v
	}
	if c.IsSet("size") || c.IsSet("rows") {
		req.Layout = coreboard.NewLayout(c.Int("size"), c.Int("rows"))
	}
	if c.IsSet("square") {
		req.SquareSize = c.Int("square")
	}
	if v := strings.TrimSpace(c.String("coords")); v != "" {
		coords, err := parseCoords(v)
		if err != nil {
			return err
		}
		req.Coordinates = coords
	}

	res, err := deps.Service.Render(ctx, req)
	if err != nil {
		return err
	}

	out := strings.TrimSpace(c.String("out"))
	if out == "" || out == "-" {
		binary := format == boardsvc.FormatPNG
		return boardpresenter.NewPresenter(os.Stdout, binary && c.Bool("base64")).Board("", res.Data)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := boardpresenter.NewPresenter(f, false).Board("", res.Data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if dto, err := deps.Service.Board(ctx, req.Layout); err == nil {
		summary := boardpresenter.NewFormatter(req.Title).Summary(dto, req.Theme)
		_ = boardpresenter.NewPresenter(os.Stderr, false).Board(summary, nil)
	}
	obslog.L().Info("board_written", zap.String("path", out), zap.String("format", string(format)), zap.Int("bytes", len(res.Data)))
	return nil
}

// parseCoords accepts the same values as the coords query parameter.
func parseCoords(v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid --coords %q", v)
	}
	return b, nil
}

func serveCmd(c *cli.Context) error {
	ctx := context.Background()
	cfg, deps, err := setup(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()
	defer func() { _ = obslog.L().Sync() }()

	addr := cfg.Server.Addr
	if v := strings.TrimSpace(c.String("addr")); v != "" {
		addr = v
	}

	srv := httpapi.NewServer(deps.Service, obslog.L())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(addr) }()

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		obslog.L().Info("shutdown_signal", zap.String("signal", sig.String()))
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func checkCmd(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	client := httpapi.NewClient(c.String("url"), httpapi.WithTimeout(c.Duration("timeout")))
	h, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	fmt.Printf("status=%s themes=%s\n", h.Status, strings.Join(h.Themes, ","))
	return nil
}

func themesCmd(c *cli.Context) error {
	_, deps, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer deps.Close()
	for _, name := range deps.Service.Themes() {
		fmt.Println(name)
	}
	return nil
}
