package main

import (
	"context"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/boardbuilder"
	appcfg "github.com/park285/dama-board/internal/config"
	"github.com/park285/dama-board/internal/obslog"
	"github.com/park285/dama-board/internal/render"
	"go.uber.org/zap"
)

// Viewer shows the rendered board. T cycles themes, Esc closes the window.
type Viewer struct {
	deps   *boardbuilder.Deps
	opts   render.RenderOptions
	themes []string
	idx    int

	frame  *ebiten.Image
	width  int
	height int
}

func (v *Viewer) redraw() error {
	th, err := v.deps.Themes.Get(v.themes[v.idx])
	if err != nil {
		return err
	}
	v.opts.Theme = th
	img, err := v.deps.Renderer.RenderImage(context.Background(), board.Generate(), v.opts)
	if err != nil {
		return err
	}
	v.frame = ebiten.NewImageFromImage(img)
	v.width, v.height = img.Bounds().Dx(), img.Bounds().Dy()
	obslog.L().Debug("viewer_redraw", zap.String("theme", th.Name))
	return nil
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) && len(v.themes) > 1 {
		v.idx = (v.idx + 1) % len(v.themes)
		return v.redraw()
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.frame != nil {
		screen.DrawImage(v.frame, nil)
	}
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := obslog.Init(cfg.LogOptions())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := boardbuilder.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("board init: %v", err)
	}
	defer deps.Close()

	v := &Viewer{
		deps: deps,
		opts: render.RenderOptions{
			Title:       cfg.Render.Title,
			SquareSize:  cfg.Render.SquareSize,
			Coordinates: cfg.Render.Coordinates,
		},
		themes: deps.Themes.Names(),
	}
	for i, name := range v.themes {
		if name == cfg.Render.Theme {
			v.idx = i
		}
	}
	if err := v.redraw(); err != nil {
		log.Fatalf("render: %v", err)
	}

	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle(cfg.Render.Title)
	if err := ebiten.RunGame(v); err != nil {
		log.Printf("viewer: %v", err)
	}
}
