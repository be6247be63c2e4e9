package boardbuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/park285/dama-board/internal/config"
	"github.com/park285/dama-board/internal/render"
	"github.com/park285/dama-board/internal/rendercache"
	boardsvc "github.com/park285/dama-board/internal/service/board"
	"github.com/park285/dama-board/internal/theme"
	"go.uber.org/zap"
)

type Deps struct {
	Service  *boardsvc.Service
	Renderer render.BoardRenderer
	Themes   *theme.Catalog
	Cache    rendercache.Cache
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	themes, err := theme.New(cfg.Render.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}

	// Redis when REDIS_URL is set, in-process otherwise
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cache, err := rendercache.New(cctx, rendercache.Config{RedisURL: cfg.Cache.RedisURL, TTL: cfg.Cache.TTL})
	if err != nil {
		return nil, fmt.Errorf("init render cache: %w", err)
	}

	renderer := render.NewBoardRenderer()
	svcCfg := boardsvc.Config{
		DefaultTheme: cfg.Render.Theme,
		Title:        cfg.Render.Title,
		SquareSize:   cfg.Render.SquareSize,
		Coordinates:  cfg.Render.Coordinates,
	}
	service, err := boardsvc.NewService(renderer, themes, cache, svcCfg, logger)
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	logger.Info("board_deps_ready",
		zap.Strings("themes", themes.Names()),
		zap.String("default_theme", svcCfg.DefaultTheme),
		zap.Bool("redis_cache", cfg.Cache.RedisURL != ""),
	)
	return &Deps{Service: service, Renderer: renderer, Themes: themes, Cache: cache}, nil
}

func (d *Deps) Close() error {
	if d == nil || d.Cache == nil {
		return nil
	}
	return d.Cache.Close()
}
