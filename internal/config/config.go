package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/park285/dama-board/internal/obslog"
)

type AppConfig struct {
	Server struct {
		Addr string `envconfig:"DAMA_ADDR" default:":8080"`
	}

	Render struct {
		Theme       string `envconfig:"DAMA_THEME" default:"classic"`
		ThemeDir    string `envconfig:"DAMA_THEME_DIR"`
		Title       string `envconfig:"DAMA_TITLE" default:"Dama"`
		SquareSize  int    `envconfig:"DAMA_SQUARE_SIZE" default:"72"`
		Coordinates bool   `envconfig:"DAMA_COORDINATES" default:"true"`
	}

	Cache struct {
		RedisURL string        `envconfig:"REDIS_URL"`
		TTL      time.Duration `envconfig:"DAMA_CACHE_TTL" default:"10m"`
	}

	Log struct {
		Level     string `envconfig:"LOG_LEVEL" default:"info"`
		Format    string `envconfig:"LOG_FORMAT" default:"legacy"`
		ToConsole bool   `envconfig:"LOG_TO_CONSOLE" default:"true"`
		ToFile    bool   `envconfig:"LOG_TO_FILE" default:"false"`
		File      string `envconfig:"LOG_FILE" default:"logs/dama.log"`
		Caller    bool   `envconfig:"LOG_CALLER" default:"false"`
	}
}

// Load reads the environment. Every field has a usable default.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	cfg.Render.Theme = strings.ToLower(strings.TrimSpace(cfg.Render.Theme))
	cfg.Render.ThemeDir = strings.TrimSpace(cfg.Render.ThemeDir)
	cfg.Cache.RedisURL = strings.TrimSpace(cfg.Cache.RedisURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("DAMA_ADDR must not be empty")
	}
	if c.Render.SquareSize < 16 || c.Render.SquareSize > 256 {
		return fmt.Errorf("DAMA_SQUARE_SIZE %d out of range [16,256]", c.Render.SquareSize)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("DAMA_CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	return nil
}

func (c *AppConfig) LogOptions() obslog.Options {
	return obslog.Options{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		ToConsole: c.Log.ToConsole,
		ToFile:    c.Log.ToFile,
		File:      c.Log.File,
		Caller:    c.Log.Caller,
	}
}
