package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr          string        `env:"GREENX_HTTP_ADDR" envDefault:":8080"`
	SiteFile          string        `env:"GREENX_SITE_FILE"` // empty = compiled-in site.yaml
	TimelineInterval  time.Duration `env:"GREENX_TIMELINE_INTERVAL" envDefault:"1m"`
	CountdownInterval time.Duration `env:"GREENX_COUNTDOWN_INTERVAL" envDefault:"1s"`
}

func Load() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.TimelineInterval <= 0 {
		return nil, fmt.Errorf("GREENX_TIMELINE_INTERVAL: must be positive, got %s", c.TimelineInterval)
	}
	if c.CountdownInterval <= 0 {
		return nil, fmt.Errorf("GREENX_COUNTDOWN_INTERVAL: must be positive, got %s", c.CountdownInterval)
	}
	return &c, nil
}
