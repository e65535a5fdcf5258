package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/function61/gravatars/pkg/avatarfetch"
)

// defaults for flags, overridable from ENV
type config struct {
	SaveDir     string        `env:"GRAVATARS_DIR"`
	Parallelism int           `env:"GRAVATARS_PARALLELISM" envDefault:"1"`
	HTTPTimeout time.Duration `env:"GRAVATARS_HTTP_TIMEOUT"` // 0 = transport default
	ListenAddr  string        `env:"GRAVATARS_LISTEN_ADDR" envDefault:":80"`
}

func loadConfig() (*config, error) {
	conf := &config{
		SaveDir: avatarfetch.DefaultSaveDir,
	}

	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("loadConfig: %w", err)
	}

	return conf, nil
}
