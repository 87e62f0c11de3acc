package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config drives the relay. Flags override file values.
type Config struct {
	Listen       string
	Upstream     string
	Metrics      string
	Workers      int
	DialTimeout  time.Duration
	RetryElapsed time.Duration
}

func defaultConfig() Config {
	return Config{
		Listen:       "127.0.0.1:9870",
		Workers:      4,
		DialTimeout:  5 * time.Second,
		RetryElapsed: 30 * time.Second,
	}
}

type fileConfig struct {
	Listen       string `toml:"listen"`
	Upstream     string `toml:"upstream"`
	Metrics      string `toml:"metrics"`
	Workers      int    `toml:"workers"`
	DialTimeout  string `toml:"dial_timeout"`
	RetryElapsed string `toml:"retry_elapsed"`
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load meter config: %w", err)
	}

	if meta.IsDefined("listen") && strings.TrimSpace(raw.Listen) != "" {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("upstream") {
		cfg.Upstream = strings.TrimSpace(raw.Upstream)
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = strings.TrimSpace(raw.Metrics)
	}
	if meta.IsDefined("workers") && raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}
	if meta.IsDefined("retry_elapsed") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RetryElapsed))
		if err != nil {
			return Config{}, fmt.Errorf("parse retry_elapsed: %w", err)
		}
		cfg.RetryElapsed = d
	}

	return cfg, nil
}
