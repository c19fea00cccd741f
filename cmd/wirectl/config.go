package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fileConfig struct {
	Schema   string `toml:"schema"`
	Type     string `toml:"type"`
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
}

type config struct {
	Schema   string
	Type     string
	Format   string
	LogLevel string
}

func defaultConfig() config {
	return config{
		Format:   "json",
		LogLevel: "warn",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load wirectl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load wirectl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("schema") {
		cfg.Schema = strings.TrimSpace(raw.Schema)
	}
	if meta.IsDefined("type") {
		cfg.Type = strings.TrimSpace(raw.Type)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}

	return cfg, nil
}

func (c config) newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log_level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	return zc.Build()
}
