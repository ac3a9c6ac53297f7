// Package config loads the YAML settings shared by the CLI and the HTTP
// server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/alevel/analyzer"
	"github.com/njchilds90/alevel/history"
)

var validate = validator.New()

type Config struct {
	Analysis analyzer.Config `yaml:"analysis"`
	History  History         `yaml:"history"`
	Server   Server          `yaml:"server"`
	Log      Log             `yaml:"log"`
}

// History switches the badger-backed store on and configures it.
type History struct {
	Enabled bool           `yaml:"enabled"`
	Store   history.Config `yaml:"store" validate:"-"`
}

type Server struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	BodyLimit       int64         `yaml:"body_limit" validate:"gt=0"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Analysis: analyzer.DefaultConfig(),
		History: History{
			Enabled: true,
			Store:   history.DefaultConfig(defaultHistoryPath()),
		},
		Server: Server{
			Addr:            "127.0.0.1:8080",
			BodyLimit:       1 << 20,
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".alevel", "history")
	}
	return filepath.Join(dir, "alevel", "history")
}

// Load reads path over the defaults. An empty path yields Default().
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Explicit zeroes fall back to defaults.
	def := Default()
	if cfg.Analysis.Variable == "" {
		cfg.Analysis.Variable = def.Analysis.Variable
	}
	if cfg.Server.BodyLimit == 0 {
		cfg.Server.BodyLimit = def.Server.BodyLimit
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section. The history store is only checked when
// it is enabled.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.History.Enabled {
		if err := validate.Struct(c.History.Store); err != nil {
			return fmt.Errorf("config: history: %w", err)
		}
	}
	return nil
}

// Logger builds a slog logger writing to w in the configured format.
func (l Log) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l Log) level() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
