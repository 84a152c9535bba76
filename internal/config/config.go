// Package config loads the chessboard settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/widget"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHESSBOARD_"

// Square size bounds in logical pixels.
const (
	MinSquareSize = 24
	MaxSquareSize = 160
)

// Config is the full application configuration.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Feed    FeedConfig    `yaml:"feed"`
}

// BoardConfig holds the widget settings.
type BoardConfig struct {
	Placement       string `yaml:"placement"`
	Orientation     string `yaml:"orientation"`
	Active          string `yaml:"active"`
	Animations      bool   `yaml:"animations"`
	ShowCoordinates bool   `yaml:"show_coordinates"`
	SquareSize      int    `yaml:"square_size"`
	AnimationMS     int    `yaml:"animation_ms"`
	Matcher         string `yaml:"matcher"`
	// Rules enables legal-move approval of drops.
	Rules bool `yaml:"rules"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type StorageConfig struct {
	Dir      string `yaml:"dir"`
	Disabled bool   `yaml:"disabled"`
}

type FeedConfig struct {
	URL string `yaml:"url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			Placement:       board.StartFEN,
			Orientation:     "white",
			Active:          "both",
			Animations:      true,
			ShowCoordinates: true,
			SquareSize:      80,
			AnimationMS:     200,
			Matcher:         "greedy",
			Rules:           true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if not
// empty) and then with CHESSBOARD_* environment variables. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := loadYAML(cfg, raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML overlays raw onto cfg; keys absent from raw keep their values.
func loadYAML(cfg *Config, raw []byte) error {
	return yaml.Unmarshal(raw, cfg)
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PLACEMENT":   &c.Board.Placement,
		"ORIENTATION": &c.Board.Orientation,
		"ACTIVE":      &c.Board.Active,
		"MATCHER":     &c.Board.Matcher,
		"LOG_LEVEL":   &c.Log.Level,
		"LOG_FORMAT":  &c.Log.Format,
		"LOG_FILE":    &c.Log.File,
		"STORAGE_DIR": &c.Storage.Dir,
		"FEED_URL":    &c.Feed.URL,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"ANIMATIONS":       &c.Board.Animations,
		"SHOW_COORDINATES": &c.Board.ShowCoordinates,
		"RULES":            &c.Board.Rules,
		"STORAGE_DISABLED": &c.Storage.Disabled,
	}
	for name, dst := range bools {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
	}

	ints := map[string]*int{
		"SQUARE_SIZE":  &c.Board.SquareSize,
		"ANIMATION_MS": &c.Board.AnimationMS,
	}
	for name, dst := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks every enumerated and bounded field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.OrientationColor(); err != nil {
		errs = append(errs, err)
	}
	if _, err := widget.ParseActive(c.Board.Active); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BoardMatcher(); err != nil {
		errs = append(errs, err)
	}
	if _, err := board.FromFEN(c.Board.Placement); err != nil {
		errs = append(errs, fmt.Errorf("board.placement: %w", err))
	}
	if c.Board.SquareSize < MinSquareSize || c.Board.SquareSize > MaxSquareSize {
		errs = append(errs, fmt.Errorf("board.square_size %d outside %d..%d", c.Board.SquareSize, MinSquareSize, MaxSquareSize))
	}
	if c.Board.AnimationMS < 0 {
		errs = append(errs, fmt.Errorf("board.animation_ms must not be negative"))
	}
	if !logx.ValidLevel(c.Log.Level) {
		errs = append(errs, &board.InvalidValueError{Name: "log.level", Value: c.Log.Level, Allowed: []string{"debug", "info", "warn", "error"}})
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, &board.InvalidValueError{Name: "log.format", Value: c.Log.Format, Allowed: []string{"console", "json"}})
	}
	return errors.Join(errs...)
}

// OrientationColor parses Board.Orientation.
func (c *Config) OrientationColor() (board.Color, error) {
	return board.ParseColor(c.Board.Orientation)
}

// BoardMatcher returns the matcher named by Board.Matcher.
func (c *Config) BoardMatcher() (board.Matcher, error) {
	return board.ParseMatcher(c.Board.Matcher)
}
