// Package config defines the score board configuration and its loading.
//
// New(ctx) builds a Config with defaults. Load layers an optional YAML file
// and UNICYCLE_* environment variables on top of them. Invalid values are
// reported as ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/agegroup"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DatabasePath is the SQLite file. Empty keeps all data in memory.
	DatabasePath string `koanf:"database_path"`

	// CompetitionDay is the reference date for rider ages (YYYY-MM-DD).
	CompetitionDay string `koanf:"competition_day"`

	// JuryPasswordHash is the bcrypt hash of the shared jury password.
	// Empty locks every jury endpoint.
	JuryPasswordHash string `koanf:"jury_password_hash"`

	// ShuffleSeed seeds the starting order shuffle. Zero picks a seed per run.
	ShuffleSeed int64 `koanf:"shuffle_seed"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Panels maps category codes to judge counts per domain.
	Panels map[string]panel.Size `koanf:"panels"`

	// AgeGroups maps category codes to ordered age group labels.
	AgeGroups map[string][]string `koanf:"age_groups"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":8050",
		DatabasePath:    "data/unicycle.db",
		CompetitionDay:  "2025-05-01",
		ShutdownTimeout: 5 * time.Second,
		Panels:          make(map[string]panel.Size),
		AgeGroups:       make(map[string][]string),
	}
	for cat, size := range panel.DefaultSizes() {
		c.Panels[string(cat)] = size
	}
	for cat, labels := range agegroup.DefaultBrackets() {
		c.AgeGroups[string(cat)] = labels
	}
	return c
}

// Validate checks every field and the derived domain tables.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if _, err := c.Day(); err != nil {
		return err
	}
	if c.JuryPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(c.JuryPasswordHash)); err != nil {
			return fmt.Errorf("%w: jury_password_hash: %w", ErrInvalidConfig, err)
		}
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Panel(); err != nil {
		return err
	}
	if _, err := c.Classifier(); err != nil {
		return err
	}
	return nil
}

// Day parses CompetitionDay.
func (c *Config) Day() (time.Time, error) {
	day, err := time.Parse(model.DateLayout, strings.TrimSpace(c.CompetitionDay))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: competition_day %q: %w", ErrInvalidConfig, c.CompetitionDay, err)
	}
	return day, nil
}

// Panel builds the judge panel. Categories missing from Panels keep their
// default sizes.
func (c *Config) Panel() (*panel.Panel, error) {
	sizes := panel.DefaultSizes()
	for code, size := range c.Panels {
		cat, err := model.ParseCategory(code)
		if err != nil {
			return nil, fmt.Errorf("%w: panels: %w", ErrInvalidConfig, err)
		}
		sizes[cat] = size
	}
	p, err := panel.New(sizes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Classifier builds the age group table. Categories missing from AgeGroups
// keep their default brackets.
func (c *Config) Classifier() (*agegroup.Classifier, error) {
	brackets := agegroup.DefaultBrackets()
	for code, labels := range c.AgeGroups {
		cat, err := model.ParseCategory(code)
		if err != nil {
			return nil, fmt.Errorf("%w: age_groups: %w", ErrInvalidConfig, err)
		}
		brackets[cat] = labels
	}
	cl, err := agegroup.NewClassifier(brackets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cl, nil
}
