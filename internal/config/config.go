// Package config loads stellar settings from a YAML file over built-in
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/ingest"
	"github.com/alchemypls/stellar/internal/logging"
	"github.com/alchemypls/stellar/internal/persist"
	"github.com/alchemypls/stellar/internal/state"
)

// Store selects the save slot backend.
type Store struct {
	// Kind is one of file, sqlite or memory (default "file").
	Kind string `yaml:"kind"`

	// Path is the slot directory (file) or database file (sqlite). Empty
	// means a location under DataDir.
	Path string `yaml:"path"`
}

// Zoom holds the zoom limits used by the state manager.
type Zoom struct {
	Base    float64 `yaml:"base"`
	Step    float64 `yaml:"step"`
	Ceiling float64 `yaml:"ceiling"`
	Initial float64 `yaml:"initial"`
}

// Config holds all stellar settings.
type Config struct {
	// DataDir holds the catalog fixtures (default "data").
	DataDir string `yaml:"data_dir"`

	Store Store `yaml:"store"`

	// Slot names the save slot (default "stellar-game-storage").
	Slot string `yaml:"slot"`

	// StartStar is where a fresh session begins (default "alnilam"). When it
	// is missing from the catalog the first star of Seed is used instead.
	StartStar string `yaml:"start_star"`

	// Seed is the constellation unlocked from the start (default "ori").
	Seed string `yaml:"seed"`

	// Unlocks maps a completed constellation to the ones it opens. Setting
	// it replaces the default table.
	Unlocks map[string][]string `yaml:"unlocks"`

	Zoom Zoom `yaml:"zoom"`

	// Projects and Targets feed project assignment during ingest.
	Projects []catalog.Project `yaml:"projects"`
	Targets  []ingest.Target   `yaml:"targets"`

	LogLevel string `yaml:"log_level"`

	// LogFile receives logs while the TUI owns the terminal. Empty
	// discards them.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	sc := state.DefaultConfig()
	return Config{
		DataDir:   "data",
		Store:     Store{Kind: persist.KindFile},
		Slot:      persist.DefaultSlot,
		StartStar: "alnilam",
		Seed:      sc.Seed,
		Unlocks:   sc.Unlocks,
		Zoom: Zoom{
			Base:    sc.BaseZoom,
			Step:    sc.ZoomStep,
			Ceiling: sc.MaxZoomCeiling,
			Initial: sc.InitialMaxZoom,
		},
		Projects: ingest.DefaultProjects(),
		Targets:  ingest.DefaultTargets(),
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg.Unlocks = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Unlocks == nil {
		cfg.Unlocks = Default().Unlocks
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem found, joined into one error.
func (c Config) Validate() error {
	var problems []string

	if c.DataDir == "" {
		problems = append(problems, "data_dir is empty")
	}
	if c.Slot == "" {
		problems = append(problems, "slot is empty")
	}
	if !validKind(c.Store.Kind) {
		problems = append(problems, fmt.Sprintf("store.kind %q is not one of %s", c.Store.Kind, strings.Join(persist.Kinds, ", ")))
	}
	if c.Seed == "" {
		problems = append(problems, "seed is empty")
	}
	if c.Zoom.Base <= 0 {
		problems = append(problems, "zoom.base must be positive")
	}
	if c.Zoom.Step < 0 {
		problems = append(problems, "zoom.step must not be negative")
	}
	if c.Zoom.Ceiling < c.Zoom.Base {
		problems = append(problems, fmt.Sprintf("zoom.ceiling %.2f is below zoom.base %.2f", c.Zoom.Ceiling, c.Zoom.Base))
	}
	if c.Zoom.Initial < c.Zoom.Base || c.Zoom.Initial > c.Zoom.Ceiling {
		problems = append(problems, fmt.Sprintf("zoom.initial %.2f is outside [base, ceiling]", c.Zoom.Initial))
	}
	if c.LogLevel != "" && !logging.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("log_level %q is not debug, info, warn or error", c.LogLevel))
	}

	projects := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("project %q has no id", p.Title))
			continue
		}
		projects[p.ID] = true
	}
	for _, t := range c.Targets {
		if !projects[t.ProjectID] {
			problems = append(problems, fmt.Sprintf("target %s %s references unknown project %q", t.BayerPattern, t.Constellation, t.ProjectID))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config:\n  - " + strings.Join(problems, "\n  - "))
}

func validKind(kind string) bool {
	for _, k := range persist.Kinds {
		if strings.EqualFold(kind, k) {
			return true
		}
	}
	return false
}

// StorePath returns the effective store location.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch strings.ToLower(c.Store.Kind) {
	case persist.KindSQLite:
		return filepath.Join(c.DataDir, "stellar.db")
	case persist.KindMemory:
		return ""
	default:
		return filepath.Join(c.DataDir, "saves")
	}
}

// OpenStore opens the configured save slot backend.
func (c Config) OpenStore() (persist.Store, error) {
	return persist.Open(c.Store.Kind, c.StorePath())
}

// StateConfig converts to the state manager configuration.
func (c Config) StateConfig() state.Config {
	sc := state.DefaultConfig()
	sc.Seed = c.Seed
	sc.Unlocks = c.Unlocks
	sc.BaseZoom = c.Zoom.Base
	sc.ZoomStep = c.Zoom.Step
	sc.MaxZoomCeiling = c.Zoom.Ceiling
	sc.InitialMaxZoom = c.Zoom.Initial
	return sc
}
