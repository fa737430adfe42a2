package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Fixture file names, shared with the ingest tool.
const (
	NavigableStarsFile  = "navigableStars.json"
	ConstellationsFile  = "processedConstellations.json"
	BackgroundStarsFile = "backgroundStars.json"
	AssignmentsFile     = "projectAssignments.json"
)

// Load reads the fixtures from dir. The star and constellation files are
// required; background stars and project assignments are optional.
func Load(dir string) (*Catalog, error) {
	cat := &Catalog{
		Constellations: make(map[string]Constellation),
		Assignments:    make(map[string]ProjectAssignment),
	}

	if err := readJSON(filepath.Join(dir, NavigableStarsFile), &cat.Stars); err != nil {
		return nil, err
	}

	var raw map[string]Constellation
	if err := readJSON(filepath.Join(dir, ConstellationsFile), &raw); err != nil {
		return nil, err
	}
	cat.Constellations = NormalizeConstellations(raw)

	if err := readOptionalJSON(filepath.Join(dir, BackgroundStarsFile), &cat.Background); err != nil {
		return nil, err
	}
	if err := readOptionalJSON(filepath.Join(dir, AssignmentsFile), &cat.Assignments); err != nil {
		return nil, err
	}
	if cat.Assignments == nil {
		cat.Assignments = make(map[string]ProjectAssignment)
	}

	return cat, nil
}

// NormalizeConstellations lower-cases map keys and clears the discovered
// flag, which belongs to the session rather than the catalog.
func NormalizeConstellations(in map[string]Constellation) map[string]Constellation {
	out := make(map[string]Constellation, len(in))
	for key, c := range in {
		c.Discovered = false
		if c.ID == "" {
			c.ID = strings.ToLower(key)
		}
		out[strings.ToLower(key)] = c
	}
	return out
}

// Write stores the catalog as indented JSON fixtures in dir. Constellations
// are keyed by abbreviation, matching the ingest output.
func Write(dir string, cat *Catalog) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	byAbbr := make(map[string]Constellation, len(cat.Constellations))
	for key, c := range cat.Constellations {
		if c.Abbr != "" {
			key = c.Abbr
		}
		c.Discovered = false
		byAbbr[key] = c
	}

	background := cat.Background
	if background == nil {
		background = []BackgroundStar{}
	}
	assignments := cat.Assignments
	if assignments == nil {
		assignments = map[string]ProjectAssignment{}
	}

	files := []struct {
		name string
		v    any
	}{
		{NavigableStarsFile, cat.Stars},
		{ConstellationsFile, byAbbr},
		{BackgroundStarsFile, background},
		{AssignmentsFile, assignments},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}

// EncodeJSON writes v as 2-space indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SortedConstellationIDs returns the constellation keys in lexical order.
func (c *Catalog) SortedConstellationIDs() []string {
	ids := make([]string, 0, len(c.Constellations))
	for id := range c.Constellations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readOptionalJSON(path string, v any) error {
	err := readJSON(path, v)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := EncodeJSON(f, v); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
