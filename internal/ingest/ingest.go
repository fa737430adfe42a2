// Package ingest converts the HYG star database CSV into the catalog
// fixtures: navigable stars, background stars and constellations.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/alchemypls/stellar/internal/astro"
	"github.com/alchemypls/stellar/internal/catalog"
)

// Options controls which stars are kept and how they are classified.
type Options struct {
	// Include lists constellation abbreviations to keep ("Ori", "UMa", ...).
	Include []string
	// Names maps abbreviations to full constellation names.
	Names map[string]string
	// Notable lists, per constellation, the designations of its main stars.
	Notable map[string][]string
	// Connections lists constellation lines as designation pairs.
	Connections map[string][][2]string

	MaxMag       float64 // dimmer stars are dropped
	NavigableMag float64 // brighter stars are navigable even when not notable
	Width        float64
	Height       float64
}

// DefaultOptions returns the stock 25-constellation configuration.
func DefaultOptions() Options {
	p := astro.DefaultProjection()
	return Options{
		Include:      defaultInclude,
		Names:        defaultNames,
		Notable:      defaultNotable,
		Connections:  defaultConnections,
		MaxMag:       6.5,
		NavigableMag: 3.0,
		Width:        p.Width,
		Height:       p.Height,
	}
}

// Counts summarises a processing run.
type Counts struct {
	Records        int `json:"records"`
	Kept           int `json:"kept"`
	Navigable      int `json:"navigable"`
	Background     int `json:"background"`
	Constellations int `json:"constellations"`
	MainStars      int `json:"mainStars"`
	Connections    int `json:"connections"`
}

// Result holds the processed fixtures.
type Result struct {
	Stars          []catalog.Star
	Background     []catalog.BackgroundStar
	Constellations map[string]catalog.Constellation // keyed by abbreviation
	Counts         Counts
}

// Catalog assembles a catalog from the result with the given assignments.
func (r *Result) Catalog(assignments map[string]catalog.ProjectAssignment) *catalog.Catalog {
	if assignments == nil {
		assignments = make(map[string]catalog.ProjectAssignment)
	}
	return &catalog.Catalog{
		Stars:          r.Stars,
		Constellations: catalog.NormalizeConstellations(r.Constellations),
		Background:     r.Background,
		Assignments:    assignments,
	}
}

// required CSV columns
var requiredColumns = []string{"id", "con", "mag", "rarad", "decrad"}

var separatorRun = regexp.MustCompile(`[\s/\\]+`)

// parsed is a kept star plus the designations it can be matched by.
type parsed struct {
	star         catalog.Star
	designations []string
}

// Process reads a HYG CSV (with header row) and classifies its stars.
func Process(r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty input")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	include := make(map[string]bool, len(opts.Include))
	for _, abbr := range opts.Include {
		include[abbr] = true
	}
	notable := make(map[string]map[string]bool, len(opts.Notable))
	for abbr, list := range opts.Notable {
		set := make(map[string]bool, len(list))
		for _, d := range list {
			set[d] = true
		}
		notable[abbr] = set
	}

	consts := make(map[string]*catalog.Constellation, len(opts.Include))
	for _, abbr := range opts.Include {
		name := opts.Names[abbr]
		if name == "" {
			name = abbr
		}
		consts[abbr] = &catalog.Constellation{
			ID:          strings.ToLower(abbr),
			Abbr:        abbr,
			Name:        name,
			Description: fmt.Sprintf("The %s constellation", name),
			Stars:       []string{},
			MainStars:   []string{},
			Connections: [][2]string{},
		}
	}

	proj := astro.Projection{Width: opts.Width, Height: opts.Height}
	res := &Result{}
	byID := make(map[string]int)
	var kept []parsed

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", res.Counts.Records+1, err)
		}
		res.Counts.Records++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		con := field("con")
		if con == "" || !include[con] {
			continue
		}
		if mag, err := strconv.ParseFloat(field("mag"), 64); err == nil && mag > opts.MaxMag {
			continue
		}

		p := parseStar(field, con, proj)
		p.star.IsNavigable = isNotable(notable[con], p.designations)

		if i, dup := byID[p.star.ID]; dup {
			kept[i] = p
		} else {
			byID[p.star.ID] = len(kept)
			kept = append(kept, p)
		}

		c := consts[con]
		if !contains(c.Stars, p.star.ID) {
			c.Stars = append(c.Stars, p.star.ID)
		}
		if p.star.IsNavigable && !contains(c.MainStars, p.star.ID) {
			c.MainStars = append(c.MainStars, p.star.ID)
		}
	}
	res.Counts.Kept = len(kept)

	for _, abbr := range opts.Include {
		c := consts[abbr]
		for _, pair := range opts.Connections[abbr] {
			a, okA := findByDesignation(kept, abbr, pair[0])
			b, okB := findByDesignation(kept, abbr, pair[1])
			if okA && okB {
				c.Connections = append(c.Connections, [2]string{a, b})
			}
		}
	}

	res.Stars = []catalog.Star{}
	res.Background = []catalog.BackgroundStar{}
	for _, p := range kept {
		s := p.star
		if s.IsNavigable || s.Mag < opts.NavigableMag {
			res.Stars = append(res.Stars, s)
		}
		if !s.IsNavigable && s.Mag > opts.NavigableMag && s.Mag <= opts.MaxMag {
			res.Background = append(res.Background, catalog.BackgroundStar{
				X:     s.DisplayX,
				Y:     s.DisplayY,
				Mag:   s.Mag,
				Color: s.Color,
			})
		}
	}

	res.Constellations = make(map[string]catalog.Constellation, len(consts))
	for abbr, c := range consts {
		res.Constellations[abbr] = *c
		res.Counts.MainStars += len(c.MainStars)
		res.Counts.Connections += len(c.Connections)
	}
	res.Counts.Navigable = len(res.Stars)
	res.Counts.Background = len(res.Background)
	res.Counts.Constellations = len(res.Constellations)

	return res, nil
}

func parseStar(field func(string) string, con string, proj astro.Projection) parsed {
	proper := field("proper")

	var id string
	if proper != "" {
		id = StarID(proper)
	} else {
		id = strings.ToLower(con) + "-" + field("id")
	}

	x, y := proj.Project(parseFloat(field("rarad")), parseFloat(field("decrad")))

	bayer := astro.ExpandBayer(field("bayer"))
	flam := field("flam")
	designation := joinNonEmpty(bayer, flam)
	if designation != "" {
		designation += " " + con
	}

	var designations []string
	if designation != "" {
		designations = append(designations, designation)
		if bayer != "" && flam != "" {
			designations = append(designations, bayer+" "+con, flam+" "+con)
		}
	}

	name := proper
	if name == "" {
		name = designation
	}
	if name == "" {
		name = "Star " + field("id")
	}

	hip, _ := strconv.Atoi(field("hip"))

	return parsed{
		star: catalog.Star{
			ID:            id,
			HipID:         hip,
			Proper:        name,
			RA:            parseFloat(field("ra")),
			Dec:           parseFloat(field("dec")),
			Mag:           parseFloat(field("mag")),
			AbsMag:        parseFloat(field("absmag")),
			Dist:          parseFloat(field("dist")),
			ColorIndex:    parseFloat(field("ci")),
			Spectrum:      field("spect"),
			X:             parseFloat(field("x")),
			Y:             parseFloat(field("y")),
			Z:             parseFloat(field("z")),
			Constellation: con,
			Bayer:         designation,
			DisplayX:      x,
			DisplayY:      y,
			Color:         astro.SpectralColor(field("spect")),
			Type:          catalog.TypeCosmic,
		},
		designations: designations,
	}
}

// StarID derives a stable id from a proper name: NFC-normalised,
// lower-cased, runs of whitespace and path separators replaced by '-'.
func StarID(proper string) string {
	s := norm.NFC.String(strings.TrimSpace(proper))
	s = separatorRun.ReplaceAllString(s, "-")
	return cases.Lower(language.Und).String(s)
}

func isNotable(set map[string]bool, designations []string) bool {
	for _, d := range designations {
		if set[d] {
			return true
		}
	}
	return false
}

func findByDesignation(stars []parsed, con, designation string) (string, bool) {
	for _, p := range stars {
		if p.star.Constellation != con {
			continue
		}
		for _, d := range p.designations {
			if d == designation {
				return p.star.ID, true
			}
		}
	}
	return "", false
}

// parseFloat returns 0 for empty, malformed or NaN values.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
