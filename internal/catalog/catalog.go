// Package catalog defines the star map data model and reads and writes the
// JSON fixtures produced by the ingest tool.
package catalog

import "strings"

// StarType distinguishes project stars from purely decorative ones.
type StarType string

const (
	TypeProject StarType = "project"
	TypeCosmic  StarType = "cosmic"
)

// Star is a navigable catalog star. Display coordinates are in map units
// (0..10000 on both axes by default), y grows downward.
type Star struct {
	ID            string   `json:"id"`
	HipID         int      `json:"hipId,omitempty"`
	Proper        string   `json:"proper"`
	RA            float64  `json:"ra"`
	Dec           float64  `json:"dec"`
	Mag           float64  `json:"mag"` // apparent magnitude, lower = brighter
	AbsMag        float64  `json:"absMag"`
	Dist          float64  `json:"dist"`
	ColorIndex    float64  `json:"colorIndex"`
	Spectrum      string   `json:"spectrum"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Z             float64  `json:"z"`
	Constellation string   `json:"constellation"` // abbreviation, e.g. "Ori"
	Bayer         string   `json:"bayer,omitempty"`
	DisplayX      float64  `json:"displayX"`
	DisplayY      float64  `json:"displayY"`
	Color         string   `json:"color"`
	IsNavigable   bool     `json:"isNavigable"`
	Type          StarType `json:"type"`
}

// IsProject reports whether the star links to a project page.
func (s Star) IsProject() bool {
	return s.Type == TypeProject
}

// ConstellationID returns the lower-cased constellation key for the star.
func (s Star) ConstellationID() string {
	return strings.ToLower(s.Constellation)
}

// DisplayName returns the proper name, falling back to the id.
func (s Star) DisplayName() string {
	if s.Proper != "" {
		return s.Proper
	}
	return s.ID
}

// Constellation groups member stars. Connections are undirected edges used
// both for drawing and for on-rails navigation.
type Constellation struct {
	ID          string      `json:"id"`
	Abbr        string      `json:"abbr"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Stars       []string    `json:"stars"`
	MainStars   []string    `json:"mainStars"`
	Connections [][2]string `json:"connections"`
	Discovered  bool        `json:"discovered,omitempty"`
}

// Connected reports whether a and b share an edge.
func (c Constellation) Connected(a, b string) bool {
	for _, edge := range c.Connections {
		if (edge[0] == a && edge[1] == b) || (edge[0] == b && edge[1] == a) {
			return true
		}
	}
	return false
}

// DisplayName returns the full name, falling back to the id.
func (c Constellation) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// BackgroundStar is a dim decorative star with no identity.
type BackgroundStar struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Mag   float64 `json:"mag"`
	Color string  `json:"color"`
}

// ProjectLinks holds optional external links for a project.
type ProjectLinks struct {
	GitHub string `json:"github,omitempty" yaml:"github,omitempty"`
	Live   string `json:"live,omitempty" yaml:"live,omitempty"`
}

// Project is a portfolio entry attached to a star.
type Project struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Tech        []string     `json:"tech" yaml:"tech"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty"`
	Links       ProjectLinks `json:"links" yaml:"links"`
}

// ProjectAssignment binds a project to the star that hosts it.
type ProjectAssignment struct {
	StarID        string  `json:"starId"`
	StarName      string  `json:"starName"`
	Constellation string  `json:"constellation"`
	ProjectID     string  `json:"projectId"`
	Project       Project `json:"project"`
}

// Catalog is the full set of fixtures loaded at startup. It is read-only
// once built.
type Catalog struct {
	Stars          []Star
	Constellations map[string]Constellation
	Background     []BackgroundStar
	Assignments    map[string]ProjectAssignment
}

// Star returns the star with the given id.
func (c *Catalog) Star(id string) (Star, bool) {
	for _, s := range c.Stars {
		if s.ID == id {
			return s, true
		}
	}
	return Star{}, false
}

// ProjectFor returns the project assignment for a star, if any.
func (c *Catalog) ProjectFor(starID string) (ProjectAssignment, bool) {
	a, ok := c.Assignments[starID]
	return a, ok
}

// FirstInConstellation returns the first star belonging to the given
// constellation id (case-insensitive).
func (c *Catalog) FirstInConstellation(id string) (Star, bool) {
	id = strings.ToLower(id)
	for _, s := range c.Stars {
		if s.ConstellationID() == id {
			return s, true
		}
	}
	return Star{}, false
}

// StartStar resolves where a fresh session begins: the preferred star when
// it exists, otherwise the first star of the seed constellation.
func (c *Catalog) StartStar(preferred, seed string) (Star, bool) {
	if s, ok := c.Star(preferred); ok {
		return s, true
	}
	return c.FirstInConstellation(seed)
}
