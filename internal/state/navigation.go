package state

import (
	"math"
	"sort"
	"strings"

	"github.com/alchemypls/stellar/internal/catalog"
)

// Direction is one of the four screen directions a move can take.
type Direction string

const (
	DirUp    Direction = "up"
	DirRight Direction = "right"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
)

// Directions lists directions in the order navigation options are reported.
var Directions = []Direction{DirUp, DirRight, DirDown, DirLeft}

// ParseDirection accepts a direction name or a vi-style key.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "up", "k":
		return DirUp, true
	case "right", "l":
		return DirRight, true
	case "down", "j":
		return DirDown, true
	case "left", "h":
		return DirLeft, true
	}
	return "", false
}

// NavigationOption is the closest star in one direction.
type NavigationOption struct {
	Direction Direction `json:"direction"`
	StarID    string    `json:"starId"`
	Distance  float64   `json:"distance"`
}

// classify maps a screen angle in degrees (y down) to a direction. Boundary
// angles go to the first branch that matches.
func classify(angle float64) Direction {
	switch {
	case angle >= -45 && angle <= 45:
		return DirRight
	case angle >= 45 && angle <= 135:
		return DirDown
	case angle >= -135 && angle <= -45:
		return DirUp
	default:
		return DirLeft
	}
}

// NavigationOptions returns, for each direction, the closest other star of
// the current constellation. Connections are not consulted.
func (m *Manager) NavigationOptions() []NavigationOption {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.navigationOptionsLocked()
}

func (m *Manager) navigationOptionsLocked() []NavigationOption {
	current, ok := m.stars[m.currentStarID]
	if !ok {
		return nil
	}
	c, ok := m.constellations[current.ConstellationID()]
	if !ok {
		return nil
	}

	best := make(map[Direction]NavigationOption, 4)
	for _, id := range c.Stars {
		if id == current.ID {
			continue
		}
		s, ok := m.stars[id]
		if !ok {
			continue
		}
		dx := s.DisplayX - current.DisplayX
		dy := s.DisplayY - current.DisplayY
		dist := math.Hypot(dx, dy)
		dir := classify(math.Atan2(dy, dx) * 180 / math.Pi)

		if prev, seen := best[dir]; !seen || dist < prev.Distance {
			best[dir] = NavigationOption{Direction: dir, StarID: id, Distance: dist}
		}
	}

	out := make([]NavigationOption, 0, len(best))
	for _, dir := range Directions {
		if opt, ok := best[dir]; ok {
			out = append(out, opt)
		}
	}
	return out
}

// CanNavigateTo reports whether the target shares an edge with the current
// star inside an unlocked constellation.
func (m *Manager) CanNavigateTo(starID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	current, ok := m.stars[m.currentStarID]
	if !ok {
		return false
	}
	target, ok := m.stars[starID]
	if !ok {
		return false
	}
	constID := target.ConstellationID()
	if _, ok := m.unlocked[constID]; !ok {
		return false
	}
	if constID != current.ConstellationID() {
		return false
	}
	c, ok := m.constellations[constID]
	if !ok {
		return false
	}
	return c.Connected(current.ID, target.ID)
}

// CompletionStats returns exploration progress.
func (m *Manager) CompletionStats() CompletionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.statsLocked()
}

func (m *Manager) statsLocked() CompletionStats {
	completed := 0
	for id := range m.constellations {
		if _, ok := m.discovered[id]; ok {
			completed++
		}
	}
	return CompletionStats{
		StarsFound:              len(m.visited),
		TotalStars:              m.starCount,
		ConstellationsCompleted: completed,
		TotalConstellations:     len(m.constellations),
	}
}

// Constellation returns the constellation with its discovered flag set from
// the session.
func (m *Manager) Constellation(id string) (catalog.Constellation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id = strings.ToLower(id)
	c, ok := m.constellations[id]
	if !ok {
		return catalog.Constellation{}, false
	}
	_, c.Discovered = m.discovered[id]
	return c, true
}

// Star returns a star from the catalog view.
func (m *Manager) Star(id string) (catalog.Star, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stars[id]
	return s, ok
}

// Session returns the persistable session record.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sessionLocked()
}

func (m *Manager) sessionLocked() Session {
	return Session{
		CurrentStarID:            m.currentStarID,
		VisitedStars:             sortedKeys(m.visited),
		UnlockedConstellations:   sortedKeys(m.unlocked),
		DiscoveredConstellations: sortedKeys(m.discovered),
		CurrentConstellation:     m.currentConst,
		ZoomLevel:                m.zoomLevel,
		MaxZoomLevel:             m.maxZoomLevel,
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Session
	CurrentStar    *catalog.Star
	Options        []NavigationOption
	Stats          CompletionStats
	Constellations map[string]catalog.Constellation
	Visited        map[string]bool
	Unlocked       map[string]bool
	Events         []Event
}

// IsVisited reports whether the star has been visited.
func (s Snapshot) IsVisited(id string) bool {
	return s.Visited[id]
}

// IsUnlocked reports whether the constellation is reachable.
func (s Snapshot) IsUnlocked(id string) bool {
	return s.Unlocked[strings.ToLower(id)]
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Session:        m.sessionLocked(),
		Options:        m.navigationOptionsLocked(),
		Stats:          m.statsLocked(),
		Constellations: make(map[string]catalog.Constellation, len(m.constellations)),
		Visited:        make(map[string]bool, len(m.visited)),
		Unlocked:       make(map[string]bool, len(m.unlocked)),
		Events:         m.getEventsOrdered(),
	}

	if s, ok := m.stars[m.currentStarID]; ok {
		snap.CurrentStar = &s
	}
	for id, c := range m.constellations {
		_, c.Discovered = m.discovered[id]
		snap.Constellations[id] = c
	}
	for id := range m.visited {
		snap.Visited[id] = true
	}
	for id := range m.unlocked {
		snap.Unlocked[id] = true
	}
	return snap
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
