// Package state provides the navigation and discovery state for the star map.
//
// A Manager owns the session (current star, visited stars, unlocked and
// discovered constellations, zoom) together with a read-only keyed view of the
// catalog. All mutation goes through its actions; unknown ids are ignored
// rather than reported.
package state

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alchemypls/stellar/internal/catalog"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventStarVisited             EventType = "STAR_VISITED"
	EventConstellationDiscovered EventType = "CONSTELLATION_DISCOVERED"
	EventConstellationUnlocked   EventType = "CONSTELLATION_UNLOCKED"
	EventProgressReset           EventType = "PROGRESS_RESET"
)

// Event records a discovery milestone.
type Event struct {
	// Seq increases by one per event for the lifetime of the manager.
	Seq           uint64    `json:"seq"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	StarID        string    `json:"star_id,omitempty"`
	Constellation string    `json:"constellation,omitempty"`
}

// Session is the persistable part of the state. Sets are held as sorted,
// duplicate-free slices.
type Session struct {
	CurrentStarID            string   `json:"currentStarId"`
	VisitedStars             []string `json:"visitedStars"`
	UnlockedConstellations   []string `json:"unlockedConstellations"`
	DiscoveredConstellations []string `json:"discoveredConstellations"`
	CurrentConstellation     string   `json:"currentConstellation"`
	ZoomLevel                float64  `json:"zoomLevel"`
	MaxZoomLevel             float64  `json:"maxZoomLevel"`
}

// CompletionStats summarises exploration progress.
type CompletionStats struct {
	StarsFound              int `json:"starsFound"`
	TotalStars              int `json:"totalStars"`
	ConstellationsCompleted int `json:"constellationsCompleted"`
	TotalConstellations     int `json:"totalConstellations"`
}

// Config holds configuration for the state manager.
type Config struct {
	// Seed is the constellation unlocked from the start.
	Seed string
	// Unlocks maps a completed constellation to the ones it opens up.
	Unlocks map[string][]string

	BaseZoom       float64
	ZoomStep       float64
	MaxZoomCeiling float64
	InitialMaxZoom float64

	MaxEvents int
}

// DefaultConfig returns the stock unlock path starting from Orion.
func DefaultConfig() Config {
	return Config{
		Seed: "ori",
		Unlocks: map[string][]string{
			"ori": {"tau", "gem", "cma"},
			"tau": {"aur", "gem"},
			"gem": {"cnc", "leo"},
		},
		BaseZoom:       1.0,
		ZoomStep:       0.2,
		MaxZoomCeiling: 3.0,
		InitialMaxZoom: 1.2,
		MaxEvents:      50,
	}
}

// Manager holds the session and the catalog view with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	cfg Config

	// Catalog view (replaced wholesale by SetStarData / SetConstellationData)
	stars          map[string]catalog.Star
	starCount      int
	constellations map[string]catalog.Constellation

	// Session
	currentStarID string
	visited       map[string]struct{}
	unlocked      map[string]struct{}
	discovered    map[string]struct{}
	currentConst  string
	zoomLevel     float64
	maxZoomLevel  float64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
	eventSeq     uint64

	subscribers map[int]func(Session)
	nextSubID   int

	now func() time.Time
}

// NewManager creates a state manager with default session values.
func NewManager(cfg Config) *Manager {
	if cfg.Seed == "" {
		cfg.Seed = "ori"
	}
	cfg.Seed = strings.ToLower(cfg.Seed)
	if cfg.BaseZoom <= 0 {
		cfg.BaseZoom = 1.0
	}
	if cfg.MaxZoomCeiling < cfg.BaseZoom {
		cfg.MaxZoomCeiling = cfg.BaseZoom
	}
	if cfg.InitialMaxZoom <= 0 {
		cfg.InitialMaxZoom = cfg.BaseZoom
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}

	unlocks := make(map[string][]string, len(cfg.Unlocks))
	for k, v := range cfg.Unlocks {
		succ := make([]string, len(v))
		for i, id := range v {
			succ[i] = strings.ToLower(id)
		}
		unlocks[strings.ToLower(k)] = succ
	}
	cfg.Unlocks = unlocks

	m := &Manager{
		cfg:            cfg,
		stars:          make(map[string]catalog.Star),
		constellations: make(map[string]catalog.Constellation),
		maxEvents:      maxEvents,
		events:         make([]Event, 0, maxEvents),
		subscribers:    make(map[int]func(Session)),
		now:            time.Now,
	}
	m.resetSession()
	return m
}

// resetSession restores the session defaults. Caller holds the lock.
func (m *Manager) resetSession() {
	m.currentStarID = ""
	m.visited = make(map[string]struct{})
	m.unlocked = map[string]struct{}{m.cfg.Seed: {}}
	m.discovered = make(map[string]struct{})
	m.currentConst = m.cfg.Seed
	m.zoomLevel = m.cfg.BaseZoom
	m.maxZoomLevel = m.cfg.InitialMaxZoom
}

// SetStarData replaces the star view with the given stars keyed by id.
func (m *Manager) SetStarData(stars []catalog.Star) {
	m.mu.Lock()
	m.stars = make(map[string]catalog.Star, len(stars))
	for _, s := range stars {
		m.stars[s.ID] = s
	}
	m.starCount = len(m.stars)
	m.mu.Unlock()

	m.notify()
}

// SetConstellationData replaces the constellation view. Keys are lower-cased.
func (m *Manager) SetConstellationData(constellations map[string]catalog.Constellation) {
	m.mu.Lock()
	m.constellations = catalog.NormalizeConstellations(constellations)
	m.mu.Unlock()

	m.notify()
}

// Hydrate loads both halves of the catalog in one step.
func (m *Manager) Hydrate(cat *catalog.Catalog) {
	m.mu.Lock()
	m.stars = make(map[string]catalog.Star, len(cat.Stars))
	for _, s := range cat.Stars {
		m.stars[s.ID] = s
	}
	m.starCount = len(m.stars)
	m.constellations = catalog.NormalizeConstellations(cat.Constellations)
	m.mu.Unlock()

	m.notify()
}

// SetCurrentStar moves to the given star and visits it. Unknown ids are
// ignored.
func (m *Manager) SetCurrentStar(starID string) {
	m.mu.Lock()
	star, ok := m.stars[starID]
	if !ok {
		m.mu.Unlock()
		return
	}
	m.currentStarID = starID
	m.currentConst = star.ConstellationID()
	m.visitLocked(starID)
	m.mu.Unlock()

	m.notify()
}

// VisitStar marks a star as visited and, when that completes its
// constellation, discovers it and unlocks the successors.
func (m *Manager) VisitStar(starID string) {
	m.mu.Lock()
	if _, ok := m.stars[starID]; !ok {
		m.mu.Unlock()
		return
	}
	m.visitLocked(starID)
	m.mu.Unlock()

	m.notify()
}

// visitLocked performs the visit. Caller holds the lock and has checked that
// the star exists.
func (m *Manager) visitLocked(starID string) {
	if _, seen := m.visited[starID]; !seen {
		m.visited[starID] = struct{}{}
		m.addEvent(Event{Type: EventStarVisited, StarID: starID})
	}

	constID := m.stars[starID].ConstellationID()
	if _, done := m.discovered[constID]; done {
		return
	}
	if !m.mainStarsVisitedLocked(constID) {
		return
	}

	m.discovered[constID] = struct{}{}
	m.addEvent(Event{Type: EventConstellationDiscovered, StarID: starID, Constellation: constID})

	for _, next := range m.cfg.Unlocks[constID] {
		m.unlockLocked(next)
	}

	maxZoom := math.Min(m.cfg.MaxZoomCeiling, m.cfg.BaseZoom+m.cfg.ZoomStep*float64(len(m.unlocked)))
	if maxZoom > m.maxZoomLevel {
		m.maxZoomLevel = maxZoom
	}
}

// UnlockConstellation makes a constellation reachable.
func (m *Manager) UnlockConstellation(constellationID string) {
	m.mu.Lock()
	m.unlockLocked(strings.ToLower(constellationID))
	m.mu.Unlock()

	m.notify()
}

func (m *Manager) unlockLocked(id string) {
	if _, ok := m.unlocked[id]; ok {
		return
	}
	m.unlocked[id] = struct{}{}
	m.addEvent(Event{Type: EventConstellationUnlocked, Constellation: id})
}

// SetZoomLevel sets the zoom, clamped to [base, maxZoomLevel].
func (m *Manager) SetZoomLevel(z float64) {
	m.mu.Lock()
	switch {
	case math.IsNaN(z):
		m.mu.Unlock()
		return
	case z < m.cfg.BaseZoom:
		z = m.cfg.BaseZoom
	case z > m.maxZoomLevel:
		z = m.maxZoomLevel
	}
	m.zoomLevel = z
	m.mu.Unlock()

	m.notify()
}

// Move travels to the nearest star in the given direction, if there is one.
func (m *Manager) Move(dir Direction) (NavigationOption, bool) {
	for _, opt := range m.NavigationOptions() {
		if opt.Direction == dir {
			m.SetCurrentStar(opt.StarID)
			return opt, true
		}
	}
	return NavigationOption{}, false
}

// ResetProgress restores the session defaults. The catalog is kept.
func (m *Manager) ResetProgress() {
	m.mu.Lock()
	m.resetSession()
	m.addEvent(Event{Type: EventProgressReset})
	m.mu.Unlock()

	m.notify()
}

// Restore replaces the session with a persisted one. Visited stars missing
// from the catalog are dropped, a discovered latch is kept only when the
// constellation exists and all its main stars are visited, and the seed
// constellation is always unlocked.
func (m *Manager) Restore(s Session) {
	m.mu.Lock()
	m.resetSession()

	for _, id := range s.VisitedStars {
		if _, ok := m.stars[id]; ok {
			m.visited[id] = struct{}{}
		}
	}
	for _, id := range s.UnlockedConstellations {
		m.unlocked[strings.ToLower(id)] = struct{}{}
	}
	for _, id := range s.DiscoveredConstellations {
		id = strings.ToLower(id)
		if m.mainStarsVisitedLocked(id) {
			m.discovered[id] = struct{}{}
		}
	}
	if star, ok := m.stars[s.CurrentStarID]; ok {
		m.currentStarID = star.ID
		m.currentConst = star.ConstellationID()
	}
	if s.MaxZoomLevel > m.maxZoomLevel {
		m.maxZoomLevel = math.Min(s.MaxZoomLevel, m.cfg.MaxZoomCeiling)
	}
	if s.ZoomLevel >= m.cfg.BaseZoom && s.ZoomLevel <= m.maxZoomLevel {
		m.zoomLevel = s.ZoomLevel
	}
	m.mu.Unlock()

	m.notify()
}

// mainStarsVisitedLocked reports whether the constellation exists and every
// one of its main stars is visited. Caller holds the lock.
func (m *Manager) mainStarsVisitedLocked(constID string) bool {
	c, ok := m.constellations[constID]
	if !ok {
		return false
	}
	for _, id := range c.MainStars {
		if _, seen := m.visited[id]; !seen {
			return false
		}
	}
	return true
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// notify calls subscribers with the current session. Must be called without
// the lock held.
func (m *Manager) notify() {
	m.mu.RLock()
	if len(m.subscribers) == 0 {
		m.mu.RUnlock()
		return
	}
	ids := make([]int, 0, len(m.subscribers))
	for id := range m.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Session), len(ids))
	for i, id := range ids {
		fns[i] = m.subscribers[id]
	}
	sess := m.sessionLocked()
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	m.eventSeq++
	e.Seq = m.eventSeq
	if e.Timestamp.IsZero() {
		e.Timestamp = m.now()
	}
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
