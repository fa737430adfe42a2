package state

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/alchemypls/stellar/internal/catalog"
)

// abcManager builds the three-star Orion example: A(0,0), B(10,0), C(0,10).
func abcManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager(DefaultConfig())
	m.SetStarData([]catalog.Star{
		{ID: "A", Constellation: "Ori", DisplayX: 0, DisplayY: 0},
		{ID: "B", Constellation: "Ori", DisplayX: 10, DisplayY: 0},
		{ID: "C", Constellation: "Ori", DisplayX: 0, DisplayY: 10},
	})
	m.SetConstellationData(map[string]catalog.Constellation{
		"Ori": {
			Abbr:        "Ori",
			Name:        "Orion",
			Stars:       []string{"A", "B", "C"},
			MainStars:   []string{"A", "B", "C"},
			Connections: [][2]string{{"A", "B"}, {"B", "C"}},
		},
	})
	return m
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	s := m.Session()
	if s.CurrentStarID != "" {
		t.Errorf("CurrentStarID = %q, want empty", s.CurrentStarID)
	}
	if len(s.VisitedStars) != 0 {
		t.Errorf("VisitedStars = %v, want empty", s.VisitedStars)
	}
	if !reflect.DeepEqual(s.UnlockedConstellations, []string{"ori"}) {
		t.Errorf("UnlockedConstellations = %v, want [ori]", s.UnlockedConstellations)
	}
	if s.CurrentConstellation != "ori" {
		t.Errorf("CurrentConstellation = %q, want ori", s.CurrentConstellation)
	}
	if s.ZoomLevel != 1.0 {
		t.Errorf("ZoomLevel = %v, want 1.0", s.ZoomLevel)
	}
	if s.MaxZoomLevel != 1.2 {
		t.Errorf("MaxZoomLevel = %v, want 1.2", s.MaxZoomLevel)
	}
}

func TestSetConstellationData_LowerCasesKeys(t *testing.T) {
	m := abcManager(t)

	if _, ok := m.Constellation("ori"); !ok {
		t.Error("ori should be present")
	}
	if _, ok := m.Constellation("Ori"); !ok {
		t.Error("lookup should be case-insensitive")
	}
}

func TestSetCurrentStar(t *testing.T) {
	m := abcManager(t)
	m.SetCurrentStar("B")

	s := m.Session()
	if s.CurrentStarID != "B" {
		t.Errorf("CurrentStarID = %q, want B", s.CurrentStarID)
	}
	if s.CurrentConstellation != "ori" {
		t.Errorf("CurrentConstellation = %q, want ori", s.CurrentConstellation)
	}
	if !reflect.DeepEqual(s.VisitedStars, []string{"B"}) {
		t.Errorf("VisitedStars = %v, want [B]", s.VisitedStars)
	}
}

func TestSetCurrentStar_UnknownIsNoop(t *testing.T) {
	m := abcManager(t)
	m.SetCurrentStar("A")

	calls := 0
	m.Subscribe(func(Session) { calls++ })

	m.SetCurrentStar("nope")

	if got := m.Session().CurrentStarID; got != "A" {
		t.Errorf("CurrentStarID = %q, want A", got)
	}
	if calls != 0 {
		t.Errorf("subscriber called %d times for a no-op", calls)
	}
}

func TestVisitStar_Idempotent(t *testing.T) {
	once := abcManager(t)
	once.VisitStar("A")

	twice := abcManager(t)
	twice.VisitStar("A")
	twice.VisitStar("A")

	if !reflect.DeepEqual(once.Session().VisitedStars, twice.Session().VisitedStars) {
		t.Errorf("visited differs: %v vs %v", once.Session().VisitedStars, twice.Session().VisitedStars)
	}
}

func TestVisitStar_UnknownIgnored(t *testing.T) {
	m := abcManager(t)
	m.VisitStar("ghost")

	if n := len(m.Session().VisitedStars); n != 0 {
		t.Errorf("VisitedStars len = %d, want 0", n)
	}
}

func TestDiscovery(t *testing.T) {
	m := abcManager(t)

	for _, id := range []string{"A", "B"} {
		m.VisitStar(id)
		c, _ := m.Constellation("ori")
		if c.Discovered {
			t.Fatalf("ori discovered after visiting only up to %s", id)
		}
	}

	m.VisitStar("C")

	c, _ := m.Constellation("ori")
	if !c.Discovered {
		t.Fatal("ori should be discovered after visiting all main stars")
	}

	s := m.Session()
	want := []string{"cma", "gem", "ori", "tau"}
	if !reflect.DeepEqual(s.UnlockedConstellations, want) {
		t.Errorf("UnlockedConstellations = %v, want %v", s.UnlockedConstellations, want)
	}
	if s.MaxZoomLevel != 1.8 {
		t.Errorf("MaxZoomLevel = %v, want 1.8", s.MaxZoomLevel)
	}

	stats := m.CompletionStats()
	wantStats := CompletionStats{StarsFound: 3, TotalStars: 3, ConstellationsCompleted: 1, TotalConstellations: 1}
	if stats != wantStats {
		t.Errorf("CompletionStats = %+v, want %+v", stats, wantStats)
	}
}

func TestDiscovery_LatchHoldsAcrossCatalogReload(t *testing.T) {
	m := abcManager(t)
	for _, id := range []string{"A", "B", "C"} {
		m.VisitStar(id)
	}

	// Reloading constellations must not clear the latch.
	m.SetConstellationData(map[string]catalog.Constellation{
		"ori": {Abbr: "Ori", Stars: []string{"A", "B", "C"}, MainStars: []string{"A", "B", "C", "D"}},
	})

	c, _ := m.Constellation("ori")
	if !c.Discovered {
		t.Error("discovered latch should survive catalog reload")
	}
}

func TestDiscovery_EventsRecordedOnce(t *testing.T) {
	m := abcManager(t)
	for _, id := range []string{"A", "B", "C", "A", "C"} {
		m.VisitStar(id)
	}

	counts := make(map[EventType]int)
	for _, e := range m.RecentEvents(100) {
		counts[e.Type]++
	}

	if counts[EventStarVisited] != 3 {
		t.Errorf("STAR_VISITED = %d, want 3", counts[EventStarVisited])
	}
	if counts[EventConstellationDiscovered] != 1 {
		t.Errorf("CONSTELLATION_DISCOVERED = %d, want 1", counts[EventConstellationDiscovered])
	}
	if counts[EventConstellationUnlocked] != 3 {
		t.Errorf("CONSTELLATION_UNLOCKED = %d, want 3", counts[EventConstellationUnlocked])
	}
}

func TestMaxZoomCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Unlocks = map[string][]string{
		"ori": {"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
	}
	m := NewManager(cfg)
	m.SetStarData([]catalog.Star{{ID: "x", Constellation: "Ori"}})
	m.SetConstellationData(map[string]catalog.Constellation{
		"ori": {Stars: []string{"x"}, MainStars: []string{"x"}},
	})

	m.VisitStar("x")

	if got := m.Session().MaxZoomLevel; got != 3.0 {
		t.Errorf("MaxZoomLevel = %v, want 3.0", got)
	}
}

func TestUnlockConstellation(t *testing.T) {
	m := abcManager(t)
	m.UnlockConstellation("LYR")

	if !m.Snapshot().IsUnlocked("lyr") {
		t.Error("lyr should be unlocked")
	}
	if got := m.Session().MaxZoomLevel; got != 1.2 {
		t.Errorf("manual unlock changed MaxZoomLevel to %v", got)
	}
}

func TestSetZoomLevel_Clamped(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 1.0},
		{1.1, 1.1},
		{5.0, 1.2},
	}

	for _, tt := range tests {
		m := abcManager(t)
		m.SetZoomLevel(tt.in)
		if got := m.Session().ZoomLevel; got != tt.want {
			t.Errorf("SetZoomLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResetProgress(t *testing.T) {
	m := abcManager(t)
	m.SetCurrentStar("A")
	m.SetCurrentStar("B")
	m.SetCurrentStar("C")
	m.SetZoomLevel(1.5)

	m.ResetProgress()

	s := m.Session()
	if s.CurrentStarID != "" {
		t.Errorf("CurrentStarID = %q, want empty", s.CurrentStarID)
	}
	if len(s.VisitedStars) != 0 {
		t.Errorf("VisitedStars = %v, want empty", s.VisitedStars)
	}
	if !reflect.DeepEqual(s.UnlockedConstellations, []string{"ori"}) {
		t.Errorf("UnlockedConstellations = %v, want [ori]", s.UnlockedConstellations)
	}
	if s.MaxZoomLevel != 1.2 {
		t.Errorf("MaxZoomLevel = %v, want 1.2", s.MaxZoomLevel)
	}
	if s.ZoomLevel != 1.0 {
		t.Errorf("ZoomLevel = %v, want 1.0", s.ZoomLevel)
	}
	if c, _ := m.Constellation("ori"); c.Discovered {
		t.Error("discovered should be cleared by reset")
	}

	// Catalog survives a reset
	if _, ok := m.Star("A"); !ok {
		t.Error("catalog should be kept after reset")
	}
}

func TestRestore(t *testing.T) {
	m := abcManager(t)

	m.Restore(Session{
		CurrentStarID:            "B",
		VisitedStars:             []string{"A", "B"},
		UnlockedConstellations:   []string{"tau"},
		DiscoveredConstellations: []string{"tau"},
		CurrentConstellation:     "ori",
		ZoomLevel:                1.4,
		MaxZoomLevel:             1.6,
	})

	s := m.Session()
	if s.CurrentStarID != "B" {
		t.Errorf("CurrentStarID = %q, want B", s.CurrentStarID)
	}
	if !reflect.DeepEqual(s.UnlockedConstellations, []string{"ori", "tau"}) {
		t.Errorf("UnlockedConstellations = %v, want [ori tau]", s.UnlockedConstellations)
	}
	if s.ZoomLevel != 1.4 || s.MaxZoomLevel != 1.6 {
		t.Errorf("zoom = %v/%v, want 1.4/1.6", s.ZoomLevel, s.MaxZoomLevel)
	}
}

func TestRestore_UnknownCurrentStarDropped(t *testing.T) {
	m := abcManager(t)
	m.Restore(Session{CurrentStarID: "ghost", VisitedStars: []string{"A"}})

	if got := m.Session().CurrentStarID; got != "" {
		t.Errorf("CurrentStarID = %q, want empty", got)
	}
}

func TestRestore_DropsUnknownVisited(t *testing.T) {
	m := abcManager(t)
	m.Restore(Session{VisitedStars: []string{"A", "ghost1", "ghost2", "ghost3"}})

	if got := m.Session().VisitedStars; !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("VisitedStars = %v, want [A]", got)
	}
	stats := m.CompletionStats()
	if stats.StarsFound != 1 || stats.TotalStars != 3 {
		t.Errorf("stars = %d/%d, want 1/3", stats.StarsFound, stats.TotalStars)
	}
}

func TestRestore_DiscoveredRequiresMainStars(t *testing.T) {
	tests := []struct {
		name    string
		visited []string
		want    int
	}{
		{"main stars missing", []string{"A"}, 0},
		{"all main stars visited", []string{"A", "B", "C"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := abcManager(t)
			m.Restore(Session{
				VisitedStars:             tt.visited,
				DiscoveredConstellations: []string{"ori", "lyr"},
			})

			if got := m.CompletionStats().ConstellationsCompleted; got != tt.want {
				t.Errorf("ConstellationsCompleted = %d, want %d", got, tt.want)
			}
			if got := m.Session().DiscoveredConstellations; len(got) != tt.want {
				t.Errorf("DiscoveredConstellations = %v", got)
			}
		})
	}
}

func TestRestore_ConstellationFollowsCurrentStar(t *testing.T) {
	m := abcManager(t)
	m.Restore(Session{CurrentStarID: "B", CurrentConstellation: "tau"})

	if got := m.Session().CurrentConstellation; got != "ori" {
		t.Errorf("CurrentConstellation = %q, want ori", got)
	}
}

func TestEvents_SequenceWithFixedClock(t *testing.T) {
	m := abcManager(t)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	for _, id := range []string{"A", "B", "C"} {
		m.VisitStar(id)
	}

	events := m.RecentEvents(100)
	if len(events) < 4 {
		t.Fatalf("events = %d, want at least 4", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq != events[i-1].Seq+1 {
			t.Errorf("events[%d].Seq = %d, want %d", i, events[i].Seq, events[i-1].Seq+1)
		}
	}
}

func TestSubscribe(t *testing.T) {
	m := abcManager(t)

	var got []Session
	unsub := m.Subscribe(func(s Session) { got = append(got, s) })

	m.SetCurrentStar("A")
	m.VisitStar("B")
	unsub()
	m.VisitStar("C")

	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if got[0].CurrentStarID != "A" {
		t.Errorf("first notification CurrentStarID = %q, want A", got[0].CurrentStarID)
	}
	if len(got[1].VisitedStars) != 2 {
		t.Errorf("second notification visited = %v", got[1].VisitedStars)
	}
}

func TestSubscribe_CanReadManager(t *testing.T) {
	m := abcManager(t)

	// Subscribers run after the lock is released and may query the manager.
	var stats CompletionStats
	m.Subscribe(func(Session) { stats = m.CompletionStats() })

	m.VisitStar("A")

	if stats.StarsFound != 1 {
		t.Errorf("StarsFound = %d, want 1", stats.StarsFound)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	stars := make([]catalog.Star, 10)
	for i := range stars {
		stars[i] = catalog.Star{ID: string(rune('a' + i)), Constellation: "Lyr"}
	}
	m.SetStarData(stars)

	for _, s := range stars {
		m.VisitStar(s.ID)
	}

	events := m.RecentEvents(100)
	if len(events) != 5 {
		t.Fatalf("Events count = %d, want 5", len(events))
	}
	if events[0].StarID != "f" || events[4].StarID != "j" {
		t.Errorf("events = %s..%s, want f..j", events[0].StarID, events[4].StarID)
	}

	if got := m.RecentEvents(2); len(got) != 2 || got[1].StarID != "j" {
		t.Errorf("RecentEvents(2) = %+v", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := abcManager(t)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Move(DirRight)
				m.SetCurrentStar("A")
			}
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Snapshot()
				_ = m.NavigationOptions()
				_ = m.CompletionStats()
			}
		}()
	}

	wg.Wait()
}
