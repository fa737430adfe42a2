package state

import (
	"reflect"
	"testing"

	"github.com/alchemypls/stellar/internal/catalog"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		angle float64
		want  Direction
	}{
		{0, DirRight},
		{45, DirRight},
		{-45, DirRight},
		{46, DirDown},
		{90, DirDown},
		{135, DirDown},
		{-90, DirUp},
		{-135, DirUp},
		{-46, DirUp},
		{136, DirLeft},
		{180, DirLeft},
		{-180, DirLeft},
		{-136, DirLeft},
	}

	for _, tt := range tests {
		if got := classify(tt.angle); got != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.angle, got, tt.want)
		}
	}
}

func TestNavigationOptions_Example(t *testing.T) {
	m := abcManager(t)
	m.SetCurrentStar("A")

	got := m.NavigationOptions()
	want := []NavigationOption{
		{Direction: DirRight, StarID: "B", Distance: 10},
		{Direction: DirDown, StarID: "C", Distance: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NavigationOptions = %+v, want %+v", got, want)
	}
}

func TestNavigationOptions_NoCurrentStar(t *testing.T) {
	m := abcManager(t)

	if got := m.NavigationOptions(); len(got) != 0 {
		t.Errorf("NavigationOptions = %+v, want none", got)
	}
}

func TestNavigationOptions_ClosestWinsAndOrder(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.SetStarData([]catalog.Star{
		{ID: "o", Constellation: "Ori", DisplayX: 100, DisplayY: 100},
		{ID: "near-r", Constellation: "Ori", DisplayX: 110, DisplayY: 102},
		{ID: "far-r", Constellation: "Ori", DisplayX: 150, DisplayY: 100},
		{ID: "up", Constellation: "Ori", DisplayX: 100, DisplayY: 40},
		{ID: "left", Constellation: "Ori", DisplayX: 20, DisplayY: 100},
		{ID: "down", Constellation: "Ori", DisplayX: 95, DisplayY: 180},
		{ID: "other", Constellation: "Tau", DisplayX: 101, DisplayY: 101},
	})
	m.SetConstellationData(map[string]catalog.Constellation{
		"ori": {Stars: []string{"o", "far-r", "near-r", "up", "left", "down"}},
		"tau": {Stars: []string{"other"}},
	})
	m.SetCurrentStar("o")

	opts := m.NavigationOptions()
	if len(opts) != 4 {
		t.Fatalf("options = %d, want 4", len(opts))
	}

	wantIDs := []string{"up", "near-r", "down", "left"}
	seen := make(map[Direction]bool)
	for i, opt := range opts {
		if opt.Direction != Directions[i] {
			t.Errorf("opts[%d].Direction = %s, want %s", i, opt.Direction, Directions[i])
		}
		if opt.StarID != wantIDs[i] {
			t.Errorf("opts[%d].StarID = %s, want %s", i, opt.StarID, wantIDs[i])
		}
		if opt.StarID == "o" {
			t.Error("current star must not be an option")
		}
		if seen[opt.Direction] {
			t.Errorf("duplicate direction %s", opt.Direction)
		}
		seen[opt.Direction] = true
	}
}

func TestNavigationOptions_TieKeepsFirst(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.SetStarData([]catalog.Star{
		{ID: "o", Constellation: "Ori"},
		{ID: "p", Constellation: "Ori", DisplayX: 10, DisplayY: 1},
		{ID: "q", Constellation: "Ori", DisplayX: 10, DisplayY: -1},
	})
	m.SetConstellationData(map[string]catalog.Constellation{
		"ori": {Stars: []string{"o", "p", "q"}},
	})
	m.SetCurrentStar("o")

	opts := m.NavigationOptions()
	if len(opts) != 1 || opts[0].StarID != "p" {
		t.Errorf("options = %+v, want only p", opts)
	}
}

func TestCanNavigateTo(t *testing.T) {
	m := abcManager(t)
	m.SetStarData([]catalog.Star{
		{ID: "A", Constellation: "Ori", DisplayX: 0, DisplayY: 0},
		{ID: "B", Constellation: "Ori", DisplayX: 10, DisplayY: 0},
		{ID: "C", Constellation: "Ori", DisplayX: 0, DisplayY: 10},
		{ID: "T", Constellation: "Tau"},
	})

	if m.CanNavigateTo("B") {
		t.Error("no current star: CanNavigateTo should be false")
	}

	m.SetCurrentStar("A")

	tests := []struct {
		target string
		want   bool
	}{
		{"B", true},
		{"C", false}, // no A-C edge
		{"T", false}, // different constellation, locked
		{"ghost", false},
	}
	for _, tt := range tests {
		if got := m.CanNavigateTo(tt.target); got != tt.want {
			t.Errorf("CanNavigateTo(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}

	// Unlocking does not allow cross-constellation moves
	m.UnlockConstellation("tau")
	if m.CanNavigateTo("T") {
		t.Error("cross-constellation move should be refused even when unlocked")
	}
}

func TestMove(t *testing.T) {
	m := abcManager(t)
	m.SetCurrentStar("A")

	opt, ok := m.Move(DirRight)
	if !ok || opt.StarID != "B" {
		t.Fatalf("Move(right) = %+v, %v", opt, ok)
	}
	if got := m.Session().CurrentStarID; got != "B" {
		t.Errorf("CurrentStarID = %q, want B", got)
	}

	if _, ok := m.Move(DirUp); ok {
		t.Error("Move(up) from B should find nothing")
	}
	if got := m.Session().CurrentStarID; got != "B" {
		t.Errorf("failed move changed CurrentStarID to %q", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"up", DirUp, true},
		{"RIGHT", DirRight, true},
		{"j", DirDown, true},
		{"h", DirLeft, true},
		{"north", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDirection(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDirection(%q) = %s, %v; want %s, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSnapshot(t *testing.T) {
	m := abcManager(t)
	m.SetCurrentStar("A")

	snap := m.Snapshot()
	if snap.CurrentStar == nil || snap.CurrentStar.ID != "A" {
		t.Fatalf("CurrentStar = %+v", snap.CurrentStar)
	}
	if !snap.IsVisited("A") || snap.IsVisited("B") {
		t.Error("visited flags wrong")
	}
	if len(snap.Options) != 2 {
		t.Errorf("Options = %d, want 2", len(snap.Options))
	}

	// Mutating the snapshot leaves the manager alone
	snap.Visited["B"] = true
	if m.Snapshot().IsVisited("B") {
		t.Error("snapshot should be a copy")
	}
}
