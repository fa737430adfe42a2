package ingest

import (
	"math"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/alchemypls/stellar/internal/catalog"
)

func processSample(t *testing.T) *Result {
	t.Helper()

	f, err := os.Open("testdata/hyg_sample.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	res, err := Process(f, DefaultOptions())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	return res
}

func TestProcess_Counts(t *testing.T) {
	res := processSample(t)

	want := Counts{
		Records:        10,
		Kept:           7,
		Navigable:      6,
		Background:     1,
		Constellations: 25,
		MainStars:      5,
		Connections:    3,
	}
	if res.Counts != want {
		t.Errorf("Counts = %+v, want %+v", res.Counts, want)
	}
}

func TestProcess_NavigableStars(t *testing.T) {
	res := processSample(t)

	var ids []string
	for _, s := range res.Stars {
		ids = append(ids, s.ID)
	}
	want := []string{"betelgeuse", "rigel", "bellatrix", "saiph", "vega", "aldebaran"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("navigable ids = %v, want %v", ids, want)
	}

	saiph := res.Stars[3]
	if saiph.IsNavigable {
		t.Error("saiph is not a main star and should not be marked navigable")
	}
}

func TestProcess_StarFields(t *testing.T) {
	res := processSample(t)
	b := res.Stars[0]

	if b.Bayer != "Alpha 58 Ori" {
		t.Errorf("Bayer = %q, want %q", b.Bayer, "Alpha 58 Ori")
	}
	if b.HipID != 27989 {
		t.Errorf("HipID = %d, want 27989", b.HipID)
	}
	if b.Color != "#FFCC6F" {
		t.Errorf("Color = %s, want #FFCC6F", b.Color)
	}
	if b.Type != catalog.TypeCosmic {
		t.Errorf("Type = %s, want cosmic", b.Type)
	}
	if !b.IsNavigable {
		t.Error("betelgeuse should be navigable")
	}

	wantX := 10000 * (1 - 1.549729/(2*math.Pi))
	wantY := 10000 * (0.5 - 0.129277/math.Pi)
	if math.Abs(b.DisplayX-wantX) > 1e-6 || math.Abs(b.DisplayY-wantY) > 1e-6 {
		t.Errorf("display = (%v, %v), want (%v, %v)", b.DisplayX, b.DisplayY, wantX, wantY)
	}
}

func TestProcess_Constellations(t *testing.T) {
	res := processSample(t)

	ori, ok := res.Constellations["Ori"]
	if !ok {
		t.Fatal("Ori missing")
	}
	if ori.ID != "ori" || ori.Name != "Orion" || ori.Description != "The Orion constellation" {
		t.Errorf("ori header = %q %q %q", ori.ID, ori.Name, ori.Description)
	}

	wantStars := []string{"betelgeuse", "rigel", "bellatrix", "saiph", "ori-26000"}
	if !reflect.DeepEqual(ori.Stars, wantStars) {
		t.Errorf("Stars = %v, want %v", ori.Stars, wantStars)
	}
	wantMain := []string{"betelgeuse", "rigel", "bellatrix"}
	if !reflect.DeepEqual(ori.MainStars, wantMain) {
		t.Errorf("MainStars = %v, want %v", ori.MainStars, wantMain)
	}
	wantConn := [][2]string{
		{"betelgeuse", "bellatrix"},
		{"bellatrix", "rigel"},
		{"rigel", "saiph"},
	}
	if !reflect.DeepEqual(ori.Connections, wantConn) {
		t.Errorf("Connections = %v, want %v", ori.Connections, wantConn)
	}

	if cyg := res.Constellations["Cyg"]; len(cyg.Stars) != 0 || cyg.Stars == nil {
		t.Errorf("Cyg should have an empty, non-nil star list, got %v", cyg.Stars)
	}
}

func TestProcess_Background(t *testing.T) {
	res := processSample(t)

	if len(res.Background) != 1 {
		t.Fatalf("Background = %d, want 1", len(res.Background))
	}
	bg := res.Background[0]
	if bg.Mag != 4.5 || bg.Color != "#FFD2A1" {
		t.Errorf("background star = %+v", bg)
	}
}

func TestProcess_UnnamedStarFallbacks(t *testing.T) {
	csv := "id,con,mag,rarad,decrad,bayer,flam,proper\n" +
		"1,Lyr,4.0,0,0,,,\n" +
		"2,Lyr,4.0,0,0,Zet,,\n"

	res, err := Process(strings.NewReader(csv), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	lyr := res.Constellations["Lyr"]
	if !reflect.DeepEqual(lyr.Stars, []string{"lyr-1", "lyr-2"}) {
		t.Fatalf("Lyr stars = %v", lyr.Stars)
	}
	// Both are dim background stars; check names via a permissive run.
	opts := DefaultOptions()
	opts.NavigableMag = 10
	res, err = Process(strings.NewReader(csv), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Stars[0].Proper; got != "Star 1" {
		t.Errorf("Proper = %q, want Star 1", got)
	}
	if got := res.Stars[1].Proper; got != "Zeta Lyr" {
		t.Errorf("Proper = %q, want Zeta Lyr", got)
	}
}

func TestProcess_MissingMagnitudeKept(t *testing.T) {
	csv := "id,con,mag,rarad,decrad,proper\n" +
		"7,Aql,,0,0,Mystery\n"

	res, err := Process(strings.NewReader(csv), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Stars) != 1 || res.Stars[0].Mag != 0 {
		t.Errorf("star with no magnitude should be kept at mag 0, got %+v", res.Stars)
	}
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing column", "id,con,mag\n1,Ori,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Process(strings.NewReader(tt.input), DefaultOptions()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStarID(t *testing.T) {
	tests := []struct {
		proper string
		want   string
	}{
		{"Betelgeuse", "betelgeuse"},
		{"Rigil Kentaurus", "rigil-kentaurus"},
		{"Al  Nair", "al-nair"},
		{"Cor\tCaroli", "cor-caroli"},
		{"Gienah Ghurab", "gienah-ghurab"},
		{"../Sirius B", "..-sirius-b"},
		{`Alpha\Centauri`, "alpha-centauri"},
		// decomposed e + combining acute composes to é
		{"Ace\u0301", "ac\u00e9"},
	}

	for _, tt := range tests {
		if got := StarID(tt.proper); got != tt.want {
			t.Errorf("StarID(%q) = %q, want %q", tt.proper, got, tt.want)
		}
	}
}

func TestAssignProjects(t *testing.T) {
	res := processSample(t)

	assignments, unmatched := AssignProjects(res.Stars, DefaultProjects(), DefaultTargets())

	if len(assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(assignments))
	}
	if a := assignments["betelgeuse"]; a.ProjectID != "nebula-framework" || a.StarName != "Betelgeuse" {
		t.Errorf("betelgeuse assignment = %+v", a)
	}
	if a := assignments["vega"]; a.ProjectID != "astral-analytics" {
		t.Errorf("vega assignment = %+v", a)
	}
	if len(unmatched) != 3 {
		t.Errorf("unmatched = %d, want 3", len(unmatched))
	}

	// Stars are updated in place
	if !res.Stars[0].IsProject() {
		t.Error("betelgeuse should be a project star")
	}
	if res.Stars[1].IsProject() {
		t.Error("rigel should not be a project star")
	}
}

func TestAssignProjects_UnknownProject(t *testing.T) {
	stars := []catalog.Star{{ID: "vega", Constellation: "Lyr", Bayer: "Alpha 3 Lyr"}}
	targets := []Target{{BayerPattern: "Alp", Constellation: "Lyr", ProjectID: "missing"}}

	assignments, unmatched := AssignProjects(stars, DefaultProjects(), targets)
	if len(assignments) != 0 || len(unmatched) != 1 {
		t.Errorf("assignments=%d unmatched=%d, want 0 and 1", len(assignments), len(unmatched))
	}
	if stars[0].IsProject() {
		t.Error("star should not be marked when the project is unknown")
	}
}

func TestResultCatalog(t *testing.T) {
	res := processSample(t)
	cat := res.Catalog(nil)

	if _, ok := cat.Constellations["ori"]; !ok {
		t.Error("catalog constellations should be keyed by lower-case id")
	}
	if cat.Assignments == nil {
		t.Error("Assignments should be non-nil")
	}
}
