package catalog

import (
	"fmt"
	"io"
	"strings"
)

// SummaryRow is one constellation line of the catalog summary.
type SummaryRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stars       int    `json:"stars"`
	MainStars   int    `json:"mainStars"`
	Connections int    `json:"connections"`
	Projects    int    `json:"projects"`
}

// GenerateSummaryRows builds one row per constellation, sorted by id.
func GenerateSummaryRows(cat *Catalog) []SummaryRow {
	if cat == nil {
		return nil
	}

	projects := make(map[string]int)
	for _, a := range cat.Assignments {
		projects[strings.ToLower(a.Constellation)]++
	}

	rows := make([]SummaryRow, 0, len(cat.Constellations))
	for _, id := range cat.SortedConstellationIDs() {
		c := cat.Constellations[id]
		rows = append(rows, SummaryRow{
			ID:          id,
			Name:        c.DisplayName(),
			Stars:       len(c.Stars),
			MainStars:   len(c.MainStars),
			Connections: len(c.Connections),
			Projects:    projects[id],
		})
	}
	return rows
}

// WriteSummaryTable writes a text table of the catalog to w.
func WriteSummaryTable(w io.Writer, cat *Catalog) {
	rows := GenerateSummaryRows(cat)

	fmt.Fprintln(w, "Star Catalog")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No constellations loaded")
		return
	}

	fmt.Fprintf(w, "%-5s %-18s %6s %6s %6s %8s\n", "ID", "Name", "Stars", "Main", "Links", "Projects")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, r := range rows {
		fmt.Fprintf(w, "%-5s %-18s %6d %6d %6d %8d\n",
			truncateStr(r.ID, 5),
			truncateStr(r.Name, 18),
			r.Stars,
			r.MainStars,
			r.Connections,
			r.Projects,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d navigable stars, %d background stars, %d constellations, %d projects\n",
		len(cat.Stars), len(cat.Background), len(rows), len(cat.Assignments))
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
