package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/state"
)

// Styles shared by the atlas and chart panels
var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Background(lipgloss.Color("235")).Padding(0, 1)
	rowStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	discoveredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	lockedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// ConstellationStatus is how far the player has got with a constellation.
type ConstellationStatus string

const (
	StatusLocked     ConstellationStatus = "locked"
	StatusUnlocked   ConstellationStatus = "unlocked"
	StatusDiscovered ConstellationStatus = "discovered"
)

// AtlasRow is one constellation line in the atlas.
type AtlasRow struct {
	ID           string
	Name         string
	Abbr         string
	Description  string
	Status       ConstellationStatus
	MainFound    int
	MainTotal    int
	StarsVisited int
	StarsTotal   int
}

// AtlasModel lists every constellation with its progress.
type AtlasModel struct {
	width  int
	height int
	cursor int
	rows   []AtlasRow
}

// NewAtlasModel creates a new atlas model.
func NewAtlasModel() AtlasModel {
	return AtlasModel{}
}

// Init implements the Bubble Tea model interface.
func (m AtlasModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m AtlasModel) SetSize(width, height int) AtlasModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData rebuilds the rows from a snapshot.
func (m AtlasModel) UpdateData(snap state.Snapshot) AtlasModel {
	m.rows = buildAtlasRows(snap)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func buildAtlasRows(snap state.Snapshot) []AtlasRow {
	rows := make([]AtlasRow, 0, len(snap.Constellations))
	for id, c := range snap.Constellations {
		row := AtlasRow{
			ID:          id,
			Name:        c.DisplayName(),
			Abbr:        c.Abbr,
			Description: c.Description,
			Status:      constellationStatus(snap, id, c),
			MainTotal:   len(c.MainStars),
			StarsTotal:  len(c.Stars),
		}
		for _, s := range c.MainStars {
			if snap.IsVisited(s) {
				row.MainFound++
			}
		}
		for _, s := range c.Stars {
			if snap.IsVisited(s) {
				row.StarsVisited++
			}
		}
		rows = append(rows, row)
	}

	// Discovered first, then unlocked, then locked; by name within a group
	rank := map[ConstellationStatus]int{StatusDiscovered: 0, StatusUnlocked: 1, StatusLocked: 2}
	sort.Slice(rows, func(i, j int) bool {
		if rank[rows[i].Status] != rank[rows[j].Status] {
			return rank[rows[i].Status] < rank[rows[j].Status]
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func constellationStatus(snap state.Snapshot, id string, c catalog.Constellation) ConstellationStatus {
	switch {
	case c.Discovered:
		return StatusDiscovered
	case snap.IsUnlocked(id):
		return StatusUnlocked
	default:
		return StatusLocked
	}
}

// Update handles messages.
func (m AtlasModel) Update(msg tea.Msg) (AtlasModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.rows) > 0 {
				m.cursor = len(m.rows) - 1
			}
		}
	}
	return m, nil
}

// View renders the atlas.
func (m AtlasModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Constellation Atlas"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-22s %-5s %-11s %-18s %s",
		"Constellation", "Abbr", "Status", "Main stars", "Visited")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString("  No constellations loaded\n")
		return b.String()
	}

	maxRows := m.height - 6
	if maxRows < 5 {
		maxRows = 5
	}
	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(m.rows) {
		endIdx = len(m.rows)
	}

	for i := startIdx; i < endIdx; i++ {
		row := m.rows[i]
		line := fmt.Sprintf("%-22s %-5s %-11s %s %-3s %d/%d",
			truncate(row.Name, 22),
			row.Abbr,
			row.Status,
			renderProgressBar(row.MainFound, row.MainTotal, 10),
			fmt.Sprintf("%d/%d", row.MainFound, row.MainTotal),
			row.StarsVisited,
			row.StarsTotal,
		)
		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(line))
		case row.Status == StatusDiscovered:
			b.WriteString(discoveredStyle.Render(line))
		case row.Status == StatusLocked:
			b.WriteString(lockedStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.rows) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d constellations", startIdx+1, endIdx, len(m.rows)))
	}

	if sel, ok := m.Selected(); ok && sel.Description != "" {
		b.WriteString("\n  " + dimText(sel.Description))
	}
	return b.String()
}

// Selected returns the row under the cursor.
func (m AtlasModel) Selected() (AtlasRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return AtlasRow{}, false
	}
	return m.rows[m.cursor], true
}

// renderProgressBar draws done/total as a bracketed bar of the given width.
func renderProgressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD"))
	return "[" + style.Render(bar) + "]"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
