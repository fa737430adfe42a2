// Package ui provides the Bubble Tea terminal interface.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/logging"
	"github.com/alchemypls/stellar/internal/state"
	"github.com/alchemypls/stellar/internal/version"
)

// ViewMode represents the current view.
type ViewMode int

const (
	ViewChart ViewMode = iota
	ViewAtlas
	viewCount
)

// TickMsg is sent periodically to refresh the snapshot.
type TickMsg time.Time

// AnimTickMsg drives the footer spinner and banner timeouts.
type AnimTickMsg time.Time

// StateChangedMsg carries a fresh snapshot after a state action.
type StateChangedMsg struct {
	Snapshot state.Snapshot
}

// Options configures the UI.
type Options struct {
	// ZoomStep is the zoom change per +/- press.
	ZoomStep float64

	// StartStar is where the chart returns after a progress reset.
	StartStar string

	Logger *logging.Logger
}

// Model is the main Bubble Tea model.
type Model struct {
	state  *state.Manager
	cat    *catalog.Catalog
	logger *logging.Logger

	viewMode ViewMode
	width    int
	height   int
	ready    bool

	snapshot state.Snapshot
	animTick int

	chart ChartModel
	atlas AtlasModel
}

// New creates a new UI model over a hydrated state manager.
func New(mgr *state.Manager, cat *catalog.Catalog, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("ui")

	snap := mgr.Snapshot()
	return Model{
		state:    mgr,
		cat:      cat,
		logger:   logger,
		viewMode: ViewChart,
		snapshot: snap,
		chart:    NewChartModel(mgr, cat, opts.ZoomStep, opts.StartStar, logger).UpdateData(snap),
		atlas:    NewAtlasModel().UpdateData(snap),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.viewMode = ViewChart
			return m, nil
		case "2":
			m.viewMode = ViewAtlas
			return m, nil
		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount
			return m, nil
		}
		cmds = append(cmds, m.updateActiveView(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 15
		m.chart = m.chart.SetSize(msg.Width, contentHeight)
		m.atlas = m.atlas.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m = m.applySnapshot(m.state.Snapshot())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		m.chart = m.chart.SetAnimTick(m.animTick)

	case StateChangedMsg:
		m = m.applySnapshot(msg.Snapshot)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) applySnapshot(snap state.Snapshot) Model {
	m.snapshot = snap
	m.chart = m.chart.UpdateData(snap)
	m.atlas = m.atlas.UpdateData(snap)
	return m
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewChart:
		m.chart, cmd = m.chart.Update(msg)
	case ViewAtlas:
		m.atlas, cmd = m.atlas.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewChart:
		content = m.chart.View()
	case ViewAtlas:
		content = m.atlas.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ███████╗████████╗███████╗██╗     ██╗      █████╗ ██████╗`,
		`  ██╔════╝╚══██╔══╝██╔════╝██║     ██║     ██╔══██╗██╔══██╗`,
		`  ███████╗   ██║   █████╗  ██║     ██║     ███████║██████╔╝`,
		`  ╚════██║   ██║   ██╔══╝  ██║     ██║     ██╔══██║██╔══██╗`,
		`  ███████║   ██║   ███████╗███████╗███████╗██║  ██║██║  ██║`,
		`  ╚══════╝   ╚═╝   ╚══════╝╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  A portfolio written in the night sky"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep blue through violet to a pale star white, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// #1E3A8A -> #7C3AED -> #F5F3FF
	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 30 + t*(124-30)
		g = 58 + t*(58-58)
		b = 138 + t*(237-138)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 124 + t*(245-124)
		g = 58 + t*(243-58)
		b = 237 + t*(255-237)
	}

	brightness := 1.0 - (yRatio * 0.4)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Chart", "[2] Atlas"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"✦", "✧", "·", "✧"}
	spinner := spinnerFrames[(m.animTick/4)%len(spinnerFrames)]

	stats := m.snapshot.Stats
	status := accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %d/%d stars · %d/%d constellations",
		stats.StarsFound, stats.TotalStars, stats.ConstellationsCompleted, stats.TotalConstellations))

	var help string
	switch m.viewMode {
	case ViewAtlas:
		help = dimStyle.Render("↑↓: select | tab: switch view | q: quit")
	default:
		help = dimStyle.Render("arrows/hjkl: travel | +/-: zoom | enter: project | R: reset | q: quit")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// refreshCmd reads a fresh snapshot after an action.
func refreshCmd(mgr *state.Manager) tea.Cmd {
	return func() tea.Msg {
		return StateChangedMsg{Snapshot: mgr.Snapshot()}
	}
}
