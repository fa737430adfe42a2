package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/logging"
	"github.com/alchemypls/stellar/internal/state"
)

const (
	// baseViewWidth is the viewport width in map units at zoom 1.
	baseViewWidth = 4000.0

	// Travel animation
	animDuration  = time.Second
	animFrameRate = 30 * time.Millisecond

	// bannerTicks is how long the discovery banner stays up, in AnimTickMsg
	// ticks (80ms each).
	bannerTicks = 60

	panelWidth = 34

	glyphCurrent        = '◉'
	glyphProject        = '◆'
	glyphProjectUnseen  = '◇'
	glyphStarBright     = '✶' // mag < 1.5
	glyphStarMedium     = '✸' // mag 1.5-3.0
	glyphStarDim        = '•' // mag 3.0-4.0
	glyphStarVeryDim    = '·' // mag > 4.0
	glyphBackground     = '·'
	glyphConnection     = '∙'
	colorCurrent        = "229" // bright gold
	colorLocked         = "238"
	colorBackground     = "237"
	colorConnection     = "60" // muted purple
	colorConnectionSeen = "135"
	colorLabel          = "#d0c8ff"
	colorStarBright     = "255"
	colorStarMedium     = "250"
	colorStarDim        = "244"
	colorStarVeryDim    = "240"
)

var directionArrows = map[state.Direction]string{
	state.DirUp:    "↑",
	state.DirRight: "→",
	state.DirDown:  "↓",
	state.DirLeft:  "←",
}

// chartAnimTickMsg advances the travel animation.
type chartAnimTickMsg time.Time

func chartAnimTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return chartAnimTickMsg(t)
	})
}

// ChartModel renders the star chart centred on the current star.
type ChartModel struct {
	state     *state.Manager
	cat       *catalog.Catalog
	logger    *logging.Logger
	zoomStep  float64
	startStar string

	width  int
	height int

	snap state.Snapshot

	// Camera (viewport centre, map units)
	camX, camY float64
	camStar    string

	// Animation state
	animating bool
	animFromX float64
	animFromY float64
	animToX   float64
	animToY   float64
	animStart time.Time
	now       func() time.Time

	showProject bool
	status      string

	banner      string
	bannerTicks int
	lastSeq     uint64
}

// NewChartModel creates a chart over the given manager and catalog.
func NewChartModel(mgr *state.Manager, cat *catalog.Catalog, zoomStep float64, startStar string, logger *logging.Logger) ChartModel {
	if zoomStep <= 0 {
		zoomStep = state.DefaultConfig().ZoomStep
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return ChartModel{
		state:     mgr,
		cat:       cat,
		logger:    logger,
		zoomStep:  zoomStep,
		startStar: startStar,
		now:       time.Now,
	}
}

// SetSize updates the viewport size.
func (m ChartModel) SetSize(width, height int) ChartModel {
	m.width = width
	m.height = height
	return m
}

// SetAnimTick counts down the discovery banner.
func (m ChartModel) SetAnimTick(int) ChartModel {
	if m.bannerTicks > 0 {
		m.bannerTicks--
		if m.bannerTicks == 0 {
			m.banner = ""
		}
	}
	return m
}

// UpdateData updates with a new snapshot.
func (m ChartModel) UpdateData(snap state.Snapshot) ChartModel {
	primed := m.lastSeq > 0 || m.snap.Stats.TotalStars > 0
	m.snap = snap

	for _, e := range snap.Events {
		if e.Seq <= m.lastSeq {
			continue
		}
		m.lastSeq = e.Seq
		if !primed {
			continue
		}
		switch e.Type {
		case state.EventConstellationDiscovered:
			m.banner = "Constellation complete: " + m.constellationName(e.Constellation)
			m.bannerTicks = bannerTicks
		case state.EventProgressReset:
			m.banner = ""
			m.bannerTicks = 0
		}
	}

	// Snap the camera when the current star moved without a travel animation
	if snap.CurrentStar != nil && !m.animating && m.camStar != snap.CurrentStar.ID {
		m.camX = snap.CurrentStar.DisplayX
		m.camY = snap.CurrentStar.DisplayY
		m.camStar = snap.CurrentStar.ID
	}
	return m
}

func (m ChartModel) constellationName(id string) string {
	if c, ok := m.snap.Constellations[id]; ok {
		return c.DisplayName()
	}
	return strings.ToUpper(id)
}

// Update handles messages.
func (m ChartModel) Update(msg tea.Msg) (ChartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.animating {
			return m, nil
		}
		key := msg.String()
		if dir, ok := state.ParseDirection(key); ok {
			return m.travel(dir)
		}
		switch key {
		case "+", "=":
			return m.zoom(m.zoomStep)
		case "-", "_":
			return m.zoom(-m.zoomStep)
		case "enter":
			return m.openProject(), nil
		case "esc":
			m.showProject = false
			m.banner = ""
			m.bannerTicks = 0
			m.status = ""
		case "R":
			return m.reset()
		}

	case chartAnimTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m ChartModel) travel(dir state.Direction) (ChartModel, tea.Cmd) {
	from := m.camStar
	opt, ok := m.state.Move(dir)
	if !ok {
		m.status = fmt.Sprintf("No star to the %s", dir)
		return m, nil
	}
	m.status = ""
	m.showProject = false
	m.logger.Debug("travel %s -> %s (%s, %.0f)", from, opt.StarID, dir, opt.Distance)

	target, ok := m.state.Star(opt.StarID)
	if !ok {
		return m, refreshCmd(m.state)
	}
	m = m.startAnimation(target)
	return m, tea.Batch(refreshCmd(m.state), chartAnimTick())
}

func (m ChartModel) startAnimation(target catalog.Star) ChartModel {
	m.animating = true
	m.animFromX = m.camX
	m.animFromY = m.camY
	m.animToX = target.DisplayX
	m.animToY = target.DisplayY
	m.animStart = m.now()
	m.camStar = target.ID
	return m
}

func (m ChartModel) updateAnimation() (ChartModel, tea.Cmd) {
	t := float64(m.now().Sub(m.animStart)) / float64(animDuration)
	if t >= 1.0 {
		m.animating = false
		m.camX = m.animToX
		m.camY = m.animToY
		return m, nil
	}

	eased := easeInOut(t)
	m.camX = lerp(m.animFromX, m.animToX, eased)
	m.camY = lerp(m.animFromY, m.animToY, eased)
	return m, chartAnimTick()
}

func (m ChartModel) zoom(delta float64) (ChartModel, tea.Cmd) {
	want := m.snap.ZoomLevel + delta
	if want > m.snap.MaxZoomLevel+1e-9 {
		m.status = fmt.Sprintf("Zoom limited to %.1fx, discover constellations to go further", m.snap.MaxZoomLevel)
	} else {
		m.status = ""
	}
	m.state.SetZoomLevel(want)
	return m, refreshCmd(m.state)
}

func (m ChartModel) openProject() ChartModel {
	star := m.snap.CurrentStar
	if star == nil {
		return m
	}
	if _, ok := m.cat.ProjectFor(star.ID); !ok {
		m.status = star.DisplayName() + " has no project"
		return m
	}
	m.showProject = true
	m.status = ""
	return m
}

func (m ChartModel) reset() (ChartModel, tea.Cmd) {
	m.state.ResetProgress()
	seed := m.state.Session().CurrentConstellation
	if s, ok := m.cat.StartStar(m.startStar, seed); ok {
		m.state.SetCurrentStar(s.ID)
	}
	m.logger.Info("progress reset")

	m.animating = false
	m.camStar = ""
	m.showProject = false
	m.status = "Progress reset"
	return m, refreshCmd(m.state)
}

// viewportWidth returns the visible width in map units. It narrows as
// constellations are completed and with the player's zoom.
func (m ChartModel) viewportWidth() float64 {
	progressZoom := 1.0
	if total := m.snap.Stats.TotalConstellations; total > 0 {
		progressZoom = 1 + 2*math.Min(1, float64(m.snap.Stats.ConstellationsCompleted)/(0.75*float64(total)))
	}
	zoom := m.snap.ZoomLevel
	if zoom <= 0 {
		zoom = 1
	}
	return baseViewWidth / (progressZoom * zoom)
}

// View renders the chart.
func (m ChartModel) View() string {
	canvasW := m.width - panelWidth - 2
	canvasH := m.height - 2
	if canvasW < 20 || canvasH < 8 {
		return "Star chart requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	canvas := m.renderCanvas(canvasW, canvasH)
	var side string
	if m.showProject {
		side = m.renderProjectPanel()
	} else {
		side = lipgloss.JoinVertical(lipgloss.Left,
			m.renderInfoPanel(),
			m.renderProgressPanel(),
			m.renderNavPanel(),
		)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, "  ", side))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m ChartModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	header := titleStyle.Render("Star Chart")
	if m.snap.CurrentConstellation != "" {
		header += dimStyle.Render(" | " + m.constellationName(m.snap.CurrentConstellation))
	}
	header += dimStyle.Render(fmt.Sprintf(" | Zoom %.1fx", m.snap.ZoomLevel))

	if m.banner != "" {
		bannerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorCurrent))
		header += "  " + bannerStyle.Render("✦ "+m.banner+" ✦")
	}
	return header
}

func (m ChartModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel)).Render(m.status)
}

// cell is one character of the chart canvas.
type cell struct {
	r     rune
	color lipgloss.Color
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' ', color: colorBackground}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color lipgloss.Color) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

func (c *canvas) empty(x, y int) bool {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return false
	}
	return c.cells[y][x].r == ' '
}

func (c *canvas) text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := c.cells[y][x]
			b.WriteString(lipgloss.NewStyle().Foreground(cl.color).Render(string(cl.r)))
		}
		if y < c.h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// projectToScreen maps display coordinates to a canvas cell. Cells are about
// twice as tall as they are wide, so the visible height in map units is
// scaled to keep the chart's proportions.
func (m ChartModel) projectToScreen(x, y float64, width, height int) (int, int, bool) {
	viewW := m.viewportWidth()
	viewH := viewW * float64(height*2) / float64(width)

	col := int(math.Floor((x-m.camX)/viewW*float64(width) + float64(width)/2))
	row := int(math.Floor((y-m.camY)/viewH*float64(height) + float64(height)/2))
	visible := col >= 0 && col < width && row >= 0 && row < height
	return col, row, visible
}

func (m ChartModel) renderCanvas(width, height int) string {
	c := newCanvas(width, height)

	for _, bg := range m.cat.Background {
		if x, y, ok := m.projectToScreen(bg.X, bg.Y, width, height); ok {
			c.set(x, y, glyphBackground, colorBackground)
		}
	}

	m.drawConnections(c)

	var current *catalog.Star
	for i := range m.cat.Stars {
		star := m.cat.Stars[i]
		x, y, ok := m.projectToScreen(star.DisplayX, star.DisplayY, width, height)
		if !ok {
			continue
		}
		if m.snap.CurrentStar != nil && star.ID == m.snap.CurrentStar.ID {
			current = &m.cat.Stars[i]
			continue
		}
		r, color := m.starGlyph(star)
		c.set(x, y, r, color)
	}

	// Option labels, then the current star on top
	for _, opt := range m.snap.Options {
		star, ok := m.cat.Star(opt.StarID)
		if !ok {
			continue
		}
		x, y, ok := m.projectToScreen(star.DisplayX, star.DisplayY, width, height)
		if !ok {
			continue
		}
		c.text(x+2, y, directionArrows[opt.Direction]+" "+star.DisplayName(), colorLabel)
	}
	if current != nil {
		x, y, _ := m.projectToScreen(current.DisplayX, current.DisplayY, width, height)
		c.set(x, y, glyphCurrent, colorCurrent)
		c.text(x+2, y, "◄ "+current.DisplayName(), colorCurrent)
	}

	return c.String()
}

// drawConnections draws the current constellation's lines.
func (m ChartModel) drawConnections(c *canvas) {
	con, ok := m.snap.Constellations[m.snap.CurrentConstellation]
	if !ok {
		return
	}
	color := lipgloss.Color(colorConnection)
	if con.Discovered {
		color = colorConnectionSeen
	}
	for _, edge := range con.Connections {
		a, okA := m.cat.Star(edge[0])
		b, okB := m.cat.Star(edge[1])
		if !okA || !okB {
			continue
		}
		x0, y0, _ := m.projectToScreen(a.DisplayX, a.DisplayY, c.w, c.h)
		x1, y1, _ := m.projectToScreen(b.DisplayX, b.DisplayY, c.w, c.h)
		for _, p := range bresenham(x0, y0, x1, y1) {
			if c.empty(p[0], p[1]) {
				c.set(p[0], p[1], glyphConnection, color)
			}
		}
	}
}

// starGlyph picks the glyph and color for a catalog star. Visited stars take
// their spectral color and stars of locked constellations stay dark.
func (m ChartModel) starGlyph(star catalog.Star) (rune, lipgloss.Color) {
	visited := m.snap.IsVisited(star.ID)
	unlocked := m.snap.IsUnlocked(star.Constellation)

	if star.IsProject() {
		switch {
		case visited:
			return glyphProject, lipgloss.Color(star.Color)
		case unlocked:
			return glyphProjectUnseen, colorStarMedium
		default:
			return glyphProjectUnseen, colorLocked
		}
	}

	r, color := magnitudeGlyph(star.Mag)
	switch {
	case visited && star.Color != "":
		color = lipgloss.Color(star.Color)
	case !unlocked:
		color = colorLocked
	}
	return r, color
}

// magnitudeGlyph returns a glyph and grey level for an apparent magnitude.
// Brighter stars (lower magnitude) get more prominent symbols.
func magnitudeGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	case mag < 4.0:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("60")).
	Padding(0, 1).
	Width(panelWidth - 2)

func (m ChartModel) renderInfoPanel() string {
	star := m.snap.CurrentStar
	if star == nil {
		return panelStyle.Render("No star selected")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(star.DisplayName()))
	b.WriteString("\n")

	conName := m.constellationName(star.ConstellationID())
	fmt.Fprintf(&b, "%s · Mag %.2f\n", conName, star.Mag)
	if star.Spectrum != "" {
		fmt.Fprintf(&b, "Spectral type %s\n", star.Spectrum)
	}
	if a, ok := m.cat.ProjectFor(star.ID); ok {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colorCurrent)).Render("◆ " + a.Project.Title))
		b.WriteString("\n" + dimText("enter: view project"))
	} else {
		b.WriteString(dimText("Cosmic object"))
	}

	if con, ok := m.snap.Constellations[star.ConstellationID()]; ok {
		b.WriteString("\n")
		if con.Discovered {
			b.WriteString(discoveredStyle.Render("✓ " + conName + " discovered"))
		} else {
			seen := 0
			for _, id := range con.MainStars {
				if m.snap.IsVisited(id) {
					seen++
				}
			}
			b.WriteString(dimText(fmt.Sprintf("%d/%d main stars found", seen, len(con.MainStars))))
		}
	}
	return panelStyle.Render(b.String())
}

func (m ChartModel) renderProgressPanel() string {
	stats := m.snap.Stats
	var b strings.Builder
	b.WriteString(titleStyle.Render("Progress"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Stars          %d/%d\n", stats.StarsFound, stats.TotalStars)
	fmt.Fprintf(&b, "Constellations %d/%d\n", stats.ConstellationsCompleted, stats.TotalConstellations)
	b.WriteString(renderProgressBar(stats.ConstellationsCompleted, stats.TotalConstellations, panelWidth-6))
	b.WriteString("\n")
	b.WriteString(dimText(fmt.Sprintf("Zoom %.1fx of %.1fx", m.snap.ZoomLevel, m.snap.MaxZoomLevel)))
	return panelStyle.Render(b.String())
}

func (m ChartModel) renderNavPanel() string {
	byDir := make(map[state.Direction]state.NavigationOption, len(m.snap.Options))
	for _, opt := range m.snap.Options {
		byDir[opt.Direction] = opt
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Navigation"))
	for _, dir := range state.Directions {
		b.WriteString("\n")
		opt, ok := byDir[dir]
		if !ok {
			b.WriteString(dimText(directionArrows[dir] + " -"))
			continue
		}
		name := opt.StarID
		if s, ok := m.cat.Star(opt.StarID); ok {
			name = s.DisplayName()
		}
		fmt.Fprintf(&b, "%s %s %s", directionArrows[dir], truncate(name, 18), dimText(fmt.Sprintf("%.0f", opt.Distance)))
	}
	return panelStyle.Render(b.String())
}

func (m ChartModel) renderProjectPanel() string {
	star := m.snap.CurrentStar
	if star == nil {
		return ""
	}
	a, ok := m.cat.ProjectFor(star.ID)
	if !ok {
		return ""
	}
	p := a.Project

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(dimText(fmt.Sprintf("%s · %s", star.DisplayName(), m.constellationName(star.ConstellationID()))))
	b.WriteString("\n\n")
	b.WriteString(p.Description)
	b.WriteString("\n\n")
	if len(p.Tech) > 0 {
		b.WriteString(strings.Join(p.Tech, " · "))
	} else {
		b.WriteString(dimText("No technologies listed"))
	}

	links := make([]string, 0, 2)
	if p.Links.GitHub != "" {
		links = append(links, "GitHub "+p.Links.GitHub)
	}
	if p.Links.Live != "" {
		links = append(links, "Live   "+p.Links.Live)
	}
	for _, l := range links {
		b.WriteString("\n" + l)
	}
	b.WriteString("\n\n" + dimText("esc: close"))

	return panelStyle.Width(panelWidth + 8).Render(b.String())
}

func dimText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render(s)
}

// bresenham returns the cells on the line from (x0,y0) to (x1,y1).
func bresenham(x0, y0, x1, y1 int) [][2]int {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	var pts [][2]int
	err := dx + dy
	for {
		pts = append(pts, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// easeInOut is the quadratic ease-in-out curve on [0,1].
func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
