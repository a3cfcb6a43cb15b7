package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"pendlab/internal/dynamo"
	"pendlab/internal/sim"
	"pendlab/internal/storage"
)

const (
	canvasWidth  = 64
	canvasHeight = 22
	trailLen     = 120
	energyLen    = 240
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type point struct{ x, y int }

// LiveModel is the bubbletea model for the live view. Rendering is
// model-agnostic: it draws whatever chain of Cartesian bob positions
// the simulation reports, so one view serves all pendulum variants.
type LiveModel struct {
	sim   *sim.Simulation
	clock *sim.FrameClock
	store *storage.Store

	canvas *Canvas
	frame  *dynamo.PhysicsState
	trail  []point
	reach  float64

	energy []float64

	lastTick time.Time
	running  bool
	notice   string
}

// NewLive wraps a simulation for interactive display. store may be nil,
// in which case the save key is disabled.
func NewLive(s *sim.Simulation, store *storage.Store) LiveModel {
	return LiveModel{
		sim:     s,
		clock:   sim.NewFrameClock(s.FixedDt()),
		store:   store,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		trail:   make([]point, 0, trailLen),
		energy:  make([]float64, 0, energyLen),
		running: true,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.notice = ""
		case "r":
			m.sim.Reset()
			m.trail = m.trail[:0]
			m.energy = m.energy[:0]
			m.frame = nil
			m.running = true
			m.notice = ""
		case "e":
			m.sim.SetRecording(!m.sim.Recording())
		case "s":
			m.save()
		}
	case tickMsg:
		now := time.Time(msg)
		if m.running && !m.lastTick.IsZero() {
			steps := m.clock.Steps(now.Sub(m.lastTick).Seconds())
			for i := 0; i < steps; i++ {
				m.frame = m.sim.Step(0)
			}
			if !m.sim.Healthy() {
				m.running = false
				m.notice = "state diverged, press r to reset"
			}
			m.energy = append(m.energy, m.sim.Energy().Total)
			if len(m.energy) > energyLen {
				m.energy = m.energy[1:]
			}
		}
		m.draw()
		m.lastTick = now
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) save() {
	if m.store == nil {
		m.notice = "no data dir configured"
		return
	}
	if m.sim.HistoryLen() == 0 {
		m.notice = "nothing recorded, press e first"
		return
	}
	id, err := m.store.Save(m.sim.Export())
	if err != nil {
		m.notice = "save failed: " + err.Error()
		return
	}
	m.notice = "saved " + id
}

// draw projects the bob chain onto the canvas. The pivot sits at the
// top center; scale adapts to the largest radius seen so far so every
// model fills the canvas without per-model tuning.
func (m *LiveModel) draw() {
	m.canvas.Clear()
	if m.frame == nil || len(m.frame.Positions) == 0 {
		return
	}

	for _, p := range m.frame.Positions {
		if r := math.Hypot(p.X, p.Y); r > m.reach {
			m.reach = r
		}
	}
	if m.reach < 0.5 {
		m.reach = 0.5
	}

	cw, ch := canvasWidth*2, canvasHeight*4
	px, py := cw/2, 6
	scale := float64(ch-py-4) / m.reach

	// Terminal cells are roughly twice as tall as wide; braille dots
	// are 2x4 per cell, which nearly cancels the aspect ratio.
	toScreen := func(p dynamo.Vec3) (int, int) {
		return px + int(p.X*scale), py - int(p.Y*scale)
	}

	tip := m.frame.Positions[len(m.frame.Positions)-1]
	tx, ty := toScreen(tip)
	m.trail = append(m.trail, point{tx, ty})
	if len(m.trail) > trailLen {
		m.trail = m.trail[1:]
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}

	prevX, prevY := px, py
	m.canvas.Set(px, py)
	for _, p := range m.frame.Positions {
		bx, by := toScreen(p)
		m.canvas.Line(prevX, prevY, bx, by)
		m.canvas.Dot(bx, by)
		prevX, prevY = bx, by
	}
}

func (m LiveModel) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sim.Model().Name())) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.sim.Recording() {
		status += "  " + recStyle.Render(fmt.Sprintf("REC %d", m.sim.HistoryLen()))
	}
	s.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	e := m.sim.Energy()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.4f", e.Kinetic)) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.4f", e.Potential)) + "\n")
	s.WriteString(labelStyle.Render("Total") + valueStyle.Render(fmt.Sprintf("%.4f", e.Total)) + "\n")

	if m.notice != "" {
		s.WriteString("\n" + m.notice + "\n")
	}

	s.WriteString(helpStyle.Render("\n──────────────────\nSP:Pause R:Reset Q:Quit\nE:Record S:Save"))

	panel := panelStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)
}

// Run blocks in the live view until the user quits.
func Run(s *sim.Simulation, store *storage.Store) error {
	p := tea.NewProgram(NewLive(s, store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
