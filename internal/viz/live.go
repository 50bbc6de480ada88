package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	fps             = 60
	historyCapacity = 600
	maxSpeed        = 64
	trailFrames     = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(1, 2).Width(45)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Builder returns a fresh simulator for a scenario. It is called again on
// reset.
type Builder func() (*sim.Simulator, error)

// Model steps a simulator on a timer and draws its particles.
type Model struct {
	name          string
	build         Builder
	sim           *sim.Simulator
	t, dt         float64
	duration      float64
	speed         int
	width, height int
	canvas        *Canvas
	camera        *Camera
	follow        *Follow
	zoomBias      float64
	grid          *Wireframe
	running       bool
	finished      bool
	err           error
	energyHistory []float64
	countHistory  []float64
	history       []sim.Frame
	playHead      int
	recording     *Recorder
	showHelp      bool
	steps         int
}

// NewModel builds the first simulator. A duration of zero runs until quit.
func NewModel(name string, build Builder, dt, duration float64) (Model, error) {
	if !(dt > 0) {
		return Model{}, fmt.Errorf("dt must be positive, got %f", dt)
	}
	s, err := build()
	if err != nil {
		return Model{}, err
	}

	return Model{
		name:          name,
		build:         build,
		sim:           s,
		dt:            dt,
		duration:      duration,
		speed:         1,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		follow:        NewFollow(fps),
		zoomBias:      1,
		grid:          GroundGrid(5, 11),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		countHistory:  make([]float64, 0, historyCapacity),
		history:       make([]sim.Frame, 0, historyCapacity),
		playHead:      -1,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "+", "=":
			m.speed = min(maxSpeed, m.speed*2)
		case "-", "_":
			m.speed = max(1, m.speed/2)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "i":
			m.zoomBias = min(10, m.zoomBias*1.2)
		case "o":
			m.zoomBias = max(0.1, m.zoomBias/1.2)
		}
	case tea.WindowSizeMsg:
		w, h := max(20, msg.Width-52), max(8, msg.Height-4)
		if w != m.width || h != m.height {
			m.width, m.height = w, h
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				for i := 0; i < m.speed && !m.finished; i++ {
					m.step()
				}
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording != nil {
			m.recording.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// step advances the simulation by one dt and records history.
func (m *Model) step() {
	if m.err != nil {
		return
	}
	if err := m.sim.Advance(m.t, m.dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.t += m.dt
	m.steps++

	w := m.sim.World()
	if id, bad := w.Invalid(); bad {
		m.err = &dynamo.SimulationError{Time: m.t, Particle: id, Wrapped: dynamo.ErrInvalidState}
		m.running = false
		return
	}

	m.energyHistory = appendCapped(m.energyHistory, w.KineticEnergy())
	m.countHistory = appendCapped(m.countHistory, float64(w.Len()))

	m.history = append(m.history, sim.Frame{Time: m.t, Particles: w.Snapshot()})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	if m.duration > 0 && m.t >= m.duration-1e-9 {
		m.finished = true
		m.running = false
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) > 0 {
			m.playHead = len(m.history) - 1
			m.running = false
		} else {
			return
		}
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scenario from scratch.
func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.sim = s
	m.t = 0
	m.steps = 0
	m.err = nil
	m.finished = false
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.countHistory = m.countHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.follow.Reset()
}

func (m *Model) toggleRecording() {
	if m.recording == nil {
		m.recording = NewRecorder(m.width, m.height)
		return
	}
	if err := m.recording.Save(m.name + ".gif"); err != nil {
		m.err = err
	}
	m.recording = nil
}

// shown is the index of the frame on screen, or -1 for the live world.
func (m *Model) shown() int {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.playHead
	}
	return -1
}

func (m *Model) positions() []dynamo.Vector3 {
	snaps := m.sim.World().Snapshot()
	if i := m.shown(); i >= 0 {
		snaps = m.history[i].Particles
	}
	return snapPositions(snaps)
}

func snapPositions(snaps []sim.Snapshot) []dynamo.Vector3 {
	out := make([]dynamo.Vector3, len(snaps))
	for i, s := range snaps {
		out[i] = s.Position
	}
	return out
}

// draw renders the ground grid, then the recent trail of every particle,
// then the particles themselves.
func (m *Model) draw() {
	m.canvas.Clear()
	points := m.positions()

	if len(points) > 0 {
		m.follow.Frame(m.camera, points)
		m.camera.Zoom *= m.zoomBias
	}

	Render3D(m.canvas, m.grid, m.camera, LayerGrid)

	sw, sh := m.width*2, m.height*4
	end := len(m.history)
	if i := m.shown(); i >= 0 {
		end = i + 1
	}
	for _, f := range m.history[max(0, end-trailFrames):end] {
		for _, p := range snapPositions(f.Particles) {
			if x, y, _, ok := m.camera.Project(p, sw, sh); ok {
				m.canvas.Plot(x, y, LayerTrail)
			}
		}
	}

	for _, p := range points {
		if x, y, _, ok := m.camera.Project(p, sw, sh); ok {
			m.canvas.Dot(x, y)
		}
	}
}

func (m *Model) status(st panel) string {
	switch {
	case m.err != nil:
		return st.err.Render("ERROR")
	case m.playHead != -1:
		offset := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		if m.running {
			return st.paused.Render(fmt.Sprintf("REPLAYING (%.1fs)", offset))
		}
		return st.paused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", offset))
	case m.finished:
		return st.paused.Render("FINISHED")
	case !m.running:
		return st.paused.Render("PAUSED")
	}
	return st.running.Render(fmt.Sprintf("RUNNING step %d", m.steps))
}

// View renders the particle canvas beside a panel of run statistics.
func (m Model) View() string {
	th := CurrentTheme()
	st := panelFor(th)
	canvasView := canvasStyle.Render(m.canvas.Render(th))

	var s strings.Builder
	s.WriteString(st.title.Render(strings.ToUpper(m.name)) + "  " + st.muted.Render(th.Name) + "\n\n")
	s.WriteString(m.status(st) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(lipgloss.NewStyle().Foreground(th.Trail).Padding(1, 0).Render(chart) + "\n\n")
	}

	w := m.sim.World()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Particles", fmt.Sprintf("%d", w.Len()))
	row("Forces", fmt.Sprintf("%d", w.Registry().Len()))
	row("Energy", fmt.Sprintf("%.3f", w.KineticEnergy()))
	row("Speed", fmt.Sprintf("%dx", m.speed))
	if len(m.countHistory) > 1 {
		row("Population", Sparkline(m.countHistory, 30))
	}
	if m.duration > 0 {
		s.WriteString(st.label.Render("Progress") + progressBar(m.t/m.duration, 30, th) + "\n")
	}
	if m.recording != nil {
		s.WriteString(st.recording.Render(fmt.Sprintf("● REC %d frames", m.recording.Len())) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + st.err.Width(40).Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n\n" + st.hint.Render("space pause  r reset  q quit\nt theme  g record  ? help\n[ ] replay  +/- speed"))
	statsView := statsStyle.BorderForeground(th.Grid).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return st.muted.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `keys
  space   pause or resume
  r       rebuild the scenario
  q       quit
  + -     steps per frame
  x y z   rotate the view (shift reverses)
  i o     zoom in or out
  [ ]     step back or forward through recent frames
  g       start or stop GIF recording
  t       next colour theme
  ?       this help`

// Time is the simulated time of the live world.
func (m Model) Time() float64 { return m.t }

// Err is the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

// Run opens a full screen program for m.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
