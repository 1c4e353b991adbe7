package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/isinglab/internal/lattice"
	"github.com/san-kum/isinglab/internal/sim"
)

const (
	historyCapacity = 600
	graphWidth      = 44
	graphHeight     = 5
	maxStepsPerTick = 512
)

// Snapshot stores the lattice at one update for replay.
type Snapshot struct {
	Spins       []int8
	Temperature float64
	Phase       sim.Phase
}

type TickMsg time.Time

// Model drives a sweep stepper and renders the lattice while it runs.
type Model struct {
	cfg          sim.Config
	name         string
	st           *sim.Stepper
	canvas       *Canvas
	running      bool
	done         bool
	stepsPerTick int
	frame        int
	magHistory   []float64
	eneHistory   []float64
	history      []Snapshot
	playHead     int
	recording    bool
	frames       []*image.Paletted
	showHelp     bool
}

// NewModel initializes the stepper and visualization state.
func NewModel(cfg sim.Config, name string) (Model, error) {
	st, err := sim.NewStepper(cfg)
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:          cfg,
		name:         name,
		st:           st,
		canvas:       SpinCanvas(cfg.Size),
		running:      true,
		stepsPerTick: 1,
		magHistory:   make([]float64, 0, historyCapacity),
		eneHistory:   make([]float64, 0, historyCapacity),
		history:      make([]Snapshot, 0, historyCapacity),
		playHead:     -1,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the sweep.
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
		case "up", "k":
			if m.stepsPerTick < maxStepsPerTick {
				m.stepsPerTick *= 2
			}
		case "down", "j":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame++
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the sweep and records observables for the charts.
func (m *Model) step() {
	if m.done {
		m.running = false
		return
	}
	for i := 0; i < m.stepsPerTick; i++ {
		if !m.st.Step() {
			m.done = true
			m.running = false
			break
		}
	}

	spins := m.st.Spins()
	n := float64(len(spins))
	sum := 0
	for _, s := range spins {
		sum += int(s)
	}
	m.magHistory = append(m.magHistory, float64(sum)/n)
	if len(m.magHistory) > historyCapacity {
		m.magHistory = m.magHistory[1:]
	}

	if lat, err := lattice.FromSpins(m.cfg.Size, spins); err == nil {
		m.eneHistory = append(m.eneHistory, lat.Energy(m.cfg.Coupling)/n)
		if len(m.eneHistory) > historyCapacity {
			m.eneHistory = m.eneHistory[1:]
		}
	}

	snap := Snapshot{Spins: spins, Temperature: m.st.Temperature(), Phase: m.st.Phase()}
	m.history = append(m.history, snap)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
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

// reset rebuilds the stepper from the original config. The same seed
// reproduces the same trajectory.
func (m *Model) reset() {
	st, err := sim.NewStepper(m.cfg)
	if err != nil {
		return
	}
	m.st = st
	m.done = false
	m.running = true
	m.playHead = -1
	m.magHistory = m.magHistory[:0]
	m.eneHistory = m.eneHistory[:0]
	m.history = m.history[:0]
	m.canvas.Clear()
}

// draw renders the current or replayed lattice onto the canvas.
func (m *Model) draw() {
	spins := m.st.Spins()
	if m.playHead >= 0 && m.playHead < len(m.history) {
		spins = m.history[m.playHead].Spins
	}
	m.canvas.DrawSpins(spins, m.cfg.Size)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle().Render(m.canvas.String())

	phase, temp := m.st.Phase(), m.st.Temperature()
	status := statusRunning().Render(AnimatedSpinner(m.frame) + " RUNNING")
	switch {
	case m.playHead != -1:
		snap := m.history[m.playHead]
		phase, temp = snap.Phase, snap.Temperature
		status = statusPaused().Render(fmt.Sprintf("REPLAY %d/%d", m.playHead+1, len(m.history)))
	case m.done:
		status = statusDone().Render("DONE")
	case !m.running:
		status = statusPaused().Render("PAUSED")
	}
	if m.recording {
		status += statusPaused().Render("  ● REC")
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render("ISING "+strings.ToUpper(m.name)) + "\n")
	s.WriteString(status + "\n\n")

	progress := m.st.Progress()
	s.WriteString(ProgressBar(progress, 32) + valueStyle().Render(fmt.Sprintf(" %5.1f%%", 100*progress)) + "\n")

	if len(m.magHistory) > 1 {
		chart := asciigraph.Plot(m.magHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("magnetization / spin"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}
	if len(m.eneHistory) > 1 {
		s.WriteString(SparklineChart(m.eneHistory, graphWidth) + "\n")
		s.WriteString(labelStyle().Render("energy/spin") +
			valueStyle().Render(fmt.Sprintf("%.4f", m.eneHistory[len(m.eneHistory)-1])) + "\n\n")
	}

	sched := m.st.Schedule()
	s.WriteString(labelStyle().Render("Temperature") + valueStyle().Render(fmt.Sprintf("%.3f", temp)) + "\n")
	s.WriteString(labelStyle().Render("Phase") + valueStyle().Render(phase.String()) + "\n")
	s.WriteString(labelStyle().Render("Records") + valueStyle().Render(fmt.Sprintf("%d/%d", len(m.st.Records()), sched.Len())) + "\n")
	s.WriteString(labelStyle().Render("Mean energy") + valueStyle().Render(fmt.Sprintf("%.1f", m.st.MeanEnergy())) + "\n")
	s.WriteString(labelStyle().Render("Flips") + valueStyle().Render(fmt.Sprintf("%d", m.st.Flips())) + "\n")
	s.WriteString(labelStyle().Render("Exhausted") + valueStyle().Render(fmt.Sprintf("%d", m.st.Exhausted())) + "\n")
	s.WriteString(labelStyle().Render("Speed") + valueStyle().Render(fmt.Sprintf("%d step/tick", m.stepsPerTick)) + "\n")
	s.WriteString(labelStyle().Render("Size") + valueStyle().Render(fmt.Sprintf("%dx%d  seed %d", m.cfg.Size, m.cfg.Size, m.cfg.Seed)) + "\n")

	s.WriteString(helpStyle().Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n[ ]:Replay ↑↓:Speed"))

	statsView := statsStyle().Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume sweep       ║
║  R        - Restart from same seed   ║
║  Q        - Quit                     ║
║  Up/K     - Double steps per tick    ║
║  Down/J   - Halve steps per tick     ║
║  [        - Rewind (replay)          ║
║  ]        - Forward (replay)         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	for y := 0; y < imgH; y++ {
		for x := 0; x < imgW; x++ {
			img.SetColorIndex(x, y, 0)
		}
	}
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			r := m.canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			dotW, dotH := charW/2, charH/4
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						for py := 0; py < dotH; py++ {
							for px := 0; px < dotW; px++ {
								img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
							}
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create("lattice.gif")
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}

// Run starts the live view and blocks until the user quits.
func Run(cfg sim.Config, name string) error {
	m, err := NewModel(cfg, name)
	if err != nil {
		return err
	}
	return tea.NewProgram(m, tea.WithAltScreen()).Start()
}
