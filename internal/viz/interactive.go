package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/isinglab/internal/config"
)

var presetInfo = map[string]string{
	"reference": "high temperature sweep",
	"critical":  "transition region scan",
	"quick":     "small lattice smoke run",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type app struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramNames    []string
	paramCursor   int
	editing       bool
	editBuf       string
	errMsg        string
	liveModel     Model
}

func NewInteractiveApp() *app {
	return &app{
		state:   stateMenu,
		presets: config.ListPresets(),
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	default:
		if a.state == stateSim {
			newLive, cmd := a.liveModel.Update(msg)
			a.liveModel = newLive.(Model)
			return a, cmd
		}
	}
	return a, nil
}

func (a app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateConfig:
		return a.configKey(msg)
	case stateSim:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		newLive, cmd := a.liveModel.Update(msg)
		a.liveModel = newLive.(Model)
		return a, cmd
	}
	return a, nil
}

func (a app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.selected = a.presets[a.cursor]
		cfg := config.GetPreset(a.selected)
		if cfg == nil {
			a.errMsg = "unknown preset " + a.selected
			return a, nil
		}
		a.cfg = cfg
		a.state, a.paramCursor, a.errMsg = stateConfig, 0, ""
		a.paramNames = []string{
			"size", "t_min", "t_max", "t_step",
			"equilibration", "measurement", "flips_per_step",
			"max_attempts", "seed",
		}
	}
	return a, nil
}

func (a app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(a.editBuf, "%f", &val)
			a.setParam(a.paramNames[a.paramCursor], val)
			a.editing, a.editBuf = false, ""
		case "escape":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					a.editBuf += string(c)
				}
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "q", "escape":
		a.state = stateMenu
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(a.paramNames)-1 {
			a.paramCursor++
		}
	case "enter", " ":
		a.editing = true
		a.editBuf = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", a.paramValue(a.paramNames[a.paramCursor])), "0"), ".")
	case "left", "h":
		name := a.paramNames[a.paramCursor]
		a.setParam(name, a.paramValue(name)-a.paramStep(name))
	case "right", "l":
		name := a.paramNames[a.paramCursor]
		a.setParam(name, a.paramValue(name)+a.paramStep(name))
	case "s":
		return a.start()
	}
	return a, nil
}

func (a *app) paramValue(name string) float64 {
	switch name {
	case "size":
		return float64(a.cfg.Size)
	case "t_min":
		return a.cfg.Temperature.Min
	case "t_max":
		return a.cfg.Temperature.Max
	case "t_step":
		return a.cfg.Temperature.Step
	case "equilibration":
		return float64(a.cfg.Steps.Equilibration)
	case "measurement":
		return float64(a.cfg.Steps.Measurement)
	case "flips_per_step":
		return float64(a.cfg.Steps.FlipsPerStep)
	case "max_attempts":
		return float64(a.cfg.Steps.MaxFlipAttempts)
	case "seed":
		return float64(a.cfg.Seed)
	}
	return 0
}

func (a *app) setParam(name string, v float64) {
	switch name {
	case "size":
		a.cfg.Size = int(v)
	case "t_min":
		a.cfg.Temperature.Min = v
	case "t_max":
		a.cfg.Temperature.Max = v
	case "t_step":
		a.cfg.Temperature.Step = v
	case "equilibration":
		a.cfg.Steps.Equilibration = int(v)
	case "measurement":
		a.cfg.Steps.Measurement = int(v)
	case "flips_per_step":
		a.cfg.Steps.FlipsPerStep = int(v)
	case "max_attempts":
		a.cfg.Steps.MaxFlipAttempts = int(v)
	case "seed":
		a.cfg.Seed = int64(v)
	}
}

func (a *app) paramStep(name string) float64 {
	switch name {
	case "size":
		return 2
	case "t_min", "t_max":
		return 0.1
	case "t_step":
		return 0.01
	case "equilibration", "measurement", "flips_per_step":
		return 50
	}
	return 1
}

func (a app) start() (app, tea.Cmd) {
	simCfg := a.cfg.ToSim()
	if err := simCfg.Validate(); err != nil {
		a.errMsg = err.Error()
		return a, nil
	}
	m, err := NewModel(simCfg, a.selected)
	if err != nil {
		a.errMsg = err.Error()
		return a, nil
	}
	a.errMsg = ""
	a.liveModel = m
	a.state = stateSim
	return a, a.liveModel.Init()
}

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.liveModel.View()
	}
	return ""
}

func (a app) viewMenu() string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	hot := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true)
	sel := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(CurrentTheme.Accent)

	b.WriteString("\n\n    " + h.Render("ISINGLAB") + "\n    " + sub.Render("metropolis monte carlo lab") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.presets {
		info := presetInfo[name]
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", hot.Render("▸"), sel.Render(fmt.Sprintf("%-12s", name)), desc.Render(info)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-12s", name)), sub.Render(info)))
		}
	}
	b.WriteString("\n    " + hot.Render("j/k") + sub.Render(" navigate  ") + hot.Render("enter") + sub.Render(" select  ") + hot.Render("q") + sub.Render(" quit") + "\n")
	if a.errMsg != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(a.errMsg) + "\n")
	}
	return b.String()
}

func (a app) viewConfig() string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	hot := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true)
	sel := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)
	val := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)

	b.WriteString("\n\n    " + h.Render(strings.ToUpper(a.selected)) + "\n    " + sub.Render(presetInfo[a.selected]) + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.paramNames {
		valStr := fmt.Sprintf("%10.3f", a.paramValue(name))
		if a.editing && i == a.paramCursor {
			valStr = fmt.Sprintf("%10s", a.editBuf+"_")
		}
		if i == a.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", hot.Render("▸"), sel.Render(fmt.Sprintf("%-16s", name)), val.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", sub.Render(fmt.Sprintf("%-16s", name)), sub.Render(valStr)))
		}
	}
	if a.errMsg != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(a.errMsg) + "\n")
	}
	b.WriteString("\n    " + hot.Render("j/k") + sub.Render(" select  ") + hot.Render("h/l") + sub.Render(" adjust  ") + hot.Render("enter") + sub.Render(" edit  ") + hot.Render("s") + sub.Render(" start  ") + hot.Render("esc") + sub.Render(" back") + "\n")
	return b.String()
}

// RunInteractive starts the preset picker UI and blocks until quit.
func RunInteractive() error {
	return tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Start()
}
