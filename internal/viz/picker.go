package viz

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Entry is one scenario offered by the picker, with the parameters it
// starts from.
type Entry struct {
	Name        string
	Description string
	Params      map[string]float64
}

// Launcher turns a scenario name and its edited parameters into a builder.
type Launcher func(name string, params map[string]float64) Builder

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// Picker is a menu of scenarios that opens a live view of the chosen one.
type Picker struct {
	state, cursor int
	entries       []Entry
	launch        Launcher
	params        map[string]float64
	paramNames    []string
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

func NewPicker(entries []Entry, launch Launcher) Picker {
	return Picker{state: stateMenu, entries: entries, launch: launch}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m Picker) handleKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		if msg.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.entries) == 0 {
			return m, nil
		}
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
		m.setParams(m.entries[m.cursor])
	}
	return m, nil
}

func (m Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.params[m.paramNames[m.paramCursor]] = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.params[m.paramNames[m.paramCursor]])
	case "s":
		return m.start()
	case "left", "h":
		m.params[m.paramNames[m.paramCursor]] -= 0.1
	case "right", "l":
		m.params[m.paramNames[m.paramCursor]] += 0.1
	}
	return m, nil
}

func (m *Picker) setParams(e Entry) {
	m.params = map[string]float64{"dt": 0.01, "duration": 0}
	maps.Copy(m.params, e.Params)

	names := make([]string, 0, len(e.Params))
	for k := range e.Params {
		if k != "dt" && k != "duration" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	m.paramNames = append(names, "dt", "duration")
}

func (m Picker) start() (Picker, tea.Cmd) {
	e := m.entries[m.cursor]
	scenarioParams := make(map[string]float64, len(m.params))
	for k, v := range m.params {
		if k != "dt" && k != "duration" {
			scenarioParams[k] = v
		}
	}

	live, err := NewModel(e.Name, m.launch(e.Name, scenarioParams), m.params["dt"], m.params["duration"])
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel, m.err = live, nil
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m Picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHints(st panel, pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(st.title.Render(pairs[i]) + st.hint.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func header(st panel, title, sub string) string {
	return "\n\n    " + st.title.Render(title) + "\n    " + st.muted.Render(sub) +
		"\n    " + st.muted.Render(strings.Repeat("─", 25)) + "\n\n"
}

func (m Picker) viewMenu() string {
	st := panelFor(CurrentTheme())
	var b strings.Builder
	b.WriteString(header(st, "PARTSIM", "particle dynamics"))
	for i, e := range m.entries {
		desc := e.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		name := fmt.Sprintf("%-12s", e.Name)
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", st.title.Render("▸"), st.value.Bold(true).Render(name), st.value.Render(desc))
		} else {
			fmt.Fprintf(&b, "      %s  %s\n", st.muted.Render(name), st.muted.Render(desc))
		}
	}
	b.WriteString("\n    " + keyHints(st, "j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m Picker) viewConfig() string {
	st := panelFor(CurrentTheme())
	e := m.entries[m.cursor]
	var b strings.Builder
	b.WriteString(header(st, strings.ToUpper(e.Name), e.Description))
	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		label := fmt.Sprintf("%-10s", name)
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", st.title.Render("▸"), st.value.Bold(true).Render(label), st.value.Render(val))
		} else {
			fmt.Fprintf(&b, "      %s %s\n", st.muted.Render(label), st.muted.Render(val))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + st.err.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints(st, "j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunPicker opens a full screen scenario picker.
func RunPicker(entries []Entry, launch Launcher) error {
	_, err := tea.NewProgram(NewPicker(entries, launch), tea.WithAltScreen()).Run()
	return err
}
