package viz

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

// Preview is a Bubble Tea model that browses distributions for fixed storm
// parameters, regenerating after every change.
type Preview struct {
	engine *storm.Engine
	names  []string
	cursor int
	theme  int

	params storm.Params
	result storm.Result

	width, height int
}

// NewPreview starts on p.Distribution when the catalog lists it.
func NewPreview(engine *storm.Engine, p storm.Params) Preview {
	m := Preview{
		engine: engine,
		names:  engine.Catalog().Names(),
		params: p,
		width:  80,
		height: 24,
	}
	if i := slices.Index(m.names, p.Distribution); i >= 0 {
		m.cursor = i
	} else if len(m.names) > 0 && p.Distribution == "" {
		m.params.Distribution = m.names[0]
	}
	m.regenerate()
	return m
}

// Params returns the current request.
func (m Preview) Params() storm.Params { return m.params }

// Result returns the storm shown.
func (m Preview) Result() storm.Result { return m.result }

func (m *Preview) regenerate() {
	m.result = m.engine.Generate(m.params)
}

func (m Preview) Init() tea.Cmd { return nil }

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Preview) handleKey(msg tea.KeyMsg) (Preview, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "down", "j":
		if len(m.names) > 0 {
			m.cursor = (m.cursor + 1) % len(m.names)
			m.params.Distribution = m.names[m.cursor]
		}
	case "left", "h", "up", "k":
		if len(m.names) > 0 {
			m.cursor = (m.cursor - 1 + len(m.names)) % len(m.names)
			m.params.Distribution = m.names[m.cursor]
		}
	case "f":
		if m.params.Fidelity == betainc.Fast {
			m.params.Fidelity = betainc.Precise
		} else {
			m.params.Fidelity = betainc.Fast
		}
	case "s":
		m.params.Smoothing = !m.params.Smoothing
	case "m":
		if m.params.DurationMode == storm.Custom {
			m.params.DurationMode = storm.Standard
		} else {
			m.params.DurationMode = storm.Custom
		}
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		return m, nil
	default:
		return m, nil
	}
	m.regenerate()
	return m, nil
}

func (m Preview) View() string {
	st := newStyles(Themes[m.theme])
	var b strings.Builder
	b.WriteString("\n" + renderSummary(st, m.params, m.result) + "\n\n")

	chartHeight := max((m.height-22)/2, 3)
	b.WriteString(Plot(m.result, max(m.width-12, 10), chartHeight))
	b.WriteString("\n\n")

	hints := []struct{ key, desc string }{
		{"h/l", "distribution"}, {"f", "fidelity"}, {"s", "smoothing"},
		{"m", "mode"}, {"t", "theme"}, {"q", "quit"},
	}
	for _, h := range hints {
		b.WriteString(st.hintKey.Render(h.key) + st.hint.Render(" "+h.desc+"  "))
	}
	b.WriteString("\n")
	return b.String()
}

// RunPreview runs the browser full screen until the user quits.
func RunPreview(engine *storm.Engine, p storm.Params) error {
	_, err := tea.NewProgram(NewPreview(engine, p), tea.WithAltScreen()).Run()
	return err
}
