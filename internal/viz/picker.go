package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravlace/internal/config"
)

// Picker lists the presets and hands the chosen one to an Inspector.
type Picker struct {
	names   []string
	cursor  int
	err     error
	inspect *Inspector
}

func NewPicker() Picker {
	return Picker{names: config.ListPresets()}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.inspect != nil {
		next, cmd := m.inspect.Update(msg)
		in := next.(Inspector)
		m.inspect = &in
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg := config.GetPreset(m.names[m.cursor])
		d, err := cfg.Build(nil)
		if err != nil {
			m.err = err
			return m, nil
		}
		in := NewInspector(d, cfg.Run.HostDt, cfg.Name)
		m.inspect = &in
		return m, in.Init()
	}
	return m, nil
}

func (m Picker) View() string {
	if m.inspect != nil {
		return m.inspect.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("GRAVLACE") + "\n    " + subtleStyle.Render("newtonian n-body presets") + "\n    " + subtleStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.names {
		desc := describe(config.Presets[name])
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", keyStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-16s", name)), valueStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", subtleStyle.Render(fmt.Sprintf("%-16s", name)), subtleStyle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "inspect", "q", "quit") + "\n")
	return b.String()
}

func describe(cfg *config.Config) string {
	names := make([]string, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		names[i] = b.Name
	}
	return strings.Join(names, ", ")
}

// Run starts a full-screen program for m.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
