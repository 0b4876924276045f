package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0e0f0"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff88ff"))

	runningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00aaaa"))

	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)
)

// Theme colours the canvas and the per-body series of charts.
type Theme struct {
	Name   string
	Canvas lipgloss.Color
	Series []asciigraph.AnsiColor
}

var Themes = []Theme{
	{Name: "deep-space", Canvas: lipgloss.Color("#00ffff"), Series: []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green}},
	{Name: "phosphor", Canvas: lipgloss.Color("#00ff00"), Series: []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.White, asciigraph.Cyan}},
	{Name: "solar", Canvas: lipgloss.Color("#ffcc00"), Series: []asciigraph.AnsiColor{asciigraph.Orange, asciigraph.Red, asciigraph.Yellow, asciigraph.Blue}},
}

func (t Theme) seriesColor(i int) asciigraph.AnsiColor {
	return t.Series[i%len(t.Series)]
}

// keyHints renders "key action" pairs on one line.
func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(keyStyle.Render(pairs[i]) + subtleStyle.Render(" "+pairs[i+1]))
	}
	return b.String()
}
