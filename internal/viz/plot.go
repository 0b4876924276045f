package viz

import (
	"github.com/guptarohit/asciigraph"
)

type Series struct {
	Name   string
	Values []float64
}

// Plot draws every series on one chart with a legend. Empty series are
// skipped; with nothing to draw the result is empty.
func Plot(series []Series, width, height int, caption string, theme Theme) string {
	data := make([][]float64, 0, len(series))
	names := make([]string, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		data = append(data, s.Values)
		names = append(names, s.Name)
		colors = append(colors, theme.seriesColor(i))
	}
	if len(data) == 0 {
		return ""
	}

	opts := []asciigraph.Option{
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.SeriesColors(colors...),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	if len(data) > 1 {
		opts = append(opts, asciigraph.SeriesLegends(names...))
	}
	return asciigraph.PlotMany(data, opts...)
}
