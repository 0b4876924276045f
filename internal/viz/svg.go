package viz

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Path is one body's track projected onto a plane.
type Path struct {
	Name string
	X, Y []float64
}

var svgPalette = []string{"#00ffff", "#ff88ff", "#ffcc00", "#00ff88", "#ff6644", "#88aaff"}

// OrbitsSVG draws every path as a polyline on a shared, aspect-preserving
// scale, with each body's name at its final position. Paths with fewer than
// two points are skipped; with nothing to draw the result is empty.
func OrbitsSVG(paths []Path, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	drawn := 0
	for _, p := range paths {
		if len(p.X) < 2 || len(p.X) != len(p.Y) {
			continue
		}
		drawn++
		for i := range p.X {
			minX, maxX = math.Min(minX, p.X[i]), math.Max(maxX, p.X[i])
			minY, maxY = math.Min(minY, p.Y[i]), math.Max(maxY, p.Y[i])
		}
	}
	if drawn == 0 {
		return ""
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	const margin = 0.1
	scale := (1 - 2*margin) * float64(min(width, height)) / span
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	toScreen := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*scale, float64(height)/2 - (y-cy)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
`, width, height, width, height)

	color := 0
	for _, p := range paths {
		if len(p.X) < 2 || len(p.X) != len(p.Y) {
			continue
		}
		stroke := svgPalette[color%len(svgPalette)]
		color++

		sb.WriteString(`<polyline fill="none" stroke-width="1.5" stroke="` + stroke + `" points="`)
		for i := range p.X {
			x, y := toScreen(p.X[i], p.Y[i])
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")

		x, y := toScreen(p.X[len(p.X)-1], p.Y[len(p.Y)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, stroke)
		fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-family=\"monospace\" font-size=\"11\">%s</text>\n",
			x+5, y-5, stroke, html.EscapeString(p.Name))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
