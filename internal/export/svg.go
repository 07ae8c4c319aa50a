package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sparks/internal/render"
)

// CanvasToSVG draws every filled cell of a canvas device as a colored
// circle. cell is the edge length of one grid cell in SVG units.
func CanvasToSVG(canvas *render.CanvasDevice, cell float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Cols) * cell
	height := float64(canvas.Rows) * cell

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height))

	for row := 0; row < canvas.Rows; row++ {
		for col := 0; col < canvas.Cols; col++ {
			c := canvas.Cell(col, row)
			if c.Empty() {
				continue
			}
			cx := float64(col)*cell + cell/2
			cy := float64(row)*cell + cell/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius(c.Scale, cell), c.Hex()))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// dotRadius maps a sprite scale onto at most half a cell.
func dotRadius(scale float32, cell float64) float64 {
	r := float64(scale) / 15 * cell / 2
	return min(max(r, cell*0.1), cell/2)
}

// SeriesToSVG plots a sampled series as a polyline, oldest sample on the left.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
