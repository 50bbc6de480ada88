package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/viz"
)

// CanvasToSVG draws every lit dot of canvas as a circle, scale units per
// dot, coloured by the layer it was drawn on.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	th := viz.CurrentTheme()
	w, h := canvas.Width*2, canvas.Height*4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, float64(w)*scale, float64(h)*scale)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := canvas.At(x, y)
			if l == viz.LayerNone {
				continue
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, (float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4, th.Color(l))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Palette cycles stroke colors across paths.
var Palette = []string{"#00ff88", "#ff00ff", "#00ccff", "#ffcc00", "#ff4444", "#88ff88"}

// Path is one particle's track projected onto a plane.
type Path struct {
	Name   string
	Points []analysis.Point
}

// Project maps 3D positions onto a plane named by two axes, such as "xy"
// or "xz".
func Project(positions []dynamo.Vector3, plane string) ([]analysis.Point, error) {
	if len(plane) != 2 {
		return nil, fmt.Errorf("plane must name two axes, got %q", plane)
	}
	a, err := axis(plane[0])
	if err != nil {
		return nil, err
	}
	b, err := axis(plane[1])
	if err != nil {
		return nil, err
	}
	out := make([]analysis.Point, len(positions))
	for i, p := range positions {
		out[i] = analysis.Point{X: a(p), Y: b(p)}
	}
	return out, nil
}

func axis(c byte) (func(dynamo.Vector3) float64, error) {
	switch c {
	case 'x':
		return func(v dynamo.Vector3) float64 { return v.X }, nil
	case 'y':
		return func(v dynamo.Vector3) float64 { return v.Y }, nil
	case 'z':
		return func(v dynamo.Vector3) float64 { return v.Z }, nil
	}
	return nil, fmt.Errorf("unknown axis %q", c)
}

// TrajectoryToSVG draws every path on one shared scale. Paths with fewer
// than two points are skipped.
func TrajectoryToSVG(paths []Path, width, height int) string {
	first := true
	var minX, maxX, minY, maxY float64
	for _, path := range paths {
		for _, p := range path.Points {
			if first {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	if first {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, path := range paths {
		if len(path.Points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path data-particle="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, path.Name, Palette[i%len(Palette)]))
		for j, p := range path.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)

			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TracksToCanvas plots 3D tracks onto a braille canvas through a camera
// framed on all points. Each track ends in a particle dot when its last
// point is in view.
func TracksToCanvas(tracks [][]dynamo.Vector3, width, height int) *viz.Canvas {
	canvas := viz.NewCanvas(width, height)
	all := make([]dynamo.Vector3, 0)
	for _, tr := range tracks {
		all = append(all, tr...)
	}
	if len(all) == 0 {
		return canvas
	}

	cam := viz.NewCamera()
	viz.NewFollow(60).Frame(cam, all)

	sw, sh := width*2, height*4
	for _, tr := range tracks {
		px, py, prev := 0, 0, false
		for _, p := range tr {
			x, y, _, ok := cam.Project(p, sw, sh)
			if ok && prev {
				canvas.Line(px, py, x, y, viz.LayerTrail)
			} else if ok {
				canvas.Plot(x, y, viz.LayerTrail)
			}
			px, py, prev = x, y, ok
		}
		if prev {
			canvas.Dot(px, py)
		}
	}
	return canvas
}
