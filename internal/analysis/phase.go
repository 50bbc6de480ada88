package analysis

import (
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []Point
}

// NewPhasePortrait pairs two equally sampled series, such as position and
// velocity of one particle. The shorter series sets the length.
func NewPhasePortrait(xs, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{
		Points: make([]Point, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}

	// Find bounds
	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
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

	// Create canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Plot points
	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	// Convert to string
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	Points []Point
}

// NewPoincareSection records (xs[i], ys[i]) whenever cross goes upward
// through threshold between samples i-1 and i.
func NewPoincareSection(cross, xs, ys []float64, threshold float64) *PoincareSection {
	section := &PoincareSection{
		Points: make([]Point, 0),
	}

	n := min(len(cross), len(xs), len(ys))
	for i := 1; i < n; i++ {
		// Detect positive-going crossing
		if cross[i-1] < threshold && cross[i] >= threshold {
			section.Points = append(section.Points, Point{X: xs[i], Y: ys[i]})
		}
	}

	return section
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}

	// Use same logic as phase portrait
	portrait := &PhasePortrait2D{Points: section.Points}
	return PhasePortraitToASCII(portrait, width, height)
}
