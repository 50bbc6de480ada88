package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const blank = '\u2800'

// Layer ranks what a cell holds. A cell takes the colour of the highest
// layer drawn into it, so particles stay visible over their trails and the
// ground grid.
type Layer uint8

const (
	LayerNone Layer = iota
	LayerGrid
	LayerTrail
	LayerParticle
)

// Canvas is a braille dot matrix. Each cell packs 2x4 dots, so a w x h
// canvas addresses (2w) x (4h) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	layers        [][]Layer
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		layers: make([][]Layer, h),
	}
	for row := range c.Grid {
		c.Grid[row] = make([]rune, w)
		c.layers[row] = make([]Layer, w)
	}
	c.Clear()
	return c
}

// dotBit is the braille bit of the dot in column dx, row dy of a cell.
func dotBit(dx, dy int) rune {
	if dy == 3 {
		return 0x40 << dx
	}
	return 1 << (dy + 3*dx)
}

func (c *Canvas) locate(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, dotBit(x%2, y%4), true
}

// Plot lights the dot at (x, y) on layer l. Dots off the canvas are ignored.
func (c *Canvas) Plot(x, y int, l Layer) {
	row, col, bit, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= bit
	c.layers[row][col] = max(c.layers[row][col], l)
}

// Set lights a single particle dot.
func (c *Canvas) Set(x, y int) { c.Plot(x, y, LayerParticle) }

// Dot lights a 2x2 block so a lone particle reads as more than a speck.
func (c *Canvas) Dot(x, y int) {
	for _, d := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		c.Plot(x+d[0], y+d[1], LayerParticle)
	}
}

// At returns the layer of the cell holding (x, y) when that dot is lit, and
// LayerNone otherwise.
func (c *Canvas) At(x, y int) Layer {
	row, col, bit, ok := c.locate(x, y)
	if !ok || c.Grid[row][col]&bit == 0 {
		return LayerNone
	}
	return c.layers[row][col]
}

// Line plots a straight run of dots from (x0, y0) to (x1, y1) inclusive.
func (c *Canvas) Line(x0, y0, x1, y1 int, l Layer) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Plot(x0, y0, l)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (2*dx*i+sign(dx)*steps)/(2*steps)
		y := y0 + (2*dy*i+sign(dy)*steps)/(2*steps)
		c.Plot(x, y, l)
	}
}

func (c *Canvas) Clear() {
	for row := range c.Grid {
		for col := range c.Grid[row] {
			c.Grid[row][col] = blank
			c.layers[row][col] = LayerNone
		}
	}
}

// String returns the canvas as plain braille text, one line per row.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colours the canvas with th. Adjacent cells on the same layer are
// styled as one run.
func (c *Canvas) Render(th Theme) string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.layers[row][col] == c.layers[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			if l := c.layers[row][start]; l == LayerNone {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(th.Color(l)).Render(run))
			}
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
