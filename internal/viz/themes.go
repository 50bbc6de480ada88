package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the particle view by layer, plus the side panel.
type Theme struct {
	Name     string
	Particle lipgloss.Color
	Trail    lipgloss.Color
	Grid     lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Error    lipgloss.Color
}

var themes = []Theme{
	{
		Name:     "phosphor",
		Particle: "#c8ffb0",
		Trail:    "#3f9f3a",
		Grid:     "#1f3f1f",
		Accent:   "#7cff6b",
		Muted:    "#5a7a5a",
		Error:    "#ff5f5f",
	},
	{
		Name:     "ember",
		Particle: "#ffe0a0",
		Trail:    "#d9622b",
		Grid:     "#4a2a22",
		Accent:   "#ff9b54",
		Muted:    "#8a6a60",
		Error:    "#ff3b3b",
	},
	{
		Name:     "tide",
		Particle: "#e8f8ff",
		Trail:    "#2f8fbf",
		Grid:     "#18344a",
		Accent:   "#5fd7ff",
		Muted:    "#5a7a90",
		Error:    "#ff6b6b",
	},
}

var currentTheme int

// Color is the foreground for cells on layer l.
func (th Theme) Color(l Layer) lipgloss.Color {
	switch l {
	case LayerParticle:
		return th.Particle
	case LayerTrail:
		return th.Trail
	case LayerGrid:
		return th.Grid
	}
	return th.Muted
}

func CurrentTheme() Theme { return themes[currentTheme] }

// NextTheme switches to the following theme, wrapping around, and returns it.
func NextTheme() Theme {
	currentTheme = (currentTheme + 1) % len(themes)
	return themes[currentTheme]
}

// SetTheme selects a theme by name. Unknown names leave the theme as is.
func SetTheme(name string) bool {
	for i, th := range themes {
		if th.Name == name {
			currentTheme = i
			return true
		}
	}
	return false
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, th := range themes {
		names[i] = th.Name
	}
	return names
}
