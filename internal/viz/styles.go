package viz

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// panel holds the text styles of the side panel and picker for one theme.
type panel struct {
	title, label, value, muted, hint lipgloss.Style
	running, paused, recording, err  lipgloss.Style
}

func panelFor(th Theme) panel {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return panel{
		title:     fg(th.Accent).Bold(true),
		label:     fg(th.Muted).Width(12),
		value:     fg(th.Particle),
		muted:     fg(th.Muted),
		hint:      fg(th.Muted).Italic(true),
		running:   fg(th.Accent).Bold(true),
		paused:    fg(th.Trail).Bold(true),
		recording: fg(th.Error).Bold(true).Blink(true),
		err:       fg(th.Error).Bold(true),
	}
}

// Sparkline draws values as block characters, at most width of them. Each
// character covers a bucket of consecutive samples and shows its largest
// value, so short population spikes survive the downsampling.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	levels := []rune("▁▂▃▄▅▆▇█")

	n := min(width, len(values))
	buckets := make([]float64, n)
	for i := range buckets {
		lo, hi := i*len(values)/n, (i+1)*len(values)/n
		buckets[i] = slices.Max(values[lo:hi])
	}

	lo, hi := slices.Min(buckets), slices.Max(buckets)
	out := make([]rune, n)
	for i, v := range buckets {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(levels)-1)))
		}
		out[i] = levels[idx]
	}
	return string(out)
}

// progressBar shows how much of the run's duration has been simulated.
func progressBar(frac float64, width int, th Theme) string {
	done := int(math.Round(math.Max(0, math.Min(1, frac)) * float64(width)))
	return lipgloss.NewStyle().Foreground(th.Accent).Render(strings.Repeat("━", done)) +
		lipgloss.NewStyle().Foreground(th.Grid).Render(strings.Repeat("─", width-done))
}
