package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-kmeter/measure/average"
	"github.com/cwbudde/algo-kmeter/measure/ballistics"
)

const barWidth = 50

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AFFF"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D700"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("kmeter — " + m.FileName))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s · block %d/%d", m.Algorithm, m.block, m.total)))
	b.WriteString("\n\n")

	if m.Algorithm == average.AlgorithmItuBs1770 {
		b.WriteString(renderBar("LKFS", m.levels[0]))
		b.WriteString("\n")
	} else {
		for c := 0; c < m.Channels; c++ {
			b.WriteString(renderBar(channelLabel(c, m.Channels), m.levels[c]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	for c := 0; c < m.Channels; c++ {
		b.WriteString(renderBar("peak "+channelLabel(c, m.Channels), m.peaks[c]))
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n" + subtitleStyle.Render("done"))
	} else {
		b.WriteString("\n" + subtitleStyle.Render("press q to quit"))
	}

	return b.String()
}

func channelLabel(c, channels int) string {
	if channels <= 2 {
		return []string{"L", "R"}[c]
	}

	labels := []string{"L", "R", "C", "LFE", "Ls", "Rs"}
	if c < len(labels) {
		return labels[c]
	}

	return fmt.Sprintf("ch%d", c)
}

// renderBar draws one level bar from the meter floor up to 0 dB with
// the K-System style green/yellow/red split.
func renderBar(label string, db float64) string {
	span := -ballistics.MeterMinimumDecibel

	pos := (db - ballistics.MeterMinimumDecibel) / span
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}

	filled := int(pos*barWidth + 0.5)

	var bar strings.Builder

	for i := 0; i < barWidth; i++ {
		cell := "█"
		if i >= filled {
			bar.WriteString(trackStyle.Render("─"))
			continue
		}

		frac := float64(i) / barWidth
		switch {
		case frac > 0.92:
			bar.WriteString(redStyle.Render(cell))
		case frac > 0.78:
			bar.WriteString(yellowStyle.Render(cell))
		default:
			bar.WriteString(greenStyle.Render(cell))
		}
	}

	return fmt.Sprintf("%-7s %s %7.2f dB", label, bar.String(), db)
}
