// Package ui provides the Bubbletea terminal meter for the kmeter CLI.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-kmeter/measure/average"
	"github.com/cwbudde/algo-kmeter/measure/ballistics"
)

// BlockMsg carries one processed block's readings to the meter.
type BlockMsg struct {
	Levels []float64 // average levels per channel (dB / LKFS)
	Peaks  []float64 // raw peak levels per channel (dB)
	Block  int
	Total  int
}

// DoneMsg signals the end of the input file.
type DoneMsg struct{}

// Model renders per-channel average and peak bars while a file is
// being metered.
type Model struct {
	FileName  string
	Algorithm average.Algorithm
	Channels  int

	levels []float64
	peaks  []float64
	block  int
	total  int
	done   bool
}

// NewModel returns a meter model for the given file and engine
// configuration.
func NewModel(fileName string, algorithm average.Algorithm, channels int) Model {
	levels := make([]float64, channels)
	peaks := make([]float64, channels)

	for c := 0; c < channels; c++ {
		levels[c] = ballistics.MeterMinimumDecibel
		peaks[c] = ballistics.MeterMinimumDecibel
	}

	return Model{
		FileName:  fileName,
		Algorithm: algorithm,
		Channels:  channels,
		levels:    levels,
		peaks:     peaks,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case BlockMsg:
		copy(m.levels, msg.Levels)
		copy(m.peaks, msg.Peaks)
		m.block = msg.Block
		m.total = msg.Total
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}
