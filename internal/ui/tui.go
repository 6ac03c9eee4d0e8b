// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the soundboard UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// PlayMsg requests playback of a sound by name
type PlayMsg struct {
	Sound string
}

// StopMsg requests a bulk stop. An empty tag stops everything.
type StopMsg struct {
	Tag string
}

// VolumeChangeMsg carries a master volume update
type VolumeChangeMsg struct {
	Volume int // 0-100
	Muted  bool
}

// QuitMsg signals that the user quit the TUI
type QuitMsg struct{}

// Control holds channels for soundboard command communication
type Control struct {
	Plays   chan PlayMsg
	Stops   chan StopMsg
	Changes chan VolumeChangeMsg
	Quit    chan QuitMsg
}

// NewControl creates a new soundboard control handler
func NewControl() *Control {
	return &Control{
		Plays:   make(chan PlayMsg, 10),
		Stops:   make(chan StopMsg, 10),
		Changes: make(chan VolumeChangeMsg, 10),
		Quit:    make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(sounds []string, ctrl *Control) Model {
	return Model{
		sounds: sounds,
		volume: 100,
		state:  "running",
		ctrl:   ctrl,
	}
}

// Run starts the TUI
func Run(sounds []string, ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(sounds, ctrl), tea.WithAltScreen())
	return p, nil
}
