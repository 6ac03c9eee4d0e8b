// ABOUTME: Bubbletea model for the soundboard TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Sound table
	sounds []string
	cursor int

	// Playback
	state      string
	active     int
	lastPlayed string

	// Master volume
	volume int
	muted  bool

	ctrl *Control

	// Dimensions
	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	State      string
	Active     *int
	LastPlayed string
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderSounds()
	s += m.renderControls()
	s += m.renderHelp()

	return s
}

// renderHeader renders context and playback status
func (m Model) renderHeader() string {
	return fmt.Sprintf(`┌─ Soundboard ─────────────────────────────────────────┐
│ Context: %-10s Active: %-3d                       │
├──────────────────────────────────────────────────────┤
`, m.state, m.active)
}

// renderSounds renders the sound list with the selection cursor
func (m Model) renderSounds() string {
	if len(m.sounds) == 0 {
		return "│ No sounds loaded                                     │\n"
	}

	s := ""
	for i, name := range m.sounds {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		marker := ""
		if name == m.lastPlayed {
			marker = " ♪"
		}
		s += fmt.Sprintf("│ %s %-48s%2s │\n", cursor, truncate(name, 48), marker)
	}
	return s
}

// renderControls renders the master volume
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	volumeBar := renderBar(m.volume, 100, 10)

	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %d%%%s%-17s │\n",
		volumeBar, m.volume, muteIcon, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ ↑/↓:Select  enter:Play  s:Stop all  +/-:Vol  m:Mute  │
│ q:Quit                                               │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sendQuit()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sounds)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < len(m.sounds) {
			m.sendPlay(m.sounds[m.cursor])
		}
	case "s":
		m.sendStop("")
	case "+", "=":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.sendVolume()
	case "-":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.sendVolume()
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Active != nil {
		m.active = *msg.Active
	}
	if msg.LastPlayed != "" {
		m.lastPlayed = msg.LastPlayed
	}
}

func (m Model) sendPlay(sound string) {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Plays <- PlayMsg{Sound: sound}:
	default:
	}
}

func (m Model) sendStop(tag string) {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Stops <- StopMsg{Tag: tag}:
	default:
	}
}

func (m Model) sendVolume() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Changes <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

func (m Model) sendQuit() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Quit <- QuitMsg{}:
	default:
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
