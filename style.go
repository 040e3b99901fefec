package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/narrate/tts"
)

var (
	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Render

	paragraph = lipgloss.NewStyle().
			Width(78).
			Padding(0, 0, 0, 2).
			Render

	faint = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}).
		Render

	levelStyles = map[tts.Level]lipgloss.Style{
		tts.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}),
		tts.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		tts.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB454")),
		tts.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ED567A")).Bold(true),
	}
)

// statusLine renders a status message for line-oriented output.
func statusLine(s tts.Status) string {
	return levelStyles[s.Level].Render(s.Message)
}
