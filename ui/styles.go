package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/muesli/termenv"
)

var (
	fuchsia   = lipgloss.Color("#EE6FF8")
	yellowish = lipgloss.Color("#ECFD65")
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	amber     = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FFB454"}

	faintFg     = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	statusBarFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	logoStyle = lipgloss.NewStyle().
			Foreground(yellowish).
			Background(fuchsia).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(statusBarFg).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(statusBarFg).
			Width(7)

	focusedLabelStyle = labelStyle.
				Foreground(fuchsia).
				Bold(true)

	faintStyle = lipgloss.NewStyle().Foreground(faintFg)

	cursorStyle = lipgloss.NewStyle().Foreground(fuchsia)

	selectedVoiceStyle = lipgloss.NewStyle().Foreground(mintGreen)

	barFilledStyle = lipgloss.NewStyle().Foreground(fuchsia)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(faintFg)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#6124DF")).
			Padding(0, 2).
			MarginRight(1)

	disabledButtonStyle = buttonStyle.
				Foreground(faintFg).
				Background(statusBarBg)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(statusBarFg).
			Background(statusBarBg)

	statusLevelStyles = map[tts.Level]lipgloss.Style{
		tts.LevelInfo:    statusBarStyle,
		tts.LevelSuccess: lipgloss.NewStyle().Foreground(mintGreen).Background(darkGreen),
		tts.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#1B1B1B")).Background(amber),
		tts.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(red),
	}

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarFg).
			Padding(0, 1)
)

// applyTheme tells lipgloss which side of each adaptive colour to use.
func applyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

func statusStyle(l tts.Level) lipgloss.Style {
	if s, ok := statusLevelStyles[l]; ok {
		return s
	}
	return statusBarStyle
}
