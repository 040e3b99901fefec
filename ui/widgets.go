package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/dgnsrekt/narrate/tts"
)

const (
	sliderWidth = 30
	sliderStep  = 0.1
)

// slider renders value as a bar between lo and hi.
func slider(value, lo, hi float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac := (value - lo) / (hi - lo)
	frac = math.Max(0, math.Min(1, frac))
	filled := int(math.Round(frac * float64(width)))

	return barFilledStyle.Render(strings.Repeat("━", filled)) +
		barEmptyStyle.Render(strings.Repeat("─", width-filled)) +
		fmt.Sprintf(" %.1f", value)
}

// step moves v by delta on a grid of sliderStep so repeated presses do not
// accumulate float error.
func step(v, delta float64) float64 {
	return math.Round((v+delta)/sliderStep) * sliderStep
}

func button(label string, enabled bool) string {
	if !enabled {
		return disabledButtonStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

func buttonsView(c tts.Controls) string {
	return button(c.PlayLabel, true) +
		button(c.PauseLabel, c.PauseEnabled) +
		button("Stop", c.StopEnabled)
}
