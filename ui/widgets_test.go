package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/dgnsrekt/narrate/tts"
)

func TestSlider(t *testing.T) {
	tests := []struct {
		value  float64
		filled int
		label  string
	}{
		{0, 0, " 0.0"},
		{1, 5, " 1.0"},
		{2, 10, " 2.0"},
		{3, 10, " 3.0"},
		{-1, 0, " -1.0"},
	}
	for _, tc := range tests {
		got := slider(tc.value, tts.MinPitch, tts.MaxPitch, 10)
		if n := strings.Count(got, "━"); n != tc.filled {
			t.Errorf("slider(%v) filled %d cells, want %d", tc.value, n, tc.filled)
		}
		if n := strings.Count(got, "─"); n != 10-tc.filled {
			t.Errorf("slider(%v) left %d empty cells, want %d", tc.value, n, 10-tc.filled)
		}
		if !strings.HasSuffix(got, tc.label) {
			t.Errorf("slider(%v) = %q, want suffix %q", tc.value, got, tc.label)
		}
	}
	if slider(1, 0, 2, 0) != "" {
		t.Error("zero-width slider should render nothing")
	}
}

func TestStep(t *testing.T) {
	v := 1.0
	for i := 0; i < 7; i++ {
		v = step(v, sliderStep)
	}
	if math.Abs(v-1.7) > 1e-9 {
		t.Errorf("seven steps from 1.0 = %v, want 1.7", v)
	}
	if got := step(0.1, -sliderStep); got != 0 {
		t.Errorf("step(0.1, -0.1) = %v, want 0", got)
	}
}

func TestButtonsView(t *testing.T) {
	idle := buttonsView(tts.ControlsFor(tts.StateIdle))
	for _, label := range []string{"Play", "Pause", "Stop"} {
		if !strings.Contains(idle, label) {
			t.Errorf("idle buttons missing %q: %q", label, idle)
		}
	}
	if paused := buttonsView(tts.ControlsFor(tts.StatePaused)); strings.Count(paused, "Resume") != 2 {
		t.Errorf("paused buttons = %q, want two Resume labels", paused)
	}
}
