package tts

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestNewSpeechRequest(t *testing.T) {
	a := NewSpeechRequest("hello", "v1", 20, -3)
	b := NewSpeechRequest("hello", "v1", 1, 1)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("request IDs should be unique and non-empty: %q, %q", a.ID, b.ID)
	}
	if a.Rate() != MaxRate {
		t.Errorf("Rate() = %v, want %v", a.Rate(), MaxRate)
	}
	if a.Pitch() != MinPitch {
		t.Errorf("Pitch() = %v, want %v", a.Pitch(), MinPitch)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"rate in range", ClampRate, 2.5, 2.5},
		{"rate too low", ClampRate, 0, MinRate},
		{"rate too high", ClampRate, 11, MaxRate},
		{"rate NaN", ClampRate, math.NaN(), DefaultRate},
		{"pitch in range", ClampPitch, 1.2, 1.2},
		{"pitch too low", ClampPitch, -0.5, MinPitch},
		{"pitch too high", ClampPitch, 3, MaxPitch},
		{"pitch NaN", ClampPitch, math.NaN(), DefaultPitch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSpeechRequestConcurrentUpdates(t *testing.T) {
	req := NewSpeechRequest("hello", "", 1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			req.SetRate(float64(i) + 0.5)
			req.SetPitch(float64(i%3) * 0.5)
		}(i)
		go func() {
			defer wg.Done()
			_ = req.Rate()
			_ = req.Pitch()
		}()
	}
	wg.Wait()

	if r := req.Rate(); r < MinRate || r > MaxRate {
		t.Errorf("Rate() = %v out of bounds", r)
	}
}

func TestControlsFor(t *testing.T) {
	tests := []struct {
		state PlaybackState
		want  Controls
	}{
		{StateIdle, Controls{PlayLabel: "Play", PauseLabel: "Pause", TextEnabled: true, VoiceEnabled: true}},
		{StateSpeaking, Controls{PlayLabel: "Stop", PauseLabel: "Pause", PauseEnabled: true, StopEnabled: true}},
		{StatePaused, Controls{PlayLabel: "Resume", PauseLabel: "Resume", PauseEnabled: true, StopEnabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := ControlsFor(tt.state); got != tt.want {
				t.Errorf("ControlsFor(%v) = %+v, want %+v", tt.state, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	for level, want := range map[Level]string{
		LevelInfo:    "info",
		LevelSuccess: "success",
		LevelWarning: "warning",
		LevelError:   "error",
		Level(42):    "unknown",
	} {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	userErr := userInputError("play", ErrEmptyText)
	capErr := capabilityError("speak", nil)

	if !IsUserInputError(userErr) || IsCapabilityError(userErr) {
		t.Errorf("user input error misclassified: %v", userErr)
	}
	if !IsCapabilityError(capErr) || IsUserInputError(capErr) {
		t.Errorf("capability error misclassified: %v", capErr)
	}
	if !errors.Is(capErr, ErrSpeechFailed) {
		t.Errorf("capabilityError(nil) should wrap ErrSpeechFailed")
	}
	if got := userErr.Error(); got != "play: no text to speak" {
		t.Errorf("Error() = %q", got)
	}
	if IsUserInputError(errors.New("plain")) {
		t.Error("plain errors are not user input errors")
	}
}
