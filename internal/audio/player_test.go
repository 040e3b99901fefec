package audio

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		expectErr bool
	}{
		{"default", DefaultConfig(), false},
		{"openai rate stereo", Config{SampleRate: 24000, Channels: 2}, false},
		{"48kHz", Config{SampleRate: 48000, Channels: 1, BufferSize: time.Second}, false},
		{"too low", Config{SampleRate: 4000, Channels: 1}, true},
		{"too high", Config{SampleRate: 96000, Channels: 1}, true},
		{"three channels", Config{SampleRate: 22050, Channels: 3}, true},
		{"negative buffer", Config{SampleRate: 22050, Channels: 1, BufferSize: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestConfigDuration(t *testing.T) {
	tests := []struct {
		config Config
		bytes  int
		want   time.Duration
	}{
		{Config{SampleRate: 22050, Channels: 1}, 44100, time.Second},
		{Config{SampleRate: 24000, Channels: 2}, 48000, 500 * time.Millisecond},
		{Config{}, 100, 0},
	}
	for _, tt := range tests {
		if got := tt.config.Duration(tt.bytes); got != tt.want {
			t.Errorf("%+v.Duration(%d) = %v, want %v", tt.config, tt.bytes, got, tt.want)
		}
	}
}

func TestPlayerStateString(t *testing.T) {
	tests := map[PlayerState]string{
		StateStopped:    "stopped",
		StatePlaying:    "playing",
		StatePaused:     "paused",
		StateClosed:     "closed",
		PlayerState(42): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

func TestNewPlayerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewPlayer(Config{SampleRate: 1, Channels: 1}); err == nil {
		t.Error("NewPlayer should reject an invalid config")
	}
}
