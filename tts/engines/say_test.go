package engines

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestParseSayVoices(t *testing.T) {
	out := []byte(`Alex                en_US    # Most people recognize me by my voice.
Amélie              fr_CA    # Bonjour, je m'appelle Amélie.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp.
Eddy (German (Germany)) de_DE    # Hallo! Ich heiße Eddy.
not a voice line
`)

	voices := parseSayVoices(out)
	want := []struct{ id, lang string }{
		{"Alex", "en-US"},
		{"Amélie", "fr-CA"},
		{"Bad News", "en-US"},
		{"Eddy (German (Germany))", "de-DE"},
	}
	if len(voices) != len(want) {
		t.Fatalf("parsed %d voices, want %d: %+v", len(voices), len(want), voices)
	}
	for i, w := range want {
		if voices[i].ID != w.id || voices[i].Name != w.id || voices[i].Language != w.lang {
			t.Errorf("voice %d = %+v, want id %q lang %q", i, voices[i], w.id, w.lang)
		}
	}
}

func TestSayRate(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{1, 175},
		{2, 350},
		{0.1, 50},
		{10, 700},
	}
	for _, tt := range tests {
		if got := sayRate(tt.rate); got != tt.want {
			t.Errorf("sayRate(%v) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestSayUnavailableOffDarwin(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("say is native on darwin")
	}
	s := NewSay("")
	if s.Available() {
		t.Error("say should not be available off darwin")
	}
	if _, err := s.Synthesize(context.Background(), Params{Text: "hi"}); !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("Synthesize() error = %v, want ErrBinaryNotFound", err)
	}
}
