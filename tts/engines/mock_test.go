package engines

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/narrate/tts"
)

func TestMockSynthesize(t *testing.T) {
	e := NewMock(175, 22050)
	text := strings.Repeat("word ", 175) // one minute at rate 1

	pcm, err := e.Synthesize(context.Background(), Params{Text: text, Rate: 1})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if want := 22050 * 2 * 60; len(pcm) != want {
		t.Errorf("len = %d, want %d", len(pcm), want)
	}

	fast, _ := e.Synthesize(context.Background(), Params{Text: text, Rate: 2})
	if len(fast) != len(pcm)/2 {
		t.Errorf("rate 2 len = %d, want %d", len(fast), len(pcm)/2)
	}

	if calls := e.Calls(); len(calls) != 2 || calls[1].Rate != 2 {
		t.Errorf("Calls() = %+v", calls)
	}
}

func TestMockFailure(t *testing.T) {
	e := NewMock(0, 0)
	boom := errors.New("boom")
	e.SetFailure(boom)

	if _, err := e.Synthesize(context.Background(), Params{Text: "hi"}); !errors.Is(err, boom) {
		t.Errorf("Synthesize() error = %v, want boom", err)
	}
	if _, err := e.Voices(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Voices() error = %v, want boom", err)
	}

	e.SetFailure(nil)
	if _, err := e.Synthesize(context.Background(), Params{Text: "hi"}); err != nil {
		t.Errorf("Synthesize() error = %v after clearing failure", err)
	}
}

func TestMockCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMock(0, 0).Synthesize(ctx, Params{Text: "hi"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Synthesize() error = %v, want context.Canceled", err)
	}
}

func TestMockAvailability(t *testing.T) {
	e := NewMock(0, 0)
	if !e.Available() {
		t.Error("mock should be available by default")
	}
	e.SetAvailable(false)
	if e.Available() {
		t.Error("SetAvailable(false) not honoured")
	}
	e.SetAvailable(true)
	_ = e.Close()
	if e.Available() {
		t.Error("closed mock should be unavailable")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		engine string
		want   string
	}{
		{tts.EngineEspeak, tts.EngineEspeak},
		{tts.EngineSay, tts.EngineSay},
		{tts.EnginePiper, tts.EnginePiper},
		{tts.EngineOpenAI, tts.EngineOpenAI},
		{tts.EngineMock, tts.EngineMock},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			cfg := tts.DefaultConfig()
			cfg.Engine = tt.engine
			e, err := New(cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", e.Name(), tt.want)
			}
		})
	}

	cfg := tts.DefaultConfig()
	cfg.Engine = "festival"
	if _, err := New(cfg); !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("New(festival) error = %v, want ErrUnknownEngine", err)
	}
}
