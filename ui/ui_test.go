package ui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgnsrekt/narrate/internal/audio"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/dgnsrekt/narrate/tts/engines"
	"github.com/dgnsrekt/narrate/tts/synth"
)

func newTestModel(t *testing.T, cfg Config) model {
	t.Helper()
	engine := engines.NewMock(0, 0)
	player := audio.NewMockPlayer(audio.Config{SampleRate: engine.Format().SampleRate, Channels: 1}, audio.MockCallbacks{})

	s, err := synth.New(engine, player, synth.Options{})
	if err != nil {
		t.Fatalf("synth.New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctrl := tts.NewController(s, tts.ControllerConfig{Locale: "en-US"})
	return newModel(cfg, ctrl, s.Events())
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm, cmd
}

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func typeText(t *testing.T, m model, s string) model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestPlayWithEmptyText(t *testing.T) {
	m := newTestModel(t, Config{})

	m, _ = update(t, m, keyPress(tea.KeyCtrlS))
	if st := m.ctrl.State(); st != tts.StateIdle {
		t.Errorf("state = %v, want idle", st)
	}
	if view := m.View(); !strings.Contains(view, tts.MsgEmptyText) {
		t.Errorf("status line does not show %q:\n%s", tts.MsgEmptyText, view)
	}
}

func TestTypingUpdatesController(t *testing.T) {
	m := newTestModel(t, Config{})
	m = typeText(t, m, "Hello.")

	if got := m.ctrl.Snapshot().Text; got != "Hello." {
		t.Errorf("controller text = %q, want Hello.", got)
	}
	if view := m.View(); !strings.Contains(view, "6 characters") {
		t.Errorf("view missing character count:\n%s", view)
	}
}

func TestInitialText(t *testing.T) {
	m := newTestModel(t, Config{Text: "Loaded from a file.", Title: "notes.md"})
	if got := m.ctrl.Snapshot().Text; got != "Loaded from a file." {
		t.Errorf("controller text = %q", got)
	}
	if view := m.View(); !strings.Contains(view, "notes.md") {
		t.Errorf("header missing title:\n%s", view)
	}
}

func TestPlayPauseStop(t *testing.T) {
	m := newTestModel(t, Config{Text: "Hello there. This is a longer text to keep speaking."})

	m, _ = update(t, m, keyPress(tea.KeyCtrlS))
	snap := m.ctrl.Snapshot()
	if snap.State != tts.StateSpeaking {
		t.Fatalf("state = %v, want speaking", snap.State)
	}
	if snap.Controls.PlayLabel != "Stop" {
		t.Errorf("play label = %q, want Stop", snap.Controls.PlayLabel)
	}
	if m.textarea.Focused() {
		t.Error("text area should lose focus while speaking")
	}
	m = typeText(t, m, "x")
	if strings.HasSuffix(m.ctrl.Snapshot().Text, "x") {
		t.Error("text changed while speaking")
	}

	m, _ = update(t, m, keyPress(tea.KeyCtrlP))
	if st := m.ctrl.State(); st != tts.StatePaused {
		t.Errorf("state after ctrl+p = %v, want paused", st)
	}

	m, cmd := update(t, m, keyPress(tea.KeyCtrlX))
	if st := m.ctrl.State(); st != tts.StateIdle {
		t.Errorf("state after ctrl+x = %v, want idle", st)
	}
	if cmd == nil || !m.textarea.Focused() {
		t.Error("text area should regain focus when idle")
	}
}

func TestSliders(t *testing.T) {
	m := newTestModel(t, Config{})

	m, _ = update(t, m, keyPress(tea.KeyTab))
	m, _ = update(t, m, keyPress(tea.KeyTab))
	if m.focus != focusRate {
		t.Fatalf("focus = %v, want rate", m.focus)
	}
	m, _ = update(t, m, keyPress(tea.KeyRight))
	if r := m.ctrl.Snapshot().Rate; math.Abs(r-1.1) > 1e-9 {
		t.Errorf("rate = %v, want 1.1", r)
	}

	m, _ = update(t, m, keyPress(tea.KeyTab))
	for i := 0; i < 15; i++ {
		m, _ = update(t, m, keyPress(tea.KeyLeft))
	}
	if p := m.ctrl.Snapshot().Pitch; p != tts.MinPitch {
		t.Errorf("pitch = %v, want clamped to %v", p, tts.MinPitch)
	}

	m, _ = update(t, m, keyPress(tea.KeyShiftTab))
	if m.focus != focusRate {
		t.Errorf("shift+tab focus = %v, want rate", m.focus)
	}
}

func TestVoiceSelection(t *testing.T) {
	m := newTestModel(t, Config{})

	msg := tts.LoadVoicesCmd(context.Background(), m.ctrl)()
	m, _ = update(t, m, msg)
	if n := len(m.voices.voices); n != 3 {
		t.Fatalf("picker has %d voices, want 3", n)
	}
	if v, _ := m.voices.current(); v.ID != "mock-us" {
		t.Errorf("cursor on %q, want the default mock-us", v.ID)
	}

	m, _ = update(t, m, keyPress(tea.KeyTab))
	m = typeText(t, m, "fr")
	if n := len(m.voices.matches); n != 1 {
		t.Fatalf("filter matched %d voices, want 1", n)
	}
	if m.ctrl.Snapshot().Text != "" {
		t.Error("filter keys leaked into the text")
	}

	m, _ = update(t, m, keyPress(tea.KeyEnter))
	if got := m.ctrl.Snapshot().Voice; got != "mock-fr" {
		t.Errorf("voice = %q, want mock-fr", got)
	}

	m, _ = update(t, m, keyPress(tea.KeyBackspace))
	if m.voices.filter != "f" {
		t.Errorf("filter after backspace = %q, want f", m.voices.filter)
	}
	m, _ = update(t, m, keyPress(tea.KeyEsc))
	if m.voices.filter != "" || len(m.voices.matches) != 3 {
		t.Errorf("esc should clear the filter, got %q (%d matches)", m.voices.filter, len(m.voices.matches))
	}
}

func TestEventsReachController(t *testing.T) {
	m := newTestModel(t, Config{Text: "Hi."})
	_ = m.ctrl.Play()
	id := m.ctrl.LiveRequest().ID

	ev := tts.Event{Kind: tts.EventError, RequestID: id, Err: errors.New("boom")}
	m, cmd := update(t, m, tts.EventMsg{Event: ev})
	if cmd == nil {
		t.Fatal("event did not wait for the next one")
	}
	if snap := m.ctrl.Snapshot(); snap.State != tts.StateIdle || snap.Status.Level != tts.LevelError {
		t.Errorf("snapshot after error = %v/%v, want idle/error", snap.State, snap.Status.Level)
	}

	m, _ = update(t, m, tts.EventsClosedMsg{})
	if !m.eventsClosed {
		t.Error("closed event channel not recorded")
	}
}

// nextEvent waits for the synthesizer's next notification the way the
// program does.
func nextEvent(t *testing.T, m model) tts.EventMsg {
	t.Helper()
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- tts.WaitForEventCmd(m.events)() }()

	select {
	case msg := <-msgs:
		em, ok := msg.(tts.EventMsg)
		if !ok {
			t.Fatalf("WaitForEventCmd() = %T, want EventMsg", msg)
		}
		return em
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a capability event")
		return tts.EventMsg{}
	}
}

func TestEventsAppliedInOrder(t *testing.T) {
	m := newTestModel(t, Config{Text: "Hello there. This is a longer text to keep speaking."})

	m, _ = update(t, m, keyPress(tea.KeyCtrlS))
	m, _ = update(t, m, keyPress(tea.KeyCtrlP))
	m, _ = update(t, m, keyPress(tea.KeyCtrlP))
	if st := m.ctrl.State(); st != tts.StateSpeaking {
		t.Fatalf("state after pause and resume = %v, want speaking", st)
	}

	for {
		em := nextEvent(t, m)
		m, _ = update(t, m, em)

		switch em.Event.Kind {
		case tts.EventPause:
			if st := m.ctrl.State(); st != tts.StatePaused {
				t.Fatalf("state after pause event = %v, want paused", st)
			}
		case tts.EventResume:
			snap := m.ctrl.Snapshot()
			if snap.State != tts.StateSpeaking || snap.Status.Message != tts.MsgSpeaking {
				t.Fatalf("after resume event = %v %q, want speaking", snap.State, snap.Status.Message)
			}
			m, _ = update(t, m, keyPress(tea.KeyCtrlX))
			if st := m.ctrl.State(); st != tts.StateIdle {
				t.Errorf("state after ctrl+x = %v, want idle", st)
			}
			return
		case tts.EventEnd, tts.EventError:
			t.Fatalf("unexpected %v before the resume event", em.Event.Kind)
		}
	}
}

func TestQuitStops(t *testing.T) {
	m := newTestModel(t, Config{Text: "Hello there."})
	_ = m.ctrl.Play()

	_, cmd := update(t, m, keyPress(tea.KeyCtrlC))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if st := m.ctrl.State(); st != tts.StateIdle {
		t.Errorf("state after quit = %v, want idle", st)
	}
}

func TestStatusView(t *testing.T) {
	m := newTestModel(t, Config{})
	m.setSize(30, 40)

	snap := m.ctrl.Snapshot()
	snap.Status = tts.Status{Message: tts.MsgUnavailable, Level: tts.LevelError}
	line := m.statusView(snap)

	if !strings.Contains(line, ellipsis) {
		t.Errorf("long message not truncated: %q", line)
	}
	if !strings.HasSuffix(strings.TrimSpace(line), "idle") {
		t.Errorf("status line should end with the state: %q", line)
	}
}

func TestCounterView(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", "0 characters"},
		{"a", "1 character"},
		{"héllo", "5 characters"},
		{strings.Repeat("x", 12345), "12,345 characters"},
	}
	for _, tc := range tests {
		if got := counterView(tc.text); got != tc.want {
			t.Errorf("counterView(%d runes) = %q, want %q", len([]rune(tc.text)), got, tc.want)
		}
	}
}
