package ui

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/narrate/tts"
)

var pickerVoices = []tts.Voice{
	{ID: "en-us-amy", Name: "Amy", Language: "en-US"},
	{ID: "en-gb-alan", Name: "Alan", Language: "en-GB"},
	{ID: "de-de-thorsten", Name: "Thorsten", Language: "de-DE"},
	{ID: "fr-fr-siwis", Name: "Siwis", Language: "fr-FR"},
	{ID: "es-es-carlfm", Name: "Carlfm", Language: "es-ES"},
	{ID: "it-it-riccardo", Name: "Riccardo", Language: "it-IT"},
	{ID: "nl-nl-mls", Name: "MLS", Language: "nl-NL"},
}

func TestVoicePickerFilter(t *testing.T) {
	p := newVoicePicker()
	p.setVoices(pickerVoices, "de-de-thorsten")

	if v, _ := p.current(); v.ID != "de-de-thorsten" {
		t.Errorf("cursor on %q, want the selected voice", v.ID)
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"en-us-amy", "en-gb-alan", "de-de-thorsten", "fr-fr-siwis", "es-es-carlfm", "it-it-riccardo", "nl-nl-mls"}},
		{"thor", []string{"de-de-thorsten"}},
		{"en-GB", []string{"en-gb-alan"}},
		{"zzz", nil},
	}
	for _, tc := range tests {
		t.Run(tc.filter, func(t *testing.T) {
			p.setFilter(tc.filter)
			var got []string
			for _, i := range p.matches {
				got = append(got, p.voices[i].ID)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("matches = %v, want %v", got, tc.want)
			}
			if p.cursor != 0 {
				t.Errorf("cursor = %d after filtering, want 0", p.cursor)
			}
		})
	}

	if _, ok := p.current(); ok {
		t.Error("current() should report no voice when nothing matches")
	}
}

func TestVoicePickerNavigation(t *testing.T) {
	p := newVoicePicker()
	p.setVoices(pickerVoices, "")

	p.up()
	if p.cursor != 0 {
		t.Errorf("up at top moved cursor to %d", p.cursor)
	}
	for i := 0; i < 10; i++ {
		p.down()
	}
	if p.cursor != len(pickerVoices)-1 {
		t.Errorf("cursor = %d, want last", p.cursor)
	}

	start, end := p.window()
	if end-start != defaultPickerHeight || end != len(pickerVoices) {
		t.Errorf("window = [%d, %d), want the last %d rows", start, end, defaultPickerHeight)
	}

	// Reloading keeps the cursor in range when the list shrinks.
	p.setVoices(pickerVoices[:2], "missing")
	if p.cursor != 1 {
		t.Errorf("cursor after shrink = %d, want 1", p.cursor)
	}
}

func TestVoicePickerView(t *testing.T) {
	p := newVoicePicker()
	p.width = 18
	p.setVoices(pickerVoices, "en-gb-alan")

	view := p.view("en-gb-alan", true, true)
	lines := strings.Split(view, "\n")
	// Hint line plus one row per visible voice.
	if len(lines) != defaultPickerHeight+1 {
		t.Fatalf("view has %d lines, want %d:\n%s", len(lines), defaultPickerHeight+1, view)
	}
	if !strings.Contains(view, "● Alan (en-GB)") {
		t.Errorf("selected voice not marked:\n%s", view)
	}
	if !strings.Contains(view, "Thorsten (de-"+ellipsis) {
		t.Errorf("long names should be truncated:\n%s", view)
	}

	empty := newVoicePicker()
	if v := empty.view("", false, true); !strings.Contains(v, "No voices available") {
		t.Errorf("empty picker view = %q", v)
	}
}
