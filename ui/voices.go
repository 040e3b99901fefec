package ui

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/narrate/tts"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
)

const defaultPickerHeight = 5

// voiceSource adapts a voice list for fuzzy matching on name and language.
type voiceSource []tts.Voice

func (s voiceSource) String(i int) string {
	return s[i].Name + " " + s[i].Language
}

func (s voiceSource) Len() int { return len(s) }

// voicePicker is a scrolling list of voices with an incremental filter.
type voicePicker struct {
	voices  []tts.Voice
	filter  string
	matches []int // indices into voices, best match first
	cursor  int   // index into matches
	height  int
	width   int
}

func newVoicePicker() voicePicker {
	return voicePicker{height: defaultPickerHeight, width: 40}
}

// setVoices replaces the list, keeping the filter. The cursor moves to the
// selected voice when it is visible.
func (p *voicePicker) setVoices(voices []tts.Voice, selected string) {
	p.voices = voices
	p.applyFilter()
	p.cursorTo(selected)
}

func (p *voicePicker) setFilter(filter string) {
	p.filter = filter
	p.applyFilter()
	p.cursor = 0
}

func (p *voicePicker) applyFilter() {
	p.matches = p.matches[:0]
	if p.filter == "" {
		for i := range p.voices {
			p.matches = append(p.matches, i)
		}
	} else {
		for _, m := range fuzzy.FindFrom(p.filter, voiceSource(p.voices)) {
			p.matches = append(p.matches, m.Index)
		}
	}
	p.clamp()
}

func (p *voicePicker) cursorTo(id string) {
	for i, idx := range p.matches {
		if p.voices[idx].ID == id {
			p.cursor = i
			return
		}
	}
	p.clamp()
}

func (p *voicePicker) clamp() {
	if p.cursor >= len(p.matches) {
		p.cursor = len(p.matches) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *voicePicker) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *voicePicker) down() {
	if p.cursor < len(p.matches)-1 {
		p.cursor++
	}
}

// current returns the voice under the cursor.
func (p voicePicker) current() (tts.Voice, bool) {
	if len(p.matches) == 0 {
		return tts.Voice{}, false
	}
	return p.voices[p.matches[p.cursor]], true
}

// window returns the range of matches to draw so the cursor stays visible.
func (p voicePicker) window() (start, end int) {
	n := len(p.matches)
	if n <= p.height {
		return 0, n
	}
	start = p.cursor - p.height/2
	start = max(0, min(start, n-p.height))
	return start, start + p.height
}

func (p voicePicker) view(selected string, focused, enabled bool) string {
	var b strings.Builder

	switch {
	case p.filter != "":
		fmt.Fprintf(&b, "%s\n", faintStyle.Render(fmt.Sprintf("filter: %s (%d/%d)", p.filter, len(p.matches), len(p.voices))))
	case focused && enabled:
		fmt.Fprintf(&b, "%s\n", faintStyle.Render("type to filter"))
	}

	if len(p.voices) == 0 {
		b.WriteString(faintStyle.Render("No voices available. The engine default will be used."))
		return b.String()
	}
	if len(p.matches) == 0 {
		b.WriteString(faintStyle.Render("No voices match."))
		return b.String()
	}

	start, end := p.window()
	nameWidth := max(1, p.width-4)
	for i := start; i < end; i++ {
		v := p.voices[p.matches[i]]

		pointer := "  "
		if focused && i == p.cursor {
			pointer = cursorStyle.Render("› ")
		}
		mark := "  "
		if v.ID == selected {
			mark = selectedVoiceStyle.Render("● ")
		}

		name := runewidth.Truncate(v.String(), nameWidth, ellipsis)
		switch {
		case !enabled:
			name = faintStyle.Render(name)
		case v.ID == selected:
			name = selectedVoiceStyle.Render(name)
		}

		b.WriteString(pointer + mark + name)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
