// Package ui provides the terminal interface of narrate.
package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	ellipsis     = "…"
	defaultWidth = 80

	// Rows taken by everything except the text area and the help.
	chromeHeight = 11 + defaultPickerHeight + 1
)

// NewProgram returns a new Tea program driving ctrl. Notifications from the
// synthesizer are read from events.
func NewProgram(cfg Config, ctrl *tts.Controller, events <-chan tts.Event) *tea.Program {
	log.Debug(
		"Starting narrate",
		"theme", cfg.Theme,
		"alt_screen", cfg.AltScreen,
	)
	applyTheme(cfg.Theme)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if cfg.InputTTY {
		opts = append(opts, tea.WithInputTTY())
	}
	return tea.NewProgram(newModel(cfg, ctrl, events), opts...)
}

// focusArea is the part of the screen receiving keys.
type focusArea int

const (
	focusText focusArea = iota
	focusVoice
	focusRate
	focusPitch
	focusCount
)

func (f focusArea) String() string {
	return [...]string{"text", "voice", "rate", "pitch"}[f]
}

type pasteMsg struct {
	text string
	err  error
}

type model struct {
	cfg    Config
	ctrl   *tts.Controller
	events <-chan tts.Event

	keys     keyMap
	help     help.Model
	textarea textarea.Model
	spinner  spinner.Model
	voices   voicePicker

	focus        focusArea
	width        int
	height       int
	eventsClosed bool
}

func newModel(cfg Config, ctrl *tts.Controller, events <-chan tts.Event) model {
	ta := textarea.New()
	ta.Placeholder = "Enter text to read aloud..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(defaultWidth - 2)
	if cfg.Text != "" {
		ta.SetValue(cfg.Text)
		ctrl.SetText(cfg.Text)
	}
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cursorStyle),
	)

	h := help.New()
	h.ShowAll = cfg.FullHelp

	m := model{
		cfg:      cfg,
		ctrl:     ctrl,
		events:   events,
		keys:     newKeyMap(),
		help:     h,
		textarea: ta,
		spinner:  sp,
		voices:   newVoicePicker(),
		width:    defaultWidth,
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		tts.LoadVoicesCmd(context.Background(), m.ctrl),
		tts.WaitForEventCmd(m.events),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tts.EventMsg:
		// Applied before waiting for the next one, so the controller sees
		// events in the order the synthesizer sent them.
		log.Debug("capability event", "kind", msg.Event.Kind, "request", msg.Event.RequestID)
		if msg.Event.Kind == tts.EventVoicesChanged {
			return m, tea.Batch(
				tts.LoadVoicesCmd(context.Background(), m.ctrl),
				tts.WaitForEventCmd(m.events),
			)
		}
		m.ctrl.HandleEvent(context.Background(), msg.Event)
		cmd := m.sync(m.ctrl.Snapshot())
		return m, tea.Batch(cmd, tts.WaitForEventCmd(m.events))

	case tts.EventsClosedMsg:
		log.Debug("synthesizer event channel closed")
		m.eventsClosed = true
		return m, nil

	case tts.VoicesLoadedMsg:
		if msg.Err != nil {
			log.Debug("voice list not loaded", "error", msg.Err)
		}
		cmd := m.sync(m.ctrl.Snapshot())
		return m, cmd

	case pasteMsg:
		if msg.err != nil {
			log.Debug("unable to read clipboard", "error", msg.err)
			return m, nil
		}
		if m.ctrl.Controls().TextEnabled {
			m.textarea.InsertString(msg.text)
			m.ctrl.SetText(m.textarea.Value())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinking and the like.
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.ctrl.Stop(); err != nil {
			log.Debug("stop on quit", "error", err)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayStop):
		cmd := m.act("play", m.ctrl.TogglePlay)
		return m, cmd

	case key.Matches(msg, m.keys.Pause):
		cmd := m.act("pause", m.ctrl.TogglePause)
		return m, cmd

	case key.Matches(msg, m.keys.Stop):
		cmd := m.act("stop", m.ctrl.Stop)
		return m, cmd

	case key.Matches(msg, m.keys.Focus):
		cmd := m.setFocus((m.focus + 1) % focusCount)
		return m, cmd

	case key.Matches(msg, m.keys.FocusBack):
		cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd

	case key.Matches(msg, m.keys.Paste):
		if !m.ctrl.Controls().TextEnabled {
			return m, nil
		}
		return m, pasteCmd

	case key.Matches(msg, m.keys.Reload):
		return m, tts.LoadVoicesCmd(context.Background(), m.ctrl)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.setSize(m.width, m.height)
		return m, nil
	}

	switch m.focus {
	case focusText:
		if !m.ctrl.Controls().TextEnabled {
			return m, nil
		}
		before := m.textarea.Value()
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		if after := m.textarea.Value(); after != before {
			m.ctrl.SetText(after)
		}
		return m, cmd

	case focusVoice:
		return m.handleVoiceKey(msg)

	case focusRate, focusPitch:
		var delta float64
		switch {
		case key.Matches(msg, m.keys.Decrease):
			delta = -sliderStep
		case key.Matches(msg, m.keys.Increase):
			delta = sliderStep
		default:
			return m, nil
		}
		snap := m.ctrl.Snapshot()
		if m.focus == focusRate {
			m.ctrl.UpdateRate(step(snap.Rate, delta))
		} else {
			m.ctrl.UpdatePitch(step(snap.Pitch, delta))
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleVoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.voices.up()
	case key.Matches(msg, m.keys.Down):
		m.voices.down()
	case key.Matches(msg, m.keys.Select):
		v, ok := m.voices.current()
		if !ok || !m.ctrl.Controls().VoiceEnabled {
			return m, nil
		}
		cmd := m.act("voice", func() error {
			return m.ctrl.SelectVoice(v.ID)
		})
		return m, cmd
	case key.Matches(msg, m.keys.ClearFilter):
		m.voices.setFilter("")
	case msg.Type == tea.KeyBackspace:
		if f := []rune(m.voices.filter); len(f) > 0 {
			m.voices.setFilter(string(f[:len(f)-1]))
		}
	case msg.Type == tea.KeyRunes, msg.Type == tea.KeySpace:
		m.voices.setFilter(m.voices.filter + string(msg.Runes))
	}
	return m, nil
}

func (m *model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	log.Debug("focus", "area", f)
	if f == focusText && m.ctrl.Controls().TextEnabled {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

// act runs a controller action on the update loop. Synthesizer calls
// return at once, and rejected actions are already on the status line.
func (m *model) act(action string, fn func() error) tea.Cmd {
	if err := fn(); err != nil {
		log.Debug("action rejected", "action", action, "error", err)
	}
	return m.sync(m.ctrl.Snapshot())
}

// sync brings the widgets in line with the controller.
func (m *model) sync(snap tts.Snapshot) tea.Cmd {
	if !slices.Equal(m.voices.voices, snap.Voices) {
		m.voices.setVoices(snap.Voices, snap.Voice)
	}

	switch {
	case !snap.Controls.TextEnabled && m.textarea.Focused():
		m.textarea.Blur()
	case snap.Controls.TextEnabled && m.focus == focusText && !m.textarea.Focused():
		return m.textarea.Focus()
	}
	return nil
}

func (m *model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = 4
	}
	m.textarea.SetWidth(max(10, width-2))
	m.textarea.SetHeight(max(3, height-chromeHeight-helpHeight))
	m.voices.width = max(10, width-2)
}

func pasteCmd() tea.Msg {
	text, err := clipboard.ReadAll()
	return pasteMsg{text: text, err: err}
}

func (m model) View() string {
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", m.headerView())
	fmt.Fprintf(&b, "%s\n", m.textarea.View())
	fmt.Fprintf(&b, "%s\n\n", counterView(snap.Text))

	fmt.Fprintf(&b, "%s\n", m.label("Voice", focusVoice))
	fmt.Fprintf(&b, "%s\n\n", m.voices.view(snap.Voice, m.focus == focusVoice, snap.Controls.VoiceEnabled))

	barWidth := min(sliderWidth, max(5, m.width-labelStyle.GetWidth()-6))
	fmt.Fprintf(&b, "%s%s\n", m.label("Rate", focusRate), slider(snap.Rate, tts.MinRate, tts.MaxRate, barWidth))
	fmt.Fprintf(&b, "%s%s\n\n", m.label("Pitch", focusPitch), slider(snap.Pitch, tts.MinPitch, tts.MaxPitch, barWidth))

	fmt.Fprintf(&b, "%s\n\n", buttonsView(snap.Controls))
	fmt.Fprintf(&b, "%s\n", m.statusView(snap))
	b.WriteString(helpViewStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m model) headerView() string {
	s := logoStyle.Render("Narrate")
	if m.cfg.Title != "" {
		s += titleStyle.Render(truncate.StringWithTail(m.cfg.Title, uint(max(0, m.width-12)), ellipsis)) //nolint:gosec
	}
	return s
}

func (m model) label(name string, area focusArea) string {
	if m.focus == area {
		return focusedLabelStyle.Render(name)
	}
	return labelStyle.Render(name)
}

func counterView(text string) string {
	n := utf8.RuneCountInString(text)
	unit := "characters"
	if n == 1 {
		unit = "character"
	}
	return faintStyle.Render(humanize.Comma(int64(n)) + " " + unit)
}

// statusView renders the status line: the message coloured by level on the
// left, the playback state on the right.
func (m model) statusView(snap tts.Snapshot) string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	state := snap.State.String()
	if snap.State == tts.StateSpeaking {
		state = m.spinner.View() + " " + state
	}
	state = " " + state + " "

	room := max(0, width-ansi.PrintableRuneWidth(state))
	note := truncate.StringWithTail(" "+snap.Status.Message+" ", uint(room), ellipsis) //nolint:gosec
	padding := strings.Repeat(" ", max(0, room-ansi.PrintableRuneWidth(note)))

	style := statusStyle(snap.Status.Level)
	return style.Render(note+padding) + statusBarStyle.Render(state)
}
