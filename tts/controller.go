// Package tts provides the playback controller that drives a speech
// synthesis capability and reflects its state for the UI.
package tts

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrUnknownVoice is returned when selecting a voice that is not offered.
var ErrUnknownVoice = errors.New("voice not found")

// ControllerConfig holds the initial selections of a Controller.
type ControllerConfig struct {
	Locale string  // User locale used to pick a default voice
	Voice  string  // Preferred voice ID; kept across voice reloads while offered
	Rate   float64 // Zero means DefaultRate
	Pitch  float64 // Zero means DefaultPitch
}

// Snapshot is a consistent view of the controller for rendering.
type Snapshot struct {
	State    PlaybackState
	Status   Status
	Controls Controls
	Text     string
	Voice    string // Selected voice ID, empty when none
	Voices   []Voice
	Rate     float64
	Pitch    float64
	Err      error // Last reported error, cleared by the next successful action
}

// Controller owns the playback state machine. It issues requests to a
// Synthesizer in response to user actions and reconciles its state with the
// Synthesizer's notifications.
//
// All methods are safe for concurrent use. The controller never blocks on
// the Synthesizer's background work, so notifications may be fed to
// HandleEvent from any goroutine.
type Controller struct {
	synth   Synthesizer
	machine *stateMachine
	logger  *log.Logger

	mu sync.Mutex

	// Selections
	text        string
	voiceID     string
	voicePicked bool // voiceID came from the user, not from locale matching
	voicesSeen  bool // a voice list has been loaded
	rate        float64
	pitch       float64
	locale      string
	voices      []Voice

	// Session
	live    *SpeechRequest
	status  Status
	lastErr error

	dirty    bool
	onChange func(Snapshot)
}

// NewController creates a controller in the Idle state.
func NewController(synth Synthesizer, cfg ControllerConfig) *Controller {
	if cfg.Rate == 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Pitch == 0 {
		cfg.Pitch = DefaultPitch
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}

	c := &Controller{
		synth:       synth,
		machine:     newStateMachine(),
		logger:      log.WithPrefix("controller"),
		voiceID:     cfg.Voice,
		voicePicked: cfg.Voice != "",
		rate:        ClampRate(cfg.Rate),
		pitch:       ClampPitch(cfg.Pitch),
		locale:      cfg.Locale,
		status:      Status{Message: MsgReady, Level: LevelInfo},
	}

	// Entering Idle always ends the session.
	c.machine.setOnEnter(StateIdle, func(from PlaybackState) {
		c.logger.Debug("session ended", "from", from)
		c.live = nil
	})

	return c
}

// OnChange registers a callback invoked after every visible change. The
// callback runs without the controller lock held.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetText sets the text spoken by the next Play.
func (c *Controller) SetText(text string) {
	_ = c.update(func() error {
		if c.text != text {
			c.text = text
			c.dirty = true
		}
		return nil
	})
}

// SelectVoice selects the voice used by the next Play. An empty ID clears
// the selection so the engine default is used.
func (c *Controller) SelectVoice(id string) error {
	return c.update(func() error {
		if id != "" && len(c.voices) > 0 {
			if _, ok := FindVoice(c.voices, id); !ok {
				return userInputError("select voice", ErrUnknownVoice)
			}
		}
		c.voiceID = id
		c.voicePicked = id != ""
		c.dirty = true
		return nil
	})
}

// Play speaks the current text with the current selections. Any request in
// flight is cancelled first.
func (c *Controller) Play() error {
	return c.update(c.playLocked)
}

// TogglePlay implements the play/stop button: it stops while speaking,
// resumes while paused and plays while idle.
func (c *Controller) TogglePlay() error {
	return c.update(func() error {
		switch c.machine.state() {
		case StateSpeaking:
			return c.stopLocked()
		case StatePaused:
			return c.resumeLocked()
		default:
			return c.playLocked()
		}
	})
}

// TogglePause pauses while speaking and resumes while paused. It does
// nothing while idle.
func (c *Controller) TogglePause() error {
	return c.update(func() error {
		switch c.machine.state() {
		case StateSpeaking:
			return c.pauseLocked()
		case StatePaused:
			return c.resumeLocked()
		default:
			return nil
		}
	})
}

// Stop cancels the request in flight and returns to Idle. Stopping while
// idle does nothing.
func (c *Controller) Stop() error {
	return c.update(c.stopLocked)
}

// UpdateRate changes the speech rate. A live request picks it up without
// being resubmitted.
func (c *Controller) UpdateRate(rate float64) {
	_ = c.update(func() error {
		c.rate = ClampRate(rate)
		if c.live != nil {
			c.live.SetRate(c.rate)
		}
		c.dirty = true
		return nil
	})
}

// UpdatePitch changes the pitch. A live request picks it up without being
// resubmitted.
func (c *Controller) UpdatePitch(pitch float64) {
	_ = c.update(func() error {
		c.pitch = ClampPitch(pitch)
		if c.live != nil {
			c.live.SetPitch(c.pitch)
		}
		c.dirty = true
		return nil
	})
}

// LoadVoices fetches the voice list and selects the first voice matching
// the locale, or none. Only the first successful load keeps a voice chosen
// beforehand, such as the configured one, when the list offers it.
func (c *Controller) LoadVoices(ctx context.Context) error {
	if c.synth == nil {
		return capabilityError("voices", ErrUnavailable)
	}
	voices, err := c.synth.Voices(ctx)

	return c.update(func() error {
		if err != nil {
			c.logger.Warn("unable to load voices", "error", err)
			if c.machine.state() == StateIdle {
				c.setStatus(MsgVoicesFailed, LevelError)
			}
			c.lastErr = capabilityError("voices", err)
			c.dirty = true
			return c.lastErr
		}

		c.voices = voices
		c.dirty = true
		first := !c.voicesSeen
		c.voicesSeen = true
		if first && c.voicePicked {
			if _, ok := FindVoice(voices, c.voiceID); ok {
				return nil
			}
			c.logger.Debug("chosen voice not offered", "voice", c.voiceID)
		}

		c.voiceID = ""
		c.voicePicked = false
		if v, ok := SelectDefaultVoice(c.locale, voices); ok {
			c.voiceID = v.ID
		}
		c.logger.Debug("voices loaded", "count", len(voices), "default", c.voiceID, "locale", c.locale)
		return nil
	})
}

// HandleEvent dispatches a Synthesizer notification.
func (c *Controller) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventStart:
		c.OnCapabilityStart(ev.RequestID)
	case EventEnd:
		c.OnCapabilityEnd(ev.RequestID)
	case EventPause:
		c.OnCapabilityPause(ev.RequestID)
	case EventResume:
		c.OnCapabilityResume(ev.RequestID)
	case EventError:
		c.OnCapabilityError(ev.RequestID, ev.Err)
	case EventVoicesChanged:
		_ = c.OnVoicesChanged(ctx)
	default:
		c.logger.Warn("unknown event", "kind", ev.Kind)
	}
}

// Listen feeds events to HandleEvent until the channel closes or ctx is
// done.
func (c *Controller) Listen(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleEvent(ctx, ev)
		}
	}
}

// OnCapabilityStart handles the capability's start notification.
func (c *Controller) OnCapabilityStart(id string) {
	_ = c.update(func() error {
		if !c.isLive(id, EventStart) {
			return nil
		}
		if c.machine.state() == StateSpeaking {
			c.setStatus(MsgSpeaking, LevelSuccess)
		}
		return nil
	})
}

// OnCapabilityEnd handles natural completion. Completion reported while
// paused is ignored.
func (c *Controller) OnCapabilityEnd(id string) {
	_ = c.update(func() error {
		if !c.isLive(id, EventEnd) {
			return nil
		}
		if c.machine.state() == StatePaused {
			c.logger.Debug("end ignored while paused", "request", id)
			return nil
		}
		c.setState(StateIdle)
		c.setStatus(MsgCompleted, LevelInfo)
		return nil
	})
}

// OnCapabilityPause reconciles with a pause reported by the capability.
func (c *Controller) OnCapabilityPause(id string) {
	_ = c.update(func() error {
		if !c.isLive(id, EventPause) {
			return nil
		}
		c.setState(StatePaused)
		c.setStatus(MsgPaused, LevelWarning)
		return nil
	})
}

// OnCapabilityResume reconciles with a resume reported by the capability.
func (c *Controller) OnCapabilityResume(id string) {
	_ = c.update(func() error {
		if !c.isLive(id, EventResume) {
			return nil
		}
		c.setState(StateSpeaking)
		c.setStatus(MsgSpeaking, LevelSuccess)
		return nil
	})
}

// OnCapabilityError reports a failure of the live request and returns to
// Idle. Nothing is retried.
func (c *Controller) OnCapabilityError(id string, err error) {
	_ = c.update(func() error {
		if !c.isLive(id, EventError) {
			return nil
		}
		c.logger.Error("speech failed", "request", id, "error", err)
		c.lastErr = capabilityError("speak", err)
		c.setState(StateIdle)
		c.setStatus(MsgSpeakFailed, LevelError)
		return nil
	})
}

// OnVoicesChanged reloads the voice list.
func (c *Controller) OnVoicesChanged(ctx context.Context) error {
	return c.LoadVoices(ctx)
}

// State returns the playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.state()
}

// Status returns the current status message.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Controls returns the control flags for the current state.
func (c *Controller) Controls() Controls {
	return ControlsFor(c.State())
}

// Snapshot returns a consistent view of the controller.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// LiveRequest returns the request being spoken, or nil.
func (c *Controller) LiveRequest() *SpeechRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *Controller) playLocked() error {
	text := strings.TrimSpace(c.text)
	if text == "" {
		c.setStatus(MsgEmptyText, LevelError)
		c.lastErr = userInputError("play", ErrEmptyText)
		c.dirty = true
		return c.lastErr
	}
	if c.synth == nil || !c.synth.Available() {
		c.setStatus(MsgUnavailable, LevelError)
		c.lastErr = capabilityError("play", ErrUnavailable)
		c.dirty = true
		return c.lastErr
	}

	// The capability speaks one request at a time.
	if c.live != nil {
		if err := c.synth.Cancel(); err != nil {
			c.logger.Warn("unable to cancel previous request", "error", err)
		}
		c.setState(StateIdle)
	}

	req := NewSpeechRequest(text, c.requestVoice(), c.rate, c.pitch)
	if err := c.synth.Speak(req); err != nil {
		c.logger.Error("speak failed", "error", err)
		c.setStatus(MsgSpeakFailed, LevelError)
		c.lastErr = capabilityError("speak", err)
		c.dirty = true
		return c.lastErr
	}

	c.live = req
	c.lastErr = nil
	c.setState(StateSpeaking)
	c.setStatus(MsgSpeaking, LevelSuccess)
	c.logger.Debug("speaking", "request", req.ID, "voice", req.Voice, "rate", req.Rate(), "pitch", req.Pitch(), "chars", len(text))
	return nil
}

// requestVoice returns the voice ID to submit. Without a voice list the
// configured ID is passed through untouched.
func (c *Controller) requestVoice() string {
	if len(c.voices) == 0 {
		return c.voiceID
	}
	if v, ok := FindVoice(c.voices, c.voiceID); ok {
		return v.ID
	}
	return ""
}

func (c *Controller) pauseLocked() error {
	if err := c.synth.Pause(); err != nil {
		return c.failLocked("pause", MsgPauseFailed, err)
	}
	c.lastErr = nil
	c.setState(StatePaused)
	c.setStatus(MsgPaused, LevelWarning)
	return nil
}

func (c *Controller) resumeLocked() error {
	if err := c.synth.Resume(); err != nil {
		return c.failLocked("resume", MsgResumeFailed, err)
	}
	c.lastErr = nil
	c.setState(StateSpeaking)
	c.setStatus(MsgSpeaking, LevelSuccess)
	return nil
}

func (c *Controller) stopLocked() error {
	if c.live == nil && c.machine.state() == StateIdle {
		return nil
	}

	var err error
	if cerr := c.synth.Cancel(); cerr != nil {
		c.logger.Warn("cancel failed", "error", cerr)
		err = capabilityError("stop", cerr)
	}
	c.lastErr = err
	c.setState(StateIdle)
	c.setStatus(MsgCompleted, LevelInfo)
	return err
}

// failLocked abandons the session after a capability failure.
func (c *Controller) failLocked(op, msg string, err error) error {
	c.logger.Error(op+" failed", "error", err)
	if cerr := c.synth.Cancel(); cerr != nil {
		c.logger.Warn("cancel failed", "error", cerr)
	}
	c.lastErr = capabilityError(op, err)
	c.setState(StateIdle)
	c.setStatus(msg, LevelError)
	return c.lastErr
}

// isLive reports whether a notification belongs to the live request.
func (c *Controller) isLive(id string, kind EventKind) bool {
	if c.live == nil || c.live.ID != id {
		c.logger.Debug("stale notification ignored", "event", kind, "request", id)
		return false
	}
	return true
}

func (c *Controller) setState(to PlaybackState) {
	from := c.machine.state()
	if !c.machine.transition(to) {
		c.logger.Warn("invalid transition", "from", from, "to", to)
		return
	}
	if from != to {
		c.dirty = true
	}
}

func (c *Controller) setStatus(msg string, level Level) {
	s := Status{Message: msg, Level: level}
	if c.status == s {
		return
	}
	c.status = s
	c.dirty = true
}

func (c *Controller) snapshotLocked() Snapshot {
	state := c.machine.state()
	voices := make([]Voice, len(c.voices))
	copy(voices, c.voices)
	return Snapshot{
		State:    state,
		Status:   c.status,
		Controls: ControlsFor(state),
		Text:     c.text,
		Voice:    c.voiceID,
		Voices:   voices,
		Rate:     c.rate,
		Pitch:    c.pitch,
		Err:      c.lastErr,
	}
}

// update runs fn under the lock and notifies the change callback after
// releasing it.
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	err := fn()
	notify := c.onChange
	var snap Snapshot
	changed := c.dirty
	if changed && notify != nil {
		snap = c.snapshotLocked()
	}
	c.dirty = false
	c.mu.Unlock()

	if changed && notify != nil {
		notify(snap)
	}
	return err
}
