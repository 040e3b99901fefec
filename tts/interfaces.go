package tts

import "context"

// Synthesizer is the speech capability the controller drives. It speaks one
// request at a time and reports progress asynchronously on Events.
//
// Implementations must not call back into the controller; all
// notifications travel through the Events channel so that the controller
// can process them on its own schedule. Speak, Pause, Resume and Cancel
// are called with the controller's lock held and must not block, in
// particular not on a full Events channel.
type Synthesizer interface {
	// Available reports whether speech can be produced on this host.
	Available() bool

	// Voices returns the voices the capability offers.
	Voices(ctx context.Context) ([]Voice, error)

	// Speak starts speaking the request. Rate and pitch are read from the
	// request while it is spoken so that live updates take effect.
	Speak(req *SpeechRequest) error

	// Pause pauses the request in flight.
	Pause() error

	// Resume continues a paused request.
	Resume() error

	// Cancel abandons the request in flight, if any. It must not wait for
	// the request's background work to finish.
	Cancel() error

	// Events delivers lifecycle notifications.
	Events() <-chan Event
}

// EventKind identifies a capability notification.
type EventKind int

const (
	// EventStart indicates the request started producing audio.
	EventStart EventKind = iota
	// EventEnd indicates the request finished naturally.
	EventEnd
	// EventPause indicates the capability paused.
	EventPause
	// EventResume indicates the capability resumed.
	EventResume
	// EventError indicates the request failed.
	EventError
	// EventVoicesChanged indicates the voice list should be fetched again.
	EventVoicesChanged
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventError:
		return "error"
	case EventVoicesChanged:
		return "voiceschanged"
	default:
		return "unknown"
	}
}

// Event is a notification from a Synthesizer.
type Event struct {
	Kind      EventKind
	RequestID string // Request the event belongs to; empty for EventVoicesChanged
	Err       error  // Set for EventError
}
