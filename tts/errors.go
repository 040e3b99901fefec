package tts

import "errors"

var (
	// ErrEmptyText is returned when play is requested without text.
	ErrEmptyText = errors.New("no text to speak")
	// ErrUnavailable is returned when the synthesis capability is missing.
	ErrUnavailable = errors.New("speech synthesis is not available")
	// ErrNotSpeaking is returned by a Synthesizer asked to pause or resume
	// with nothing in flight.
	ErrNotSpeaking = errors.New("nothing is being spoken")
	// ErrSpeechFailed is reported when the capability fails mid-speech
	// without further detail.
	ErrSpeechFailed = errors.New("speech synthesis failed")
)

// ErrorKind classifies errors surfaced to the user.
type ErrorKind int

const (
	// KindUserInput covers problems with what the user asked for.
	KindUserInput ErrorKind = iota
	// KindCapability covers failures of the synthesis capability.
	KindCapability
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindUserInput:
		return "user input"
	case KindCapability:
		return "capability"
	default:
		return "unknown"
	}
}

// Error is a non-fatal error reported by the controller.
type Error struct {
	Kind ErrorKind
	Op   string // Operation being performed (play, pause, speak...)
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": unknown error"
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func userInputError(op string, err error) *Error {
	return &Error{Kind: KindUserInput, Op: op, Err: err}
}

func capabilityError(op string, err error) *Error {
	if err == nil {
		err = ErrSpeechFailed
	}
	return &Error{Kind: KindCapability, Op: op, Err: err}
}

// IsUserInputError reports whether err is a user input error.
func IsUserInputError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUserInput
}

// IsCapabilityError reports whether err is a capability error.
func IsCapabilityError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindCapability
}
