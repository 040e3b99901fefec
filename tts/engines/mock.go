package engines

import (
	"context"
	"strings"
	"sync"

	"github.com/dgnsrekt/narrate/tts"
	"github.com/dgnsrekt/narrate/tts/sentence"
)

// Mock renders silence lasting as long as the text would take to speak.
// It is used for tests and for running without audio hardware.
type Mock struct {
	format Format
	wpm    int

	mu        sync.Mutex
	available bool
	failure   error
	calls     []Params
}

// NewMock creates a mock engine.
func NewMock(wpm, sampleRate int) *Mock {
	if wpm <= 0 {
		wpm = sentence.WordsPerMinute
	}
	if sampleRate <= 0 {
		sampleRate = 22050
	}
	return &Mock{
		format:    Format{SampleRate: sampleRate, Channels: 1},
		wpm:       wpm,
		available: true,
	}
}

// Name returns "mock".
func (e *Mock) Name() string { return tts.EngineMock }

// Format returns the output format.
func (e *Mock) Format() Format { return e.format }

// Available returns the configured availability.
func (e *Mock) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Voices returns a fixed catalogue.
func (e *Mock) Voices(context.Context) ([]tts.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failure != nil {
		return nil, e.failure
	}
	return []tts.Voice{
		{ID: "mock-us", Name: "Mock US", Language: "en-US"},
		{ID: "mock-gb", Name: "Mock GB", Language: "en-GB"},
		{ID: "mock-fr", Name: "Mock FR", Language: "fr-FR"},
	}, nil
}

// Synthesize returns silence of the estimated duration.
func (e *Mock) Synthesize(ctx context.Context, p Params) ([]byte, error) {
	e.mu.Lock()
	e.calls = append(e.calls, p)
	failure := e.failure
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, ErrEmptyText
	}

	scale := float64(sentence.WordsPerMinute) / float64(e.wpm)
	d := sentence.EstimateDuration(p.Text, p.Rate/scale)
	n := int(d.Seconds()*float64(e.format.SampleRate)) * e.format.Channels * 2
	return make([]byte, n), nil
}

// Close marks the engine unavailable.
func (e *Mock) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = false
	return nil
}

// Test control methods

// SetAvailable sets the reported availability.
func (e *Mock) SetAvailable(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = v
}

// SetFailure makes every call fail with err. A nil err restores normal
// operation.
func (e *Mock) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failure = err
}

// Calls returns the parameters of every Synthesize call.
func (e *Mock) Calls() []Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Params(nil), e.calls...)
}
