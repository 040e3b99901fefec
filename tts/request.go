package tts

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// Bounds for rate and pitch. They follow the ranges browsers accept for
// speech utterances; engines map them onto their own units.
const (
	MinRate     = 0.1
	MaxRate     = 10.0
	DefaultRate = 1.0

	MinPitch     = 0.0
	MaxPitch     = 2.0
	DefaultPitch = 1.0
)

// SpeechRequest bundles the text and voice parameters submitted to a
// Synthesizer. Text, voice and ID never change after creation; rate and
// pitch may be adjusted while the request is being spoken.
type SpeechRequest struct {
	ID    string
	Text  string
	Voice string // empty means the engine default

	mu    sync.RWMutex
	rate  float64
	pitch float64
}

// NewSpeechRequest creates a request with a fresh identity. Rate and pitch
// are clamped to their bounds.
func NewSpeechRequest(text, voice string, rate, pitch float64) *SpeechRequest {
	return &SpeechRequest{
		ID:    uuid.NewString(),
		Text:  text,
		Voice: voice,
		rate:  ClampRate(rate),
		pitch: ClampPitch(pitch),
	}
}

// Rate returns the current speech rate multiplier.
func (r *SpeechRequest) Rate() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rate
}

// SetRate updates the rate of a request, including one in flight.
func (r *SpeechRequest) SetRate(rate float64) {
	r.mu.Lock()
	r.rate = ClampRate(rate)
	r.mu.Unlock()
}

// Pitch returns the current pitch.
func (r *SpeechRequest) Pitch() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pitch
}

// SetPitch updates the pitch of a request, including one in flight.
func (r *SpeechRequest) SetPitch(pitch float64) {
	r.mu.Lock()
	r.pitch = ClampPitch(pitch)
	r.mu.Unlock()
}

// ClampRate limits a rate to [MinRate, MaxRate]. NaN maps to DefaultRate.
func ClampRate(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultRate
	}
	return math.Min(MaxRate, math.Max(MinRate, v))
}

// ClampPitch limits a pitch to [MinPitch, MaxPitch]. NaN maps to DefaultPitch.
func ClampPitch(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultPitch
	}
	return math.Min(MaxPitch, math.Max(MinPitch, v))
}
