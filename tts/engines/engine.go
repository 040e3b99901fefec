// Package engines provides text-to-speech engine implementations. Every
// engine renders text to signed 16-bit little-endian PCM.
package engines

import (
	"context"
	"errors"
	"time"

	"github.com/dgnsrekt/narrate/tts"
)

var (
	// ErrEmptyText is returned when asked to render nothing.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrBinaryNotFound is returned when an engine's program is missing.
	ErrBinaryNotFound = errors.New("engine binary not found")
	// ErrNoVoice is returned when an engine has no voice to render with.
	ErrNoVoice = errors.New("no voice available")
	// ErrUnknownEngine is returned by New for unsupported engine names.
	ErrUnknownEngine = errors.New("unknown engine")
)

// Format describes the PCM an engine produces.
type Format struct {
	SampleRate int
	Channels   int
}

// BytesPerSecond returns the byte rate of 16-bit PCM in this format.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * 2
}

// Duration returns how long n bytes of PCM play.
func (f Format) Duration(n int) time.Duration {
	bps := f.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(bps))
}

// Params are the inputs of one synthesis.
type Params struct {
	Text  string
	Voice string  // Empty means the engine default
	Rate  float64 // Multiplier, 1 is normal speed
	Pitch float64 // 0 to 2, 1 is normal pitch
}

// Engine renders text to PCM audio.
type Engine interface {
	// Name returns the engine name used in configuration.
	Name() string

	// Format returns the PCM format Synthesize produces.
	Format() Format

	// Available reports whether the engine can run on this host.
	Available() bool

	// Voices lists the voices the engine offers.
	Voices(ctx context.Context) ([]tts.Voice, error)

	// Synthesize renders the text to PCM in Format.
	Synthesize(ctx context.Context, p Params) ([]byte, error)

	// Close releases resources held by the engine.
	Close() error
}

// VoiceSource is implemented by engines whose voices are files on disk.
type VoiceSource interface {
	VoiceDirs() []string
}

// synthesisTimeout bounds a single engine invocation.
const synthesisTimeout = 60 * time.Second
