package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player errors.
var (
	ErrClosed     = errors.New("player is closed")
	ErrEmptyAudio = errors.New("audio data is empty")
	ErrNotPlaying = errors.New("player is not playing")
	ErrNotPaused  = errors.New("player is not paused")
)

// pollInterval is how often playback is checked for completion.
const pollInterval = 20 * time.Millisecond

// PlayerState represents the current state of a player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StatePaused
	StateClosed
)

func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config describes the PCM the player accepts. Samples are always
// signed 16-bit little-endian.
type Config struct {
	SampleRate int
	Channels   int
	BufferSize time.Duration
}

// DefaultConfig returns 22.05kHz mono with a 100ms device buffer.
func DefaultConfig() Config {
	return Config{
		SampleRate: 22050,
		Channels:   1,
		BufferSize: 100 * time.Millisecond,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SampleRate < 8000 || c.SampleRate > 48000 {
		return fmt.Errorf("sample rate must be between 8000 and 48000 Hz, got %d", c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", c.Channels)
	}
	if c.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}
	return nil
}

// Duration returns how long n bytes of PCM play for.
func (c Config) Duration(n int) time.Duration {
	bps := c.SampleRate * c.Channels * 2
	if bps <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bps)
}

// Player plays PCM on the system audio device. Only one oto context may
// exist per process, so a program creates a single Player.
type Player struct {
	context *oto.Context
	config  Config

	stateMu sync.Mutex
	state   PlayerState
	player  *oto.Player
	data    []byte // kept alive while oto reads from it
	done    chan struct{}

	volume atomic.Uint64 // math.Float64bits
}

// NewPlayer opens the audio device.
func NewPlayer(config Config) (*Player, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   config.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	p := &Player{context: ctx, config: config}
	p.volume.Store(math.Float64bits(1))
	return p, nil
}

// Play starts playing pcm, replacing anything already playing.
func (p *Player) Play(pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if p.state == StateClosed {
		return ErrClosed
	}
	p.stopLocked()

	data := make([]byte, len(pcm))
	copy(data, pcm)

	player := p.context.NewPlayer(bytes.NewReader(data))
	player.SetVolume(p.Volume())
	player.Play()

	done := make(chan struct{})
	p.player = player
	p.data = data
	p.done = done
	p.state = StatePlaying

	go p.monitor(player, done)
	return nil
}

// monitor marks playback finished once oto has drained the reader.
func (p *Player) monitor(player *oto.Player, done chan struct{}) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		p.stateMu.Lock()
		if p.player != player {
			p.stateMu.Unlock()
			return
		}
		if p.state == StatePlaying && !player.IsPlaying() {
			p.stopLocked()
			p.stateMu.Unlock()
			return
		}
		p.stateMu.Unlock()
	}
}

// Pause pauses playback.
func (p *Player) Pause() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if p.state != StatePlaying {
		return fmt.Errorf("cannot pause: %w (%s)", ErrNotPlaying, p.state)
	}
	p.player.Pause()
	p.state = StatePaused
	return nil
}

// Resume resumes paused playback.
func (p *Player) Resume() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if p.state != StatePaused {
		return fmt.Errorf("cannot resume: %w (%s)", ErrNotPaused, p.state)
	}
	p.player.Play()
	p.state = StatePlaying
	return nil
}

// Stop stops playback. Stopping a stopped player is a no-op.
func (p *Player) Stop() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.stopLocked()
	return nil
}

func (p *Player) stopLocked() {
	if p.state != StatePlaying && p.state != StatePaused {
		return
	}
	if p.player != nil {
		p.player.Pause()
		p.player = nil
	}
	p.data = nil
	close(p.done)
	p.done = nil
	p.state = StateStopped
}

// Wait blocks until the current playback finishes or is stopped. It
// returns immediately when nothing is playing.
func (p *Player) Wait(ctx context.Context) error {
	p.stateMu.Lock()
	done := p.done
	p.stateMu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 || math.IsNaN(volume) {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.volume.Store(math.Float64bits(volume))

	p.stateMu.Lock()
	if p.player != nil {
		p.player.SetVolume(volume)
	}
	p.stateMu.Unlock()
	return nil
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	return math.Float64frombits(p.volume.Load())
}

// State returns the current player state.
func (p *Player) State() PlayerState {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.state
}

// Close stops playback and releases the player. The oto context itself
// lives until the process exits.
func (p *Player) Close() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	p.stopLocked()
	p.state = StateClosed
	return nil
}
