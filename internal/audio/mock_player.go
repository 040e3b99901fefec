package audio

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnPlay   func(pcm []byte)
	OnPause  func()
	OnResume func()
	OnStop   func()
}

// MockPlayerMetrics counts player calls.
type MockPlayerMetrics struct {
	PlayCount   int
	PauseCount  int
	ResumeCount int
	StopCount   int
}

// MockPlayer simulates playback without producing sound. Playback lasts
// as long as the PCM would on a real device, divided by the speed factor.
type MockPlayer struct {
	config    Config
	callbacks MockCallbacks

	mu        sync.Mutex
	state     PlayerState
	speed     float64
	volume    float64
	playErr   error
	remaining time.Duration
	startedAt time.Time
	timer     *time.Timer
	gen       int
	done      chan struct{}
	played    [][]byte
	metrics   MockPlayerMetrics
}

// NewMockPlayer creates a mock player for PCM in the given format.
func NewMockPlayer(config Config, callbacks MockCallbacks) *MockPlayer {
	if config.SampleRate == 0 {
		config = DefaultConfig()
	}
	return &MockPlayer{
		config:    config,
		callbacks: callbacks,
		speed:     1,
		volume:    1,
	}
}

// DefaultMockPlayer creates a mock player with DefaultConfig.
func DefaultMockPlayer() *MockPlayer {
	return NewMockPlayer(DefaultConfig(), MockCallbacks{})
}

// Play starts simulated playback of pcm.
func (mp *MockPlayer) Play(pcm []byte) error {
	mp.mu.Lock()

	if mp.state == StateClosed {
		mp.mu.Unlock()
		return ErrClosed
	}
	if len(pcm) == 0 {
		mp.mu.Unlock()
		return ErrEmptyAudio
	}
	mp.stopLocked()
	if mp.playErr != nil {
		err := mp.playErr
		mp.mu.Unlock()
		return err
	}

	mp.played = append(mp.played, append([]byte(nil), pcm...))
	mp.remaining = time.Duration(float64(mp.config.Duration(len(pcm))) / mp.speed)
	mp.done = make(chan struct{})
	mp.state = StatePlaying
	mp.metrics.PlayCount++
	mp.startLocked()
	cb := mp.callbacks.OnPlay
	mp.mu.Unlock()

	if cb != nil {
		cb(pcm)
	}
	return nil
}

func (mp *MockPlayer) startLocked() {
	mp.gen++
	gen := mp.gen
	mp.startedAt = time.Now()
	mp.timer = time.AfterFunc(mp.remaining, func() { mp.finish(gen) })
}

func (mp *MockPlayer) finish(gen int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if gen != mp.gen || mp.state != StatePlaying {
		return
	}
	mp.endLocked()
}

// Pause pauses simulated playback.
func (mp *MockPlayer) Pause() error {
	mp.mu.Lock()
	if mp.state != StatePlaying {
		state := mp.state
		mp.mu.Unlock()
		return fmt.Errorf("cannot pause: %w (%s)", ErrNotPlaying, state)
	}
	mp.timer.Stop()
	mp.gen++
	mp.remaining -= time.Since(mp.startedAt)
	if mp.remaining < 0 {
		mp.remaining = 0
	}
	mp.state = StatePaused
	mp.metrics.PauseCount++
	cb := mp.callbacks.OnPause
	mp.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// Resume continues simulated playback where it paused.
func (mp *MockPlayer) Resume() error {
	mp.mu.Lock()
	if mp.state != StatePaused {
		state := mp.state
		mp.mu.Unlock()
		return fmt.Errorf("cannot resume: %w (%s)", ErrNotPaused, state)
	}
	mp.state = StatePlaying
	mp.metrics.ResumeCount++
	mp.startLocked()
	cb := mp.callbacks.OnResume
	mp.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// Stop ends simulated playback.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	stopped := mp.stopLocked()
	cb := mp.callbacks.OnStop
	mp.mu.Unlock()

	if stopped && cb != nil {
		cb()
	}
	return nil
}

func (mp *MockPlayer) stopLocked() bool {
	if mp.state != StatePlaying && mp.state != StatePaused {
		return false
	}
	mp.metrics.StopCount++
	mp.endLocked()
	return true
}

func (mp *MockPlayer) endLocked() {
	if mp.timer != nil {
		mp.timer.Stop()
		mp.timer = nil
	}
	mp.gen++
	mp.remaining = 0
	close(mp.done)
	mp.done = nil
	mp.state = StateStopped
}

// Wait blocks until simulated playback finishes or is stopped.
func (mp *MockPlayer) Wait(ctx context.Context) error {
	mp.mu.Lock()
	done := mp.done
	mp.mu.Unlock()

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

// SetVolume records the volume.
func (mp *MockPlayer) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.volume = volume
	return nil
}

// Volume returns the recorded volume.
func (mp *MockPlayer) Volume() float64 {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.volume
}

// State returns the current player state.
func (mp *MockPlayer) State() PlayerState {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.state
}

// Close stops playback and rejects further calls to Play.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.stopLocked()
	mp.state = StateClosed
	return nil
}

// Test control methods

// SetSpeed makes simulated playback run factor times faster than real
// time.
func (mp *MockPlayer) SetSpeed(factor float64) {
	if factor <= 0 {
		return
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.speed = factor
}

// SetPlayError makes Play fail with err. A nil err restores normal
// operation.
func (mp *MockPlayer) SetPlayError(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playErr = err
}

// Played returns a copy of every buffer passed to Play.
func (mp *MockPlayer) Played() [][]byte {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return append([][]byte(nil), mp.played...)
}

// Metrics returns the call counters.
func (mp *MockPlayer) Metrics() MockPlayerMetrics {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.metrics
}
