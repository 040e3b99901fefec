// Package synth implements tts.Synthesizer on top of a text-to-PCM engine
// and an audio player. Text is split into sentences which are rendered one
// ahead of playback, so rate and pitch changes on the live request are
// heard from the next rendered sentence on.
package synth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/narrate/internal/audio"
	"github.com/dgnsrekt/narrate/internal/cache"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/dgnsrekt/narrate/tts/engines"
	"github.com/dgnsrekt/narrate/tts/sentence"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Speak after Close.
var ErrClosed = errors.New("synthesizer is closed")

const defaultEventBuffer = 64

// Player plays PCM in the engine's output format.
type Player interface {
	Play(pcm []byte) error
	Pause() error
	Resume() error
	Stop() error
	Wait(ctx context.Context) error
	SetVolume(volume float64) error
	Close() error
}

// Cache stores rendered sentences.
type Cache interface {
	GetOrRender(key string, render func() ([]byte, error)) ([]byte, error)
}

// Options configures a Synthesizer.
type Options struct {
	Cache       Cache   // nil disables caching
	Volume      float64 // 0 keeps the player's volume
	WatchVoices bool    // emit VoicesChanged when engine voice files change
	EventBuffer int
}

// Synthesizer speaks requests through an engine and a player. It speaks
// one request at a time; a new Speak cancels the one in flight.
type Synthesizer struct {
	engine engines.Engine
	player Player
	cache  Cache
	parser *sentence.Parser
	logger *log.Logger

	events  chan tts.Event
	closing chan struct{}
	watcher *Watcher

	mu      sync.Mutex
	current *job
	closed  bool
}

// job is one request being spoken.
type job struct {
	req    *tts.SpeechRequest
	ctx    context.Context
	cancel context.CancelFunc

	// guarded by Synthesizer.mu
	paused  bool
	resumed chan struct{}
}

// New creates a synthesizer.
func New(engine engines.Engine, player Player, opts Options) (*Synthesizer, error) {
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}
	if opts.Volume > 0 {
		if err := player.SetVolume(opts.Volume); err != nil {
			return nil, err
		}
	}

	s := &Synthesizer{
		engine:  engine,
		player:  player,
		cache:   opts.Cache,
		parser:  sentence.NewParser(),
		logger:  log.WithPrefix("synth"),
		events:  make(chan tts.Event, opts.EventBuffer),
		closing: make(chan struct{}),
	}

	if vs, ok := engine.(engines.VoiceSource); ok && opts.WatchVoices {
		w, err := NewWatcher(vs.VoiceDirs(), DefaultWatchInterval, func() {
			s.emit(tts.Event{Kind: tts.EventVoicesChanged})
		})
		if err != nil {
			s.logger.Warn("voice directory watcher disabled", "error", err)
		} else {
			s.watcher = w
		}
	}
	return s, nil
}

// NewForConfig builds the engine, player and cache described by cfg.
// With mute set, playback is simulated instead of using the audio device.
func NewForConfig(cfg tts.Config, mute bool) (*Synthesizer, error) {
	engine, err := engines.New(cfg)
	if err != nil {
		return nil, err
	}

	format := engine.Format()
	pcfg := audio.DefaultConfig()
	pcfg.SampleRate = format.SampleRate
	pcfg.Channels = format.Channels

	var player Player
	if mute {
		player = audio.NewMockPlayer(pcfg, audio.MockCallbacks{})
	} else {
		p, err := audio.NewPlayer(pcfg)
		if err != nil {
			return nil, fmt.Errorf("unable to open audio device: %w", err)
		}
		player = p
	}

	opts := Options{Volume: cfg.Volume, WatchVoices: true}
	if cfg.Cache.Enabled {
		m, err := cache.NewManager(cache.DefaultConfig(cfg.Cache.Dir, cfg.Cache.MaxSize))
		if err != nil {
			log.Warn("audio cache disabled", "error", err)
		} else {
			opts.Cache = m
		}
	}
	return New(engine, player, opts)
}

// Available reports whether the engine can produce speech.
func (s *Synthesizer) Available() bool {
	return s.engine.Available()
}

// Voices returns the engine's voices.
func (s *Synthesizer) Voices(ctx context.Context) ([]tts.Voice, error) {
	return s.engine.Voices(ctx)
}

// Events delivers lifecycle notifications.
func (s *Synthesizer) Events() <-chan tts.Event {
	return s.events
}

// Engine returns the engine in use.
func (s *Synthesizer) Engine() engines.Engine {
	return s.engine
}

// Speak starts speaking req in the background, cancelling any request in
// flight.
func (s *Synthesizer) Speak(req *tts.SpeechRequest) error {
	if req == nil {
		return tts.ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.cancelLocked()

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{req: req, ctx: ctx, cancel: cancel}
	s.current = j

	s.logger.Debug("speak", "request", req.ID, "voice", req.Voice, "chars", len(req.Text))
	go s.run(j)
	return nil
}

// Pause pauses the request in flight. Audio already playing stops at
// once; the next sentence waits for Resume.
func (s *Synthesizer) Pause() error {
	s.mu.Lock()
	j := s.current
	if j == nil {
		s.mu.Unlock()
		return tts.ErrNotSpeaking
	}
	if j.paused {
		s.mu.Unlock()
		return nil
	}
	j.paused = true
	j.resumed = make(chan struct{})
	err := s.player.Pause()
	s.mu.Unlock()

	if err != nil && !errors.Is(err, audio.ErrNotPlaying) {
		return fmt.Errorf("pause: %w", err)
	}
	s.notify(tts.Event{Kind: tts.EventPause, RequestID: j.req.ID})
	return nil
}

// Resume continues a paused request. The Resume event is sent before the
// sentence loop is released, so it always precedes the request's End.
func (s *Synthesizer) Resume() error {
	s.mu.Lock()
	j := s.current
	if j == nil {
		s.mu.Unlock()
		return tts.ErrNotSpeaking
	}
	if !j.paused {
		s.mu.Unlock()
		return nil
	}
	j.paused = false
	resumed := j.resumed
	err := s.player.Resume()
	s.mu.Unlock()
	defer close(resumed)

	if err != nil && !errors.Is(err, audio.ErrNotPaused) {
		return fmt.Errorf("resume: %w", err)
	}
	s.notify(tts.Event{Kind: tts.EventResume, RequestID: j.req.ID})
	return nil
}

// Cancel abandons the request in flight without waiting for its
// goroutine. Events it might still produce are never delivered.
func (s *Synthesizer) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	return nil
}

func (s *Synthesizer) cancelLocked() {
	if s.current == nil {
		return
	}
	s.logger.Debug("cancel", "request", s.current.req.ID)
	s.current.cancel()
	s.current = nil
	if err := s.player.Stop(); err != nil {
		s.logger.Debug("stop player", "error", err)
	}
}

// Close cancels the request in flight and releases the player, watcher
// and engine. The events channel is left open.
func (s *Synthesizer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelLocked()
	close(s.closing)
	s.mu.Unlock()

	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	if c, ok := s.cache.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, s.player.Close(), s.engine.Close())
	return errors.Join(errs...)
}

// run renders sentences one ahead of playback until the text is spoken,
// rendering fails or the job is cancelled.
func (s *Synthesizer) run(j *job) {
	defer s.finish(j)

	sentences := s.parser.Split(j.req.Text)
	chunks := make(chan []byte)

	g, gctx := errgroup.WithContext(j.ctx)
	g.Go(func() error {
		defer close(chunks)
		for _, text := range sentences {
			pcm, err := s.render(gctx, j.req, text)
			if err != nil {
				return err
			}
			select {
			case chunks <- pcm:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		started := false
		for pcm := range chunks {
			if len(pcm) == 0 {
				continue
			}
			if err := s.play(gctx, j, pcm); err != nil {
				return err
			}
			if !started {
				started = true
				s.emitFor(j, tts.Event{Kind: tts.EventStart})
			}
			if err := s.player.Wait(gctx); err != nil {
				return err
			}
		}
		if !started {
			s.emitFor(j, tts.Event{Kind: tts.EventStart})
		}
		return nil
	})

	err := g.Wait()
	switch {
	case j.ctx.Err() != nil:
		s.logger.Debug("request cancelled", "request", j.req.ID)
	case err != nil:
		s.logger.Error("speech failed", "request", j.req.ID, "error", err)
		s.emitFor(j, tts.Event{Kind: tts.EventError, Err: err})
	default:
		s.complete(j)
	}
}

// complete reports the end of j. A request paused after its last sentence
// finished only ends once it is resumed.
func (s *Synthesizer) complete(j *job) {
	for {
		s.mu.Lock()
		paused, resumed := j.paused, j.resumed
		s.mu.Unlock()
		if resumed != nil {
			select {
			case <-resumed:
			case <-j.ctx.Done():
				return
			}
		}
		if !paused {
			break
		}
	}
	s.emitFor(j, tts.Event{Kind: tts.EventEnd})
}

func (s *Synthesizer) finish(j *job) {
	s.mu.Lock()
	if s.current == j {
		s.current = nil
	}
	s.mu.Unlock()
	j.cancel()
}

// render produces PCM for one sentence with the request's current rate
// and pitch.
func (s *Synthesizer) render(ctx context.Context, req *tts.SpeechRequest, text string) ([]byte, error) {
	p := engines.Params{
		Text:  text,
		Voice: req.Voice,
		Rate:  req.Rate(),
		Pitch: req.Pitch(),
	}
	synthesize := func() ([]byte, error) {
		return s.engine.Synthesize(ctx, p)
	}
	if s.cache == nil {
		return synthesize()
	}
	key := cache.Key(s.engine.Name(), p.Voice, p.Rate, p.Pitch, p.Text)
	return s.cache.GetOrRender(key, synthesize)
}

// play waits while the job is paused, then starts playing pcm.
func (s *Synthesizer) play(ctx context.Context, j *job, pcm []byte) error {
	for {
		s.mu.Lock()
		if err := ctx.Err(); err != nil {
			s.mu.Unlock()
			return err
		}
		if !j.paused {
			err := s.player.Play(pcm)
			s.mu.Unlock()
			if err != nil {
				return fmt.Errorf("playback: %w", err)
			}
			return nil
		}
		resumed := j.resumed
		s.mu.Unlock()

		select {
		case <-resumed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// emitFor sends an event for j unless j was cancelled.
func (s *Synthesizer) emitFor(j *job, ev tts.Event) {
	if j.ctx.Err() != nil {
		return
	}
	ev.RequestID = j.req.ID
	s.emit(ev)
}

// notify sends ev unless the event buffer is full. Pause and Resume run
// under the controller's lock, which the event consumer also takes.
func (s *Synthesizer) notify(ev tts.Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event buffer full, dropped", "kind", ev.Kind, "request", ev.RequestID)
	}
}

func (s *Synthesizer) emit(ev tts.Event) {
	select {
	case s.events <- ev:
	case <-s.closing:
	}
}
