package engines

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dgnsrekt/narrate/tts"
)

// espeak defaults
const (
	espeakWPM        = 175
	espeakMinWPM     = 80
	espeakMaxWPM     = 450
	espeakSampleRate = 22050
)

// Espeak renders speech with eSpeak NG (or classic eSpeak).
type Espeak struct {
	binary string
	format Format
}

// NewEspeak creates an eSpeak engine. An empty binary searches PATH for
// espeak-ng, then espeak.
func NewEspeak(binary string) *Espeak {
	if binary == "" {
		binary = lookPath("espeak-ng", "espeak")
	} else if p := lookPath(binary); p != "" {
		binary = p
	}
	return &Espeak{
		binary: binary,
		format: Format{SampleRate: espeakSampleRate, Channels: 1},
	}
}

// Name returns "espeak".
func (e *Espeak) Name() string { return tts.EngineEspeak }

// Format returns the output format.
func (e *Espeak) Format() Format { return e.format }

// Available reports whether the binary was found.
func (e *Espeak) Available() bool { return e.binary != "" }

// Voices lists the installed voices.
func (e *Espeak) Voices(ctx context.Context) ([]tts.Voice, error) {
	if !e.Available() {
		return nil, ErrBinaryNotFound
	}
	out, err := run(ctx, e.binary, nil, "--voices")
	if err != nil {
		return nil, err
	}
	return parseEspeakVoices(out), nil
}

// Synthesize renders text to PCM.
func (e *Espeak) Synthesize(ctx context.Context, p Params) ([]byte, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, ErrEmptyText
	}
	if !e.Available() {
		return nil, ErrBinaryNotFound
	}

	wpm, pitch := espeakArgs(p.Rate, p.Pitch)
	args := []string{
		"--stdout",
		"--stdin",
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
	}
	if p.Voice != "" {
		args = append(args, "-v", p.Voice)
	}

	out, err := run(ctx, e.binary, strings.NewReader(p.Text), args...)
	if err != nil {
		return nil, err
	}
	pcm, f, err := ParseWAV(out)
	if err != nil {
		return nil, fmt.Errorf("espeak output: %w", err)
	}
	return convert(pcm, f, e.format), nil
}

// Close is a no-op.
func (e *Espeak) Close() error { return nil }

// espeakArgs maps rate and pitch onto eSpeak's words per minute and 0-99
// pitch scale.
func espeakArgs(rate, pitch float64) (wpm int, p int) {
	wpm = int(math.Round(espeakWPM * tts.ClampRate(rate)))
	wpm = max(espeakMinWPM, min(espeakMaxWPM, wpm))
	p = int(math.Round(tts.ClampPitch(pitch) * 50))
	p = max(0, min(99, p))
	return wpm, p
}

// parseEspeakVoices parses `espeak --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func parseEspeakVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		id := fields[4]
		if seen[id] {
			continue
		}
		seen[id] = true
		voices = append(voices, tts.Voice{
			ID:       id,
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Language: fields[1],
		})
	}
	return voices
}
