package engines

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/dgnsrekt/narrate/tts"
)

// say defaults
const (
	sayWPM        = 175
	sayMinWPM     = 50
	sayMaxWPM     = 700
	saySampleRate = 22050
)

// sayVoiceRegex matches `say -v ?` lines such as
// "Samantha            en_US    # Hello, my name is Samantha."
var sayVoiceRegex = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

// Say renders speech with the macOS say command.
type Say struct {
	binary string
	format Format
}

// NewSay creates a say engine.
func NewSay(binary string) *Say {
	if binary == "" {
		binary = "say"
	}
	s := &Say{format: Format{SampleRate: saySampleRate, Channels: 1}}
	if runtime.GOOS == "darwin" {
		s.binary = lookPath(binary)
	}
	return s
}

// Name returns "say".
func (s *Say) Name() string { return tts.EngineSay }

// Format returns the output format.
func (s *Say) Format() Format { return s.format }

// Available reports whether say exists on this host.
func (s *Say) Available() bool { return s.binary != "" }

// Voices lists the installed voices.
func (s *Say) Voices(ctx context.Context) ([]tts.Voice, error) {
	if !s.Available() {
		return nil, ErrBinaryNotFound
	}
	out, err := run(ctx, s.binary, nil, "-v", "?")
	if err != nil {
		return nil, err
	}
	return parseSayVoices(out), nil
}

// Synthesize renders text to PCM. Pitch is not supported by say.
func (s *Say) Synthesize(ctx context.Context, p Params) ([]byte, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, ErrEmptyText
	}
	if !s.Available() {
		return nil, ErrBinaryNotFound
	}

	dir, err := os.MkdirTemp("", "narrate-say-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck
	out := filepath.Join(dir, "speech.wav")

	args := []string{
		"-o", out,
		"--file-format=WAVE",
		"--data-format=LEI16@" + strconv.Itoa(s.format.SampleRate),
		"-r", strconv.Itoa(sayRate(p.Rate)),
		"-f", "-",
	}
	if p.Voice != "" {
		args = append(args, "-v", p.Voice)
	}

	if _, err := run(ctx, s.binary, strings.NewReader(p.Text), args...); err != nil {
		return nil, err
	}
	wav, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("unable to read say output: %w", err)
	}
	pcm, f, err := ParseWAV(wav)
	if err != nil {
		return nil, fmt.Errorf("say output: %w", err)
	}
	return convert(pcm, f, s.format), nil
}

// Close is a no-op.
func (s *Say) Close() error { return nil }

func sayRate(rate float64) int {
	wpm := int(math.Round(sayWPM * tts.ClampRate(rate)))
	return max(sayMinWPM, min(sayMaxWPM, wpm))
}

func parseSayVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := sayVoiceRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, tts.Voice{
			ID:       name,
			Name:     name,
			Language: strings.ReplaceAll(m[2], "_", "-"),
		})
	}
	return voices
}
