package engines

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dgnsrekt/narrate/tts"
	openai "github.com/sashabaranov/go-openai"
)

// The speech endpoint returns 24kHz mono PCM.
const openAISampleRate = 24000

// openAIVoices is the fixed voice catalogue of the speech endpoint. The
// voices are multilingual; they are listed under English so locale
// matching picks one for English users.
var openAIVoices = []string{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"}

// OpenAI renders speech with the OpenAI audio API.
type OpenAI struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewOpenAI creates an OpenAI engine. An empty baseURL uses the public API.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "tts-1"
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		hasKey: apiKey != "",
	}
}

// Name returns "openai".
func (e *OpenAI) Name() string { return tts.EngineOpenAI }

// Format returns the output format.
func (e *OpenAI) Format() Format { return Format{SampleRate: openAISampleRate, Channels: 1} }

// Available reports whether an API key is configured.
func (e *OpenAI) Available() bool { return e.hasKey }

// Voices returns the fixed voice catalogue.
func (e *OpenAI) Voices(context.Context) ([]tts.Voice, error) {
	voices := make([]tts.Voice, len(openAIVoices))
	for i, v := range openAIVoices {
		voices[i] = tts.Voice{
			ID:       v,
			Name:     strings.ToUpper(v[:1]) + v[1:],
			Language: "en",
		}
	}
	return voices, nil
}

// Synthesize renders text to PCM. Pitch is not supported by the API.
func (e *OpenAI) Synthesize(ctx context.Context, p Params) ([]byte, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, ErrEmptyText
	}
	voice := p.Voice
	if voice == "" {
		voice = openAIVoices[0]
	}

	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.model),
		Input:          p.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormat("pcm"),
		Speed:          openAISpeed(p.Rate),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close() //nolint:errcheck

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai speech: unable to read audio: %w", err)
	}
	return pcm[:len(pcm)&^1], nil
}

// Close is a no-op.
func (e *OpenAI) Close() error { return nil }

// openAISpeed limits the rate to what the API accepts.
func openAISpeed(rate float64) float64 {
	return max(0.25, min(4.0, tts.ClampRate(rate)))
}
