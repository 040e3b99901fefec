package engines

import (
	"fmt"

	"github.com/dgnsrekt/narrate/tts"
)

// New creates the engine named in the configuration. "auto" resolves to
// the engine native to this platform.
func New(cfg tts.Config) (Engine, error) {
	switch name := cfg.ResolveEngine(); name {
	case tts.EngineEspeak:
		return NewEspeak(cfg.Espeak.Binary), nil
	case tts.EngineSay:
		return NewSay(cfg.Say.Binary), nil
	case tts.EnginePiper:
		return NewPiper(cfg.Piper.Binary, cfg.Piper.ModelDir, cfg.Piper.SampleRate), nil
	case tts.EngineOpenAI:
		return NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL), nil
	case tts.EngineMock:
		return NewMock(cfg.Mock.WordsPerMinute, cfg.Mock.SampleRate), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
