package tts

import (
	"fmt"
	"runtime"
	"strings"
)

// Engine names.
const (
	EngineAuto   = "auto"
	EngineEspeak = "espeak"
	EngineSay    = "say"
	EnginePiper  = "piper"
	EngineOpenAI = "openai"
	EngineMock   = "mock"
)

// Engines lists the engine names accepted in the configuration.
var Engines = []string{EngineAuto, EngineEspeak, EngineSay, EnginePiper, EngineOpenAI, EngineMock}

// Config contains all speech configuration options.
type Config struct {
	// Global settings
	Engine string  `yaml:"engine"`
	Locale string  `yaml:"locale"` // Empty means derive from the environment
	Voice  string  `yaml:"voice"`  // Empty means pick by locale
	Rate   float64 `yaml:"rate"`
	Pitch  float64 `yaml:"pitch"`
	Volume float64 `yaml:"volume"`

	Cache CacheConfig `yaml:"cache"`

	// Engine-specific configurations
	Espeak EspeakConfig `yaml:"espeak"`
	Say    SayConfig    `yaml:"say"`
	Piper  PiperConfig  `yaml:"piper"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Mock   MockConfig   `yaml:"mock"`
}

// CacheConfig controls the rendered audio cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`      // Empty means the user cache directory
	MaxSize int    `yaml:"max_size"` // Megabytes
}

// EspeakConfig contains eSpeak NG settings.
type EspeakConfig struct {
	Binary string `yaml:"binary"` // Empty means search espeak-ng, then espeak
}

// SayConfig contains macOS say settings.
type SayConfig struct {
	Binary string `yaml:"binary"`
}

// PiperConfig contains Piper settings.
type PiperConfig struct {
	Binary     string `yaml:"binary"`
	ModelDir   string `yaml:"model_dir"`
	SampleRate int    `yaml:"sample_rate"`
}

// OpenAIConfig contains OpenAI speech API settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // Empty means the public API
}

// MockConfig contains settings for the silent test engine.
type MockConfig struct {
	WordsPerMinute int `yaml:"words_per_minute"`
	SampleRate     int `yaml:"sample_rate"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine: EngineAuto,
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: 1.0,

		Cache: CacheConfig{
			Enabled: true,
			MaxSize: 100,
		},

		Say: SayConfig{Binary: "say"},
		Piper: PiperConfig{
			Binary:     "piper",
			ModelDir:   "~/.local/share/piper",
			SampleRate: 22050,
		},
		OpenAI: OpenAIConfig{Model: "tts-1"},
		Mock: MockConfig{
			WordsPerMinute: 175,
			SampleRate:     22050,
		},
	}
}

// Validate checks if the configuration is valid and normalizes the engine
// name.
func (c *Config) Validate() error {
	engineValid := false
	for _, e := range Engines {
		if strings.EqualFold(c.Engine, e) {
			engineValid = true
			c.Engine = e
			break
		}
	}
	if !engineValid {
		return fmt.Errorf("invalid engine '%s': must be one of %v", c.Engine, Engines)
	}

	if c.Rate < MinRate || c.Rate > MaxRate {
		return fmt.Errorf("rate must be between %.1f and %.1f, got %.2f", MinRate, MaxRate, c.Rate)
	}
	if c.Pitch < MinPitch || c.Pitch > MaxPitch {
		return fmt.Errorf("pitch must be between %.1f and %.1f, got %.2f", MinPitch, MaxPitch, c.Pitch)
	}
	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %.2f", c.Volume)
	}
	if c.Cache.Enabled && (c.Cache.MaxSize < 1 || c.Cache.MaxSize > 10000) {
		return fmt.Errorf("cache max_size must be between 1 and 10000 MB, got %d", c.Cache.MaxSize)
	}

	switch c.Engine {
	case EnginePiper:
		if c.Piper.Binary == "" {
			return fmt.Errorf("piper config: binary path cannot be empty")
		}
		if c.Piper.SampleRate < 8000 || c.Piper.SampleRate > 48000 {
			return fmt.Errorf("piper config: sample_rate must be between 8000 and 48000, got %d", c.Piper.SampleRate)
		}
	case EngineOpenAI:
		if c.OpenAI.Model == "" {
			return fmt.Errorf("openai config: model cannot be empty")
		}
	case EngineMock:
		if c.Mock.WordsPerMinute < 50 || c.Mock.WordsPerMinute > 500 {
			return fmt.Errorf("mock config: words_per_minute must be between 50 and 500, got %d", c.Mock.WordsPerMinute)
		}
	}

	return nil
}

// ResolveEngine maps "auto" to the engine native to this platform.
func (c *Config) ResolveEngine() string {
	if c.Engine != EngineAuto && c.Engine != "" {
		return c.Engine
	}
	if runtime.GOOS == "darwin" {
		return EngineSay
	}
	return EngineEspeak
}

// ToControllerConfig converts the configuration to controller options.
func (c *Config) ToControllerConfig() ControllerConfig {
	locale := c.Locale
	if locale == "" {
		locale = LocaleFromEnv()
	}
	return ControllerConfig{
		Locale: locale,
		Voice:  c.Voice,
		Rate:   c.Rate,
		Pitch:  c.Pitch,
	}
}
