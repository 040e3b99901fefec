package tts

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads the speech configuration from Viper.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}
	if viper.IsSet("locale") {
		cfg.Locale = viper.GetString("locale")
	}
	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}
	if viper.IsSet("rate") {
		cfg.Rate = viper.GetFloat64("rate")
	}
	if viper.IsSet("pitch") {
		cfg.Pitch = viper.GetFloat64("pitch")
	}
	if viper.IsSet("volume") {
		cfg.Volume = viper.GetFloat64("volume")
	}

	// Cache
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Cache.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.max_size") {
		cfg.Cache.MaxSize = viper.GetInt("cache.max_size")
	}

	// Engines
	if viper.IsSet("espeak.binary") {
		cfg.Espeak.Binary = viper.GetString("espeak.binary")
	}
	if viper.IsSet("say.binary") {
		cfg.Say.Binary = viper.GetString("say.binary")
	}
	if viper.IsSet("piper.binary") {
		cfg.Piper.Binary = viper.GetString("piper.binary")
	}
	if viper.IsSet("piper.model_dir") {
		cfg.Piper.ModelDir = viper.GetString("piper.model_dir")
	}
	if viper.IsSet("piper.sample_rate") {
		cfg.Piper.SampleRate = viper.GetInt("piper.sample_rate")
	}
	cfg.OpenAI.APIKey = viper.GetString("openai.api_key")
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if viper.IsSet("openai.model") {
		cfg.OpenAI.Model = viper.GetString("openai.model")
	}
	if viper.IsSet("openai.base_url") {
		cfg.OpenAI.BaseURL = viper.GetString("openai.base_url")
	}
	if viper.IsSet("mock.words_per_minute") {
		cfg.Mock.WordsPerMinute = viper.GetInt("mock.words_per_minute")
	}
	if viper.IsSet("mock.sample_rate") {
		cfg.Mock.SampleRate = viper.GetInt("mock.sample_rate")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SetDefaults sets default values in Viper for the speech configuration.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("engine", defaults.Engine)
	viper.SetDefault("rate", defaults.Rate)
	viper.SetDefault("pitch", defaults.Pitch)
	viper.SetDefault("volume", defaults.Volume)

	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.max_size", defaults.Cache.MaxSize)

	viper.SetDefault("say.binary", defaults.Say.Binary)
	viper.SetDefault("piper.binary", defaults.Piper.Binary)
	viper.SetDefault("piper.model_dir", defaults.Piper.ModelDir)
	viper.SetDefault("piper.sample_rate", defaults.Piper.SampleRate)
	viper.SetDefault("openai.model", defaults.OpenAI.Model)
	viper.SetDefault("mock.words_per_minute", defaults.Mock.WordsPerMinute)
	viper.SetDefault("mock.sample_rate", defaults.Mock.SampleRate)
}
