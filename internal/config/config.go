// Package config loads prepdeck settings from a YAML file, PREPDECK_*
// environment variables and command-line overrides, in increasing order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/prepdeck/prepdeck/internal/llm"
)

// EnvPrefix is prepended to every environment variable: llm.provider is
// read from PREPDECK_LLM_PROVIDER.
const EnvPrefix = "PREPDECK"

// Keys.
const (
	KeyDB         = "db"
	KeyDeck       = "deck"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"
	KeyTutorDelay = "tutor.delay"

	KeyLLMProvider      = "llm.provider"
	KeyLLMRatePerMinute = "llm.rate_per_minute"
	KeyLLMTimeout       = "llm.timeout"
	KeyLLMMaxAttempts   = "llm.retry.max_attempts"
)

// Config is the resolved configuration.
type Config struct {
	// DBPath is the SQLite file. Empty means the default data dir location.
	DBPath string
	// DeckPath is a user deck. Empty means the built-in deck.
	DeckPath string

	Log   LogConfig
	Tutor TutorConfig
	LLM   llm.Config

	// File is the config file that was read, or empty when none exists.
	File string
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string
	File  string // empty means <data dir>/prepdeck.log
}

// TutorConfig controls the tutor screen.
type TutorConfig struct {
	// Delay is the simulated thinking time before a rule-based reply.
	Delay time.Duration
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set.
	Path string
	// Overrides are applied last, typically from command-line flags.
	// Empty values are ignored.
	Overrides map[string]string
}

// DefaultPath returns $XDG_CONFIG_HOME/prepdeck/config.yaml, falling back
// to ~/.config/prepdeck/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "prepdeck", "config.yaml"), nil
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, err := readFile(v, opts.Path)
	if err != nil {
		return nil, err
	}

	for key, val := range opts.Overrides {
		if val != "" {
			v.Set(key, val)
		}
	}

	cfg := &Config{
		DBPath:   v.GetString(KeyDB),
		DeckPath: v.GetString(KeyDeck),
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
		},
		Tutor: TutorConfig{Delay: v.GetDuration(KeyTutorDelay)},
		LLM:   llmConfig(v),
		File:  file,
	}
	if cfg.Tutor.Delay < 0 {
		return nil, errors.Errorf("%s must not be negative, got %s", KeyTutorDelay, cfg.Tutor.Delay)
	}
	if cfg.LLM.RatePerMinute < 0 {
		return nil, errors.Errorf("%s must not be negative, got %d", KeyLLMRatePerMinute, cfg.LLM.RatePerMinute)
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, errors.Wrap(err, "llm config")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()

	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyDeck, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTutorDelay, 600*time.Millisecond)

	v.SetDefault(KeyLLMProvider, def.Provider)
	v.SetDefault(KeyLLMRatePerMinute, def.RatePerMinute)
	v.SetDefault(KeyLLMTimeout, def.Timeout)
	v.SetDefault(KeyLLMMaxAttempts, def.Retry.MaxAttempts)

	for name, pc := range providerDefaults(def) {
		v.SetDefault(providerKey(name, "api_key"), pc.APIKey)
		v.SetDefault(providerKey(name, "model"), pc.Model)
		v.SetDefault(providerKey(name, "base_url"), pc.BaseURL)
	}
}

// readFile reads the explicit path, or the default path when it exists.
func readFile(v *viper.Viper, explicit string) (string, error) {
	path := explicit
	if path == "" {
		def, err := DefaultPath()
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(def); err != nil {
			if os.IsNotExist(err) {
				return "", nil
			}
			return "", errors.Wrapf(err, "stat %s", def)
		}
		path = def
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && explicit == "" {
			return "", nil
		}
		return "", errors.Wrapf(err, "read config %s", path)
	}
	return path, nil
}

func llmConfig(v *viper.Viper) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = strings.ToLower(strings.TrimSpace(v.GetString(KeyLLMProvider)))
	cfg.RatePerMinute = v.GetInt(KeyLLMRatePerMinute)
	cfg.Timeout = v.GetDuration(KeyLLMTimeout)
	cfg.Retry.MaxAttempts = v.GetInt(KeyLLMMaxAttempts)

	read := func(name string) llm.ProviderConfig {
		return llm.ProviderConfig{
			APIKey:  v.GetString(providerKey(name, "api_key")),
			Model:   v.GetString(providerKey(name, "model")),
			BaseURL: v.GetString(providerKey(name, "base_url")),
		}
	}
	cfg.Anthropic = read(llm.ProviderAnthropic)
	cfg.OpenAI = read(llm.ProviderOpenAI)
	cfg.Gemini = read(llm.ProviderGemini)
	cfg.OpenRouter = read(llm.ProviderOpenRouter)

	cfg.Discover()
	return cfg
}

func providerDefaults(def llm.Config) map[string]llm.ProviderConfig {
	return map[string]llm.ProviderConfig{
		llm.ProviderAnthropic:  def.Anthropic,
		llm.ProviderOpenAI:     def.OpenAI,
		llm.ProviderGemini:     def.Gemini,
		llm.ProviderOpenRouter: def.OpenRouter,
	}
}

func providerKey(provider, field string) string {
	return "llm." + provider + "." + field
}
