package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Transcription Transcription `toml:"transcription"`
	Cleanup       Cleanup       `toml:"cleanup"`
	Audio         Audio         `toml:"audio"`
	Logging       Logging       `toml:"logging"`
}

// Transcription configures the speech-to-text provider.
type Transcription struct {
	Provider string `toml:"provider"`
	// Model overrides the provider's default speech model.
	Model              string `toml:"model"`
	Language           string `toml:"language"`
	BaseURL            string `toml:"base_url"`
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds"`
	APIKey             string `toml:"-"`
}

// Cleanup configures the text generation provider and the per-mode models.
type Cleanup struct {
	Provider              string `toml:"provider"`
	FillerRemovalModel    string `toml:"filler_removal_model"`
	GeneralAssistantModel string `toml:"general_assistant_model"`
	BaseURL               string `toml:"base_url"`
	HTTPTimeoutSeconds    int    `toml:"http_timeout_seconds"`
	// IgnoreInvalidOptions drops settings a model rejects (temperature on
	// reasoning models) instead of failing the call.
	IgnoreInvalidOptions bool   `toml:"ignore_invalid_options"`
	AWSRegion            string `toml:"aws_region"`
	AWSProfile           string `toml:"aws_profile"`
	APIKey               string `toml:"-"`
	AWSAccessKeyID       string `toml:"-"`
	AWSSecretAccessKey   string `toml:"-"`
}

type Audio struct {
	MinBytes int64 `toml:"min_bytes"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadDotEnv loads VOXSCRIBE_ENV_FILE, or ./.env when present, into the
// process environment without overriding variables that are already set.
func LoadDotEnv() error {
	if explicit := strings.TrimSpace(os.Getenv(EnvEnvFile)); explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("load %s: %w", explicit, err)
		}
		return nil
	}

	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// Load reads the optional TOML file at path (or VOXSCRIBE_CONFIG) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(getenv(EnvConfigFile))
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	env := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}
	setIfPresent := func(target *string, key string) {
		if value := env(key); value != "" {
			*target = value
		}
	}

	setIfPresent(&cfg.Transcription.Provider, EnvTranscriptionProvider)
	setIfPresent(&cfg.Transcription.Model, EnvTranscriptionModel)
	setIfPresent(&cfg.Cleanup.Provider, EnvCleanupProvider)
	setIfPresent(&cfg.Logging.Level, EnvLogLevel)
	setIfPresent(&cfg.Logging.Format, EnvLogFormat)
	setIfPresent(&cfg.Cleanup.AWSRegion, EnvAWSRegion)
	setIfPresent(&cfg.Cleanup.AWSProfile, EnvAWSProfile)

	if value := env(EnvMinAudioBytes); value != "" {
		minBytes, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvMinAudioBytes, err)
		}
		cfg.Audio.MinBytes = minBytes
	}

	transcriptionProvider := strings.ToLower(strings.TrimSpace(cfg.Transcription.Provider))
	cfg.Transcription.APIKey = env(apiKeyEnv(transcriptionProvider))
	if baseURLKey := baseURLEnv(transcriptionProvider); baseURLKey != "" {
		setIfPresent(&cfg.Transcription.BaseURL, baseURLKey)
	}

	cleanupProvider := strings.ToLower(strings.TrimSpace(cfg.Cleanup.Provider))
	cfg.Cleanup.APIKey = env(apiKeyEnv(cleanupProvider))
	if baseURLKey := baseURLEnv(cleanupProvider); baseURLKey != "" {
		setIfPresent(&cfg.Cleanup.BaseURL, baseURLKey)
	}
	cfg.Cleanup.AWSAccessKeyID = env(EnvAWSAccessKeyID)
	cfg.Cleanup.AWSSecretAccessKey = env(EnvAWSSecretAccessKey)

	return nil
}

func (c *Config) normalize() {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultLanguage
	}

	c.Cleanup.Provider = strings.ToLower(strings.TrimSpace(c.Cleanup.Provider))
	if models, ok := defaultCleanupModels[c.Cleanup.Provider]; ok {
		if strings.TrimSpace(c.Cleanup.FillerRemovalModel) == "" {
			c.Cleanup.FillerRemovalModel = models.fillerRemoval
		}
		if strings.TrimSpace(c.Cleanup.GeneralAssistantModel) == "" {
			c.Cleanup.GeneralAssistantModel = models.generalAssistant
		}
	}

	if c.Audio.MinBytes <= 0 {
		c.Audio.MinBytes = defaultMinAudioBytes
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func apiKeyEnv(provider string) string {
	switch provider {
	case ProviderMistral:
		return EnvMistralAPIKey
	case ProviderOpenAI:
		return EnvOpenAIAPIKey
	case ProviderGemini:
		return EnvGeminiKey
	default:
		return ""
	}
}

func baseURLEnv(provider string) string {
	switch provider {
	case ProviderMistral:
		return EnvMistralBaseURL
	case ProviderOpenAI:
		return EnvOpenAIBaseURL
	case ProviderGemini:
		return EnvGeminiBaseURL
	case ProviderOllama:
		return EnvOllamaBaseURL
	default:
		return ""
	}
}
