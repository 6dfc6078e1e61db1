// Package providers turns configuration sections into concrete provider
// clients.
package providers

import (
	"fmt"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/cleanup"
	"github.com/Nephrolytics-ai/voxscribe/pkg/config"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/bedrock"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/gemini"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/mistral"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/ollama"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/openai"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

type unsupportedProviderError struct {
	role     string
	provider string
}

func (e *unsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported %s provider %q", e.role, e.provider)
}

func NewTranscriber(cfg config.Transcription) (model.Transcriber, error) {
	opts := transcriptionOptions(cfg)

	switch cfg.Provider {
	case config.ProviderMistral:
		t, err := mistral.NewTranscriber(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return t, nil
	case config.ProviderOpenAI:
		t, err := openai.NewTranscriber(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return t, nil
	case config.ProviderGemini:
		t, err := gemini.NewTranscriber(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return t, nil
	}
	return nil, &unsupportedProviderError{role: "transcription", provider: cfg.Provider}
}

// NewModelLister returns the catalog client used by the connectivity check.
// Only providers with a model listing endpoint qualify.
func NewModelLister(cfg config.Transcription) (model.ModelLister, error) {
	opts := transcriptionOptions(cfg)

	switch cfg.Provider {
	case config.ProviderMistral:
		t, err := mistral.NewTranscriber(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return t, nil
	case config.ProviderOpenAI:
		t, err := openai.NewTranscriber(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return t, nil
	}
	return nil, &unsupportedProviderError{role: "model listing", provider: cfg.Provider}
}

func NewGenerator(cfg config.Cleanup) (model.Generator, error) {
	opts := []model.GeneratorOption{
		model.WithIgnoreInvalidGeneratorOptions(cfg.IgnoreInvalidOptions),
		model.WithURL(cfg.BaseURL),
		model.WithAuthToken(cfg.APIKey),
		model.WithTimeout(seconds(cfg.HTTPTimeoutSeconds)),
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		g, err := openai.NewChatGenerator(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return g, nil
	case config.ProviderGemini:
		g, err := gemini.NewContentGenerator(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return g, nil
	case config.ProviderOllama:
		g, err := ollama.NewChatGenerator(opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return g, nil
	case config.ProviderBedrock:
		g, err := bedrock.NewConverseGenerator(bedrock.AWSOptions{
			Region:          cfg.AWSRegion,
			Profile:         cfg.AWSProfile,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, opts...)
		if err != nil {
			return nil, utils.WrapIfNotNil(err)
		}
		return g, nil
	}
	return nil, &unsupportedProviderError{role: "cleanup", provider: cfg.Provider}
}

// CleanupOptions maps the configured per-mode models onto the cleanup stage.
func CleanupOptions(cfg config.Cleanup) []cleanup.Option {
	return []cleanup.Option{
		cleanup.WithModel(cleanup.ModeFillerRemoval, cfg.FillerRemovalModel),
		cleanup.WithModel(cleanup.ModeGeneralAssistant, cfg.GeneralAssistantModel),
	}
}

func transcriptionOptions(cfg config.Transcription) []model.GeneratorOption {
	opts := []model.GeneratorOption{
		model.WithURL(cfg.BaseURL),
		model.WithAuthToken(cfg.APIKey),
		model.WithTimeout(seconds(cfg.HTTPTimeoutSeconds)),
	}
	if cfg.Model != "" {
		opts = append(opts, model.WithModel(cfg.Model))
	}
	return opts
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
