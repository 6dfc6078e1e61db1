package model

import (
	"context"
	"time"
)

// Generator is implemented by every text generation provider used for cleanup.
// The returned string is the content of the first completion, or "" when the
// provider returned no content.
type Generator interface {
	Generate(ctx context.Context, req CleanupRequest) (string, GenerationMetadata, error)
	Name() string
}

// ModelLister is implemented by providers that expose a model catalog.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
	Name() string
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"    // Instructions that are not part of the user input, such as the desired persona.
	MessageRoleUser      MessageRole = "user"      // The content to act on.
	MessageRoleAssistant MessageRole = "assistant" // Prior model output.
)

type Message struct {
	Role    MessageRole
	Content string
}

// CleanupRequest is immutable once built; providers must not mutate Messages.
type CleanupRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// SystemPrompt joins the system messages of the request.
func (r CleanupRequest) SystemPrompt() string {
	prompt := ""
	for _, msg := range r.Messages {
		if msg.Role != MessageRoleSystem {
			continue
		}
		if prompt != "" {
			prompt += "\n\n"
		}
		prompt += msg.Content
	}
	return prompt
}

type CleanupResult struct {
	Text string
	// Degraded is set when the provider failed and Text is the untouched input.
	Degraded bool
}

type GenerationMetadata map[string]string

const (
	MetadataKeyProvider       = "provider"
	MetadataKeyModel          = "model"
	MetadataKeyLatencyMs      = "latency_ms"
	MetadataKeyInputTokens    = "input_tokens"
	MetadataKeyOutputTokens   = "output_tokens"
	MetadataKeyTotalTokens    = "total_tokens"
	MetadataKeyAudioSeconds   = "audio_seconds"
	MetadataKeyResponseID     = "response_id"
	MetadataKeyResponseStatus = "response_status"
)

type GeneratorOption interface {
	apply(*GeneratorConfig)
}

type generatorOptionFunc func(*GeneratorConfig)

func (f generatorOptionFunc) apply(cfg *GeneratorConfig) {
	f(cfg)
}

// GeneratorConfig carries connection settings shared by all providers.
// Per-call settings (model, temperature) travel on the request instead.
type GeneratorConfig struct {
	IgnoreInvalidGeneratorOptions bool
	URL                           string
	AuthToken                     string
	Model                         *string
	MaxTokens                     *int
	Timeout                       time.Duration
}

func ResolveGeneratorOpts(opts ...GeneratorOption) GeneratorConfig {
	cfg := GeneratorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}

func WithIgnoreInvalidGeneratorOptions(value bool) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.IgnoreInvalidGeneratorOptions = value
	})
}

func WithURL(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.URL = value
	})
}

func WithAuthToken(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.AuthToken = value
	})
}

// WithModel sets the fallback model used when a request leaves Model empty.
func WithModel(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.Model = &value
	})
}

func WithMaxTokens(value int) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.MaxTokens = &value
	})
}

// WithTimeout bounds each HTTP call. Zero keeps the transport default.
func WithTimeout(value time.Duration) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.Timeout = value
	})
}
