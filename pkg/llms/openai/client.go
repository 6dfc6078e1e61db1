// Package openai adapts the OpenAI API to voxscribe: chat completions for
// text cleanup, audio transcriptions and the model catalog.
package openai

import (
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	providerName = "openai"
	displayName  = "OpenAI"
)

type client struct {
	apiClient openai.Client
}

// newClient disables SDK retries: a failed call is reported once and the
// caller decides whether to degrade.
func newClient(cfg model.GeneratorConfig) (*client, error) {
	requestOpts := make([]option.RequestOption, 0, 4)
	requestOpts = append(requestOpts, option.WithMaxRetries(0))
	if cfg.URL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.URL))
	}
	if cfg.AuthToken != "" {
		requestOpts = append(requestOpts, option.WithAPIKey(cfg.AuthToken))
	}
	if cfg.Timeout > 0 {
		requestOpts = append(requestOpts, option.WithRequestTimeout(cfg.Timeout))
	}

	apiClient := openai.NewClient(requestOpts...)
	return &client{apiClient: apiClient}, nil
}

func initMetadata(provider string, modelName string) model.GenerationMetadata {
	if strings.TrimSpace(modelName) == "" {
		modelName = "unknown"
	}

	meta := model.GenerationMetadata{
		model.MetadataKeyProvider: provider,
		model.MetadataKeyModel:    modelName,
	}
	return meta
}

func setLatencyMetadata(meta model.GenerationMetadata, start time.Time) {
	if meta == nil {
		return
	}
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}
