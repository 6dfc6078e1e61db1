// Package gemini adapts the Gemini API to voxscribe. Gemini accepts inline
// audio parts, so it serves as both a transcriber and a cleanup generator.
package gemini

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	"google.golang.org/genai"
)

const (
	providerName               = "gemini"
	displayName                = "Gemini"
	defaultGenerationModelName = "gemini-2.5-flash"
	apiKeyEnv                  = "GEMINI_KEY"
)

func newAPIClient(ctx context.Context, cfg model.GeneratorConfig) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	token := strings.TrimSpace(cfg.AuthToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(apiKeyEnv))
	}
	if token == "" {
		return nil, utils.WrapIfNotNil(&model.MissingCredentialError{EnvVar: apiKeyEnv})
	}
	clientCfg.APIKey = token

	httpOptions := genai.HTTPOptions{}
	if baseURL := strings.TrimSpace(cfg.URL); baseURL != "" {
		httpOptions.BaseURL = baseURL
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		httpOptions.Timeout = &timeout
	}
	clientCfg.HTTPOptions = httpOptions

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return client, nil
}

func initMetadata(modelName string) model.GenerationMetadata {
	if strings.TrimSpace(modelName) == "" {
		modelName = "unknown"
	}

	return model.GenerationMetadata{
		model.MetadataKeyProvider: providerName,
		model.MetadataKeyModel:    modelName,
	}
}

func setLatencyMetadata(meta model.GenerationMetadata, start time.Time) {
	if meta == nil {
		return
	}
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

func resolveGenerationModelName(requested string, cfg model.GeneratorConfig) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	if cfg.Model != nil {
		name := strings.TrimSpace(*cfg.Model)
		if name != "" {
			return name
		}
	}
	return defaultGenerationModelName
}

func applyResponseMetadata(meta model.GenerationMetadata, response *genai.GenerateContentResponse) {
	if meta == nil || response == nil {
		return
	}

	if usage := response.UsageMetadata; usage != nil {
		meta[model.MetadataKeyInputTokens] = strconv.Itoa(int(usage.PromptTokenCount))
		meta[model.MetadataKeyOutputTokens] = strconv.Itoa(int(usage.CandidatesTokenCount))
		meta[model.MetadataKeyTotalTokens] = strconv.Itoa(int(usage.TotalTokenCount))
	}
	if strings.TrimSpace(response.ResponseID) != "" {
		meta[model.MetadataKeyResponseID] = response.ResponseID
	}
	if len(response.Candidates) > 0 && response.Candidates[0] != nil {
		meta[model.MetadataKeyResponseStatus] = string(response.Candidates[0].FinishReason)
	}
}
