// Package ollama adapts a local Ollama server to voxscribe as a cleanup
// generator. No credential is required.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

const (
	providerName               = "ollama"
	displayName                = "Ollama"
	defaultGenerationModelName = "llama3.1"
	defaultBaseURL             = "http://localhost:11434"
	defaultTimeout             = 180 * time.Second
)

type client struct {
	baseURL    string
	httpClient *http.Client
}

func newClient(cfg model.GeneratorConfig) *client {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL"))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  *ollamaChatOptions  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model           string            `json:"model"`
	Message         ollamaChatMessage `json:"message"`
	Done            bool              `json:"done"`
	DoneReason      string            `json:"done_reason,omitempty"`
	PromptEvalCount int64             `json:"prompt_eval_count,omitempty"`
	EvalCount       int64             `json:"eval_count,omitempty"`
	Error           string            `json:"error,omitempty"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type ollamaChatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

func (c *client) chat(ctx context.Context, request ollamaChatRequest) (*ollamaChatResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	httpRequest, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/chat",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	defer httpResponse.Body.Close()

	rawBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		var apiError ollamaErrorResponse
		if unmarshalErr := json.Unmarshal(rawBody, &apiError); unmarshalErr == nil && strings.TrimSpace(apiError.Error) != "" {
			return nil, utils.WrapIfNotNil(
				fmt.Errorf("ollama chat request failed with status %d: %s", httpResponse.StatusCode, apiError.Error),
			)
		}
		return nil, utils.WrapIfNotNil(
			fmt.Errorf("ollama chat request failed with status %d: %s", httpResponse.StatusCode, strings.TrimSpace(string(rawBody))),
		)
	}

	var response ollamaChatResponse
	if err := json.Unmarshal(rawBody, &response); err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	if strings.TrimSpace(response.Error) != "" {
		return nil, utils.WrapIfNotNil(errors.New(strings.TrimSpace(response.Error)))
	}

	return &response, nil
}

func resolveGenerationModelName(requested string, cfg model.GeneratorConfig) string {
	if modelName := strings.TrimSpace(requested); modelName != "" {
		return modelName
	}
	if cfg.Model != nil {
		modelName := strings.TrimSpace(*cfg.Model)
		if modelName != "" {
			return modelName
		}
	}
	return defaultGenerationModelName
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
