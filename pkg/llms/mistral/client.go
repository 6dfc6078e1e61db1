// Package mistral talks to the Mistral REST API for Voxtral speech
// transcription and model listing.
package mistral

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
	providerName                       = "mistral"
	displayName                        = "Mistral"
	defaultBaseURL                     = "https://api.mistral.ai/v1"
	defaultAudioTranscriptionModelName = "voxtral-mini-latest"
	envMistralAPIKey                   = "MISTRAL_API_KEY"
	envMistralBaseURL                  = "MISTRAL_BASE_URL"
	maxErrorBodyBytes                  = 4096
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func newClient(cfg model.GeneratorConfig) (*client, error) {
	apiKey := strings.TrimSpace(cfg.AuthToken)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(envMistralAPIKey))
	}
	if apiKey == "" {
		return nil, utils.WrapIfNotNil(&model.MissingCredentialError{EnvVar: envMistralAPIKey})
	}

	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv(envMistralBaseURL))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

// apiError carries the HTTP status so callers can tell auth failures apart.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("mistral API error (status %d): %s", e.StatusCode, e.Message)
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return nil, &apiError{StatusCode: resp.StatusCode, Message: errorMessage(body, resp.Status)}
}

// errorMessage extracts the human readable part of a Mistral error payload.
// Mistral returns either {"message": "..."} or {"detail": ...}.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if strings.TrimSpace(payload.Message) != "" {
			return strings.TrimSpace(payload.Message)
		}
		if len(payload.Detail) > 0 {
			var detail string
			if json.Unmarshal(payload.Detail, &detail) == nil && detail != "" {
				return detail
			}
			return string(payload.Detail)
		}
	}

	trimmed := strings.TrimSpace(string(bytes.ToValidUTF8(body, nil)))
	if trimmed != "" {
		return trimmed
	}
	if status != "" {
		return status
	}
	return "unknown error"
}

func (c *client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return req, nil
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

var errEmptyPayload = errors.New("audio payload is empty")
