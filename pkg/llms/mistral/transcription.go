package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

type Transcriber struct {
	client *client
	cfg    model.GeneratorConfig
}

// NewTranscriber returns a Voxtral transcriber. The API key falls back to
// MISTRAL_API_KEY when WithAuthToken is not given.
func NewTranscriber(opts ...model.GeneratorOption) (*Transcriber, error) {
	cfg := model.ResolveGeneratorOpts(opts...)
	c, err := newClient(cfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return &Transcriber{client: c, cfg: cfg}, nil
}

func (t *Transcriber) Name() string {
	return displayName
}

type transcriptionResponse struct {
	Model    string `json:"model"`
	Text     string `json:"text"`
	Language string `json:"language"`
	Usage    struct {
		PromptAudioSeconds float64 `json:"prompt_audio_seconds"`
		PromptTokens       int64   `json:"prompt_tokens"`
		CompletionTokens   int64   `json:"completion_tokens"`
		TotalTokens        int64   `json:"total_tokens"`
	} `json:"usage"`
}

func (t *Transcriber) Transcribe(ctx context.Context, req model.TranscriptionRequest) (model.TranscriptionResult, error) {
	start := time.Now()
	modelName := resolveAudioTranscriptionModelName(req, t.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	log.Debugf("audio_transcription_request provider=%s model=%q bytes=%d", providerName, modelName, len(req.Payload))

	if len(req.Payload) == 0 {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(errEmptyPayload)
	}

	body, contentType, err := buildMultipartBody(req, modelName)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(err)
	}

	httpReq, err := t.client.newRequest(ctx, http.MethodPost, "/audio/transcriptions", body)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, err
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := t.client.do(httpReq)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(err)
	}

	text, err := parseTranscriptionBody(raw, resp.Header.Get("Content-Type"), meta)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(err)
	}
	return model.TranscriptionResult{Text: text, Metadata: meta}, nil
}

func buildMultipartBody(req model.TranscriptionRequest, modelName string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = "audio"
	}
	mimeType := strings.TrimSpace(req.MIMEType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Payload); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("model", modelName); err != nil {
		return nil, "", err
	}
	if language := strings.TrimSpace(req.Language); language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

// parseTranscriptionBody accepts both the JSON envelope and a plain-text body.
// The transcript is returned as received; only the line terminator of a
// plain-text body is removed.
func parseTranscriptionBody(raw []byte, contentType string, meta model.GenerationMetadata) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	trimmed := bytes.TrimSpace(raw)

	if mediaType != "application/json" && (len(trimmed) == 0 || trimmed[0] != '{') {
		return strings.TrimSuffix(strings.TrimSuffix(string(raw), "\n"), "\r"), nil
	}

	var response transcriptionResponse
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return "", err
	}
	applyTranscriptionMetadata(meta, response)
	return response.Text, nil
}

func applyTranscriptionMetadata(meta model.GenerationMetadata, response transcriptionResponse) {
	if meta == nil {
		return
	}
	if response.Model != "" {
		meta[model.MetadataKeyModel] = response.Model
	}
	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(response.Usage.PromptTokens, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(response.Usage.CompletionTokens, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(response.Usage.TotalTokens, 10)
	if response.Usage.PromptAudioSeconds > 0 {
		meta[model.MetadataKeyAudioSeconds] = strconv.FormatFloat(response.Usage.PromptAudioSeconds, 'f', 2, 64)
	}
}

func resolveAudioTranscriptionModelName(req model.TranscriptionRequest, cfg model.GeneratorConfig) string {
	if modelName := strings.TrimSpace(req.Model); modelName != "" {
		return modelName
	}
	if cfg.Model != nil {
		if modelName := strings.TrimSpace(*cfg.Model); modelName != "" {
			return modelName
		}
	}
	return defaultAudioTranscriptionModelName
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
