package openai

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
)

const defaultAudioTranscriptionModelName = "whisper-1"

type Transcriber struct {
	client *client
	cfg    model.GeneratorConfig
}

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

// Transcribe always asks the API for the JSON envelope and returns its text
// field, which is the plain-text transcript the request asks for.
func (t *Transcriber) Transcribe(ctx context.Context, req model.TranscriptionRequest) (model.TranscriptionResult, error) {
	start := time.Now()
	modelName := resolveAudioTranscriptionModelName(req, t.cfg)
	meta := initMetadata(providerName, modelName)
	defer setLatencyMetadata(meta, start)

	logging.NewLogger(ctx).Debugf(
		"audio_transcription_request provider=%s model=%q bytes=%d",
		providerName,
		modelName,
		len(req.Payload),
	)

	transcript, response, err := t.client.runAudioTranscription(ctx, req, modelName)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(err)
	}

	applyOpenAIAudioTranscriptionMetadata(meta, response)
	return model.TranscriptionResult{Text: transcript, Metadata: meta}, nil
}

func (c *client) runAudioTranscription(
	ctx context.Context,
	req model.TranscriptionRequest,
	modelName string,
) (string, *openai.AudioTranscriptionNewResponseUnion, error) {
	if len(req.Payload) == 0 {
		return "", nil, utils.WrapIfNotNil(errors.New("audio payload is empty"))
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = "audio.wav"
	}

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(req.Payload), filename, req.MIMEType),
		Model:          openai.AudioModel(modelName),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}
	if language := strings.TrimSpace(req.Language); language != "" {
		params.Language = param.NewOpt(language)
	}

	response, err := c.apiClient.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", nil, utils.WrapIfNotNil(err)
	}
	if response == nil {
		return "", nil, utils.WrapIfNotNil(errors.New("audio transcriptions API returned nil response"))
	}

	return strings.TrimSpace(response.Text), response, nil
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

func applyOpenAIAudioTranscriptionMetadata(
	meta model.GenerationMetadata,
	response *openai.AudioTranscriptionNewResponseUnion,
) {
	if meta == nil || response == nil {
		return
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(response.Usage.InputTokens, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(response.Usage.OutputTokens, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(response.Usage.TotalTokens, 10)
}
