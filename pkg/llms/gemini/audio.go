package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	"google.golang.org/genai"
)

const audioTranscriptionPrompt = "Transcribe this audio accurately. Return only the transcript text."

type Transcriber struct {
	cfg model.GeneratorConfig
}

func NewTranscriber(opts ...model.GeneratorOption) (*Transcriber, error) {
	return &Transcriber{cfg: model.ResolveGeneratorOpts(opts...)}, nil
}

func (t *Transcriber) Name() string {
	return displayName
}

func (t *Transcriber) Transcribe(ctx context.Context, req model.TranscriptionRequest) (model.TranscriptionResult, error) {
	start := time.Now()
	modelName := resolveGenerationModelName(req.Model, t.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	if len(req.Payload) == 0 {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(errors.New("audio payload is empty"))
	}

	client, err := newAPIClient(ctx, t.cfg)
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(buildAudioTranscriptionPrompt(req.Language)),
				genai.NewPartFromBytes(req.Payload, req.MIMEType),
			},
			genai.RoleUser,
		),
	}

	log.Debugf("gemini.Transcriber model=%q bytes=%d mime=%s", modelName, len(req.Payload), req.MIMEType)
	response, err := client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return model.TranscriptionResult{Metadata: meta}, utils.WrapIfNotNil(err)
	}

	applyResponseMetadata(meta, response)
	return model.TranscriptionResult{
		Text:     strings.TrimSpace(response.Text()),
		Metadata: meta,
	}, nil
}

func buildAudioTranscriptionPrompt(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return audioTranscriptionPrompt
	}
	return audioTranscriptionPrompt + " The spoken language is " + language + "."
}
