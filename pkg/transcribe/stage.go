// Package transcribe uploads a validated audio artifact to a speech-to-text
// provider and normalizes the response to plain text.
package transcribe

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Nephrolytics-ai/voxscribe/pkg/audio"
	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
)

const DefaultLanguage = "en"

type Options struct {
	// Model is left empty to use the provider's speech model.
	Model    string
	Language string
}

type Stage struct {
	transcriber model.Transcriber
	opts        Options
}

func NewStage(transcriber model.Transcriber, opts Options) *Stage {
	opts.Model = strings.TrimSpace(opts.Model)
	opts.Language = strings.TrimSpace(opts.Language)
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	return &Stage{transcriber: transcriber, opts: opts}
}

// BuildRequest always asks for a plain-text response.
func (s *Stage) BuildRequest(artifact model.AudioArtifact, payload []byte) model.TranscriptionRequest {
	return model.TranscriptionRequest{
		Payload:        payload,
		Filename:       artifact.Filename(),
		MIMEType:       artifact.MIMEType,
		Model:          s.opts.Model,
		Language:       s.opts.Language,
		ResponseFormat: model.TranscriptionFormatText,
	}
}

// Run blocks until the provider call resolves. Any failure is returned as a
// *model.TranscriptionError; there is no fallback transcript.
func (s *Stage) Run(ctx context.Context, artifact model.AudioArtifact) (model.TranscriptionResult, error) {
	log := logging.NewLogger(ctx)

	payload, err := audio.ReadPayload(artifact)
	if err != nil {
		log.Errorf("Transcription error: %v", err)
		return model.TranscriptionResult{}, &model.TranscriptionError{Provider: s.transcriber.Name(), Err: err}
	}

	req := s.BuildRequest(artifact, payload)
	log.Infof("Sending transcription request to %s...", s.transcriber.Name())

	result, err := s.transcriber.Transcribe(ctx, req)
	if err != nil {
		log.Errorf("Transcription error: %v", err)
		return model.TranscriptionResult{}, &model.TranscriptionError{Provider: s.transcriber.Name(), Err: err}
	}

	log.Infof("Transcription completed: %d characters", utf8.RuneCountInString(result.Text))
	if len(result.Metadata) > 0 {
		log.Debugf("transcription_metadata %v", result.Metadata)
	}
	return result, nil
}
