// Package cleanup runs the best-effort text cleanup stage. It never returns
// an error: provider failures degrade to the untouched transcript.
package cleanup

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
)

type Option func(*Stage)

// WithModel overrides the model of a single mode.
func WithModel(mode Mode, modelName string) Option {
	return func(s *Stage) {
		modelName = strings.TrimSpace(modelName)
		template, ok := s.templates[mode]
		if !ok || modelName == "" {
			return
		}
		template.Model = modelName
		s.templates[mode] = template
	}
}

type Stage struct {
	generator model.Generator
	templates map[Mode]Template
}

func NewStage(generator model.Generator, opts ...Option) *Stage {
	stage := &Stage{
		generator: generator,
		templates: make(map[Mode]Template, len(defaultTemplates)),
	}
	for mode, template := range defaultTemplates {
		stage.templates[mode] = template
	}
	for _, opt := range opts {
		if opt != nil {
			opt(stage)
		}
	}
	return stage
}

// BuildRequest builds the two-message conversation for mode.
func (s *Stage) BuildRequest(raw string, mode Mode) (model.CleanupRequest, error) {
	template, ok := s.templates[mode]
	if !ok {
		return model.CleanupRequest{}, fmt.Errorf("unknown cleanup mode %q", mode)
	}

	return model.CleanupRequest{
		Model: template.Model,
		Messages: []model.Message{
			{Role: model.MessageRoleSystem, Content: template.SystemInstruction},
			{Role: model.MessageRoleUser, Content: template.UserContent(raw)},
		},
		Temperature: template.Temperature,
	}, nil
}

func (s *Stage) Run(ctx context.Context, raw string, mode Mode) model.CleanupResult {
	log := logging.NewLogger(ctx)

	req, err := s.BuildRequest(raw, mode)
	if err != nil {
		return s.degrade(ctx, raw, &model.CleanupError{Err: err})
	}

	log.Infof("Cleaning up text with %s...", req.Model)
	text, meta, err := s.generator.Generate(ctx, req)
	if err != nil {
		return s.degrade(ctx, raw, &model.CleanupError{Model: req.Model, Err: err})
	}
	if len(meta) > 0 {
		log.Debugf("cleanup_metadata %v", meta)
	}

	if text == "" {
		log.Warnf("Text cleanup returned no content; keeping original transcription")
		text = raw
	}

	log.Infof(
		"Text cleanup completed: %d → %d characters",
		utf8.RuneCountInString(raw),
		utf8.RuneCountInString(text),
	)
	return model.CleanupResult{Text: text}
}

func (s *Stage) degrade(ctx context.Context, raw string, cause *model.CleanupError) model.CleanupResult {
	log := logging.NewLogger(ctx)
	log.Warnf("Text cleanup error: %v", cause)
	log.Warnf("Falling back to original transcription")
	return model.CleanupResult{Text: raw, Degraded: true}
}
