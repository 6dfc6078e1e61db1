// Package pipeline sequences validation, transcription and cleanup.
//
// Fatal failures happen before a transcript exists, or when the run is
// interrupted. Otherwise a successful transcription always produces output.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Nephrolytics-ai/voxscribe/pkg/cleanup"
	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

type Validator interface {
	Validate(ctx context.Context, path string) (model.AudioArtifact, error)
}

type Transcription interface {
	Run(ctx context.Context, artifact model.AudioArtifact) (model.TranscriptionResult, error)
}

type Cleanup interface {
	Run(ctx context.Context, raw string, mode cleanup.Mode) model.CleanupResult
}

type State string

const (
	StateStart       State = "start"
	StateValidated   State = "validated"
	StateTranscribed State = "transcribed"
	StateCleaned     State = "cleaned"
	StateDegraded    State = "degraded"
	StateEmitted     State = "emitted"
	StateFailed      State = "failed"
)

// Outcome is the terminal result of a run. Text is only meaningful when
// State is StateCleaned, StateDegraded or StateEmitted.
type Outcome struct {
	Text  string
	State State
}

type Pipeline struct {
	validator     Validator
	transcription Transcription
	cleanup       Cleanup
}

func New(validator Validator, transcription Transcription, cleanup Cleanup) *Pipeline {
	return &Pipeline{
		validator:     validator,
		transcription: transcription,
		cleanup:       cleanup,
	}
}

// Run executes validate → transcribe → cleanup. Errors are only returned for
// validation and transcription failures, or when ctx is done before cleanup
// settles.
func (p *Pipeline) Run(ctx context.Context, path string, mode cleanup.Mode) (Outcome, error) {
	log := logging.NewLogger(ctx)

	artifact, err := p.validator.Validate(ctx, path)
	if err != nil {
		return Outcome{State: StateFailed}, err
	}
	log.Debugf("pipeline_state=%s path=%q", StateValidated, path)

	transcript, err := p.transcription.Run(ctx, artifact)
	if err != nil {
		return Outcome{State: StateFailed}, err
	}
	log.Debugf("pipeline_state=%s characters=%d", StateTranscribed, utf8.RuneCountInString(transcript.Text))

	result := p.cleanup.Run(ctx, transcript.Text, mode)
	// a degraded result caused by interruption is not output
	if err := ctx.Err(); err != nil {
		return Outcome{State: StateFailed}, utils.WrapIfNotNil(err)
	}
	state := StateCleaned
	if result.Degraded {
		state = StateDegraded
	}
	log.Debugf("pipeline_state=%s mode=%s", state, mode)

	return Outcome{Text: result.Text, State: state}, nil
}

// RunAndEmit runs the pipeline and writes the final text to out. Nothing is
// written to out when Run fails.
func (p *Pipeline) RunAndEmit(ctx context.Context, path string, mode cleanup.Mode, out io.Writer) (Outcome, error) {
	outcome, err := p.Run(ctx, path, mode)
	if err != nil {
		return outcome, err
	}

	if err := Emit(out, outcome.Text); err != nil {
		return Outcome{State: StateFailed}, err
	}
	outcome.State = StateEmitted
	return outcome, nil
}

// Emit writes text followed by a single newline.
func Emit(out io.Writer, text string) error {
	_, err := fmt.Fprintln(out, text)
	return utils.WrapIfNotNil(err)
}
