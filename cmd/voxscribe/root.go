package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Nephrolytics-ai/voxscribe/pkg/audio"
	"github.com/Nephrolytics-ai/voxscribe/pkg/cleanup"
	"github.com/Nephrolytics-ai/voxscribe/pkg/config"
	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/pipeline"
	"github.com/Nephrolytics-ai/voxscribe/pkg/providers"
	"github.com/Nephrolytics-ai/voxscribe/pkg/transcribe"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	"github.com/spf13/cobra"
)

const usageLine = "Usage: voxscribe [--alt-mode] <audio-file-path>"

var errUsage = errors.New(usageLine)

type deps struct {
	loadDotEnv     func() error
	loadConfig     func(path string) (*config.Config, error)
	newTranscriber func(config.Transcription) (model.Transcriber, error)
	newGenerator   func(config.Cleanup) (model.Generator, error)
}

func defaultDeps() deps {
	return deps{
		loadDotEnv:     config.LoadDotEnv,
		loadConfig:     config.Load,
		newTranscriber: providers.NewTranscriber,
		newGenerator:   providers.NewGenerator,
	}
}

type rootOptions struct {
	altMode    bool
	gpt5       bool
	configPath string
	logLevel   string
}

func newRootCommand(d deps, stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "voxscribe [--alt-mode] <audio-file-path>",
		Short:         "Transcribe an audio file and print a cleaned-up transcript",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return transcribeFile(cmd.Context(), d, opts, args, stdout, stderr)
		},
	}

	cmd.Flags().BoolVar(&opts.altMode, "alt-mode", false, "Answer briefly instead of removing filler words")
	cmd.Flags().BoolVar(&opts.gpt5, "gpt5", false, "Alias for --alt-mode")
	_ = cmd.Flags().MarkHidden("gpt5")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func transcribeFile(ctx context.Context, d deps, opts *rootOptions, args []string, stdout, stderr io.Writer) error {
	if err := d.loadDotEnv(); err != nil {
		return err
	}

	cfg, err := d.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	factory, err := logging.NewLogrusFactory(stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logging.SetLoggerFactory(factory)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errUsage
	}

	transcriber, err := d.newTranscriber(cfg.Transcription)
	if err != nil {
		return err
	}
	generator, err := d.newGenerator(cfg.Cleanup)
	if err != nil {
		return err
	}

	p := pipeline.New(
		audio.NewValidator(cfg.Audio.MinBytes),
		transcribe.NewStage(transcriber, transcribe.Options{
			Model:    cfg.Transcription.Model,
			Language: cfg.Transcription.Language,
		}),
		cleanup.NewStage(generator, providers.CleanupOptions(cfg.Cleanup)...),
	)

	mode := cleanup.ModeFromFlag(opts.altMode || opts.gpt5)
	logging.NewLogger(ctx).Debugf("cleanup_mode=%s transcription_provider=%s cleanup_provider=%s",
		mode, cfg.Transcription.Provider, cfg.Cleanup.Provider)

	if _, err := p.RunAndEmit(ctx, args[0], mode, stdout); err != nil {
		return &pipelineError{err: err}
	}
	return nil
}

type pipelineError struct {
	err error
}

func (e *pipelineError) Error() string {
	return e.err.Error()
}

func (e *pipelineError) Unwrap() error {
	return e.err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log := logging.NewLogger(ctx)
			log.Errorf("panic: %v", r)
			utils.PrintStack("voxscribe", log)
			code = 1
		}
	}()

	cmd := newRootCommand(d, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, diagnostic(err))
		}
		return 1
	}
	return 0
}

// diagnostic renders err as the single stderr line shown to the user.
func diagnostic(err error) string {
	if errors.Is(err, errUsage) {
		return usageLine
	}

	var missing *model.MissingCredentialError
	if errors.As(err, &missing) {
		return "Error: " + missing.Error()
	}

	var failed *pipelineError
	if errors.As(err, &failed) {
		return "Failed to transcribe audio: " + userMessage(failed.err)
	}
	return "Error: " + err.Error()
}

// userMessage prefers the typed error's own message over the wrapped chain.
func userMessage(err error) string {
	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	var tooSmall *model.TooSmallError
	if errors.As(err, &tooSmall) {
		return tooSmall.Error()
	}
	var transcription *model.TranscriptionError
	if errors.As(err, &transcription) {
		return transcription.Error()
	}
	return err.Error()
}
