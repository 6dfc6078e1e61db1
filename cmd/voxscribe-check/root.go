package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Nephrolytics-ai/voxscribe/pkg/config"
	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/providers"
	"github.com/Nephrolytics-ai/voxscribe/pkg/selftest"
	"github.com/spf13/cobra"
)

type deps struct {
	loadDotEnv     func() error
	loadConfig     func(path string) (*config.Config, error)
	newModelLister func(config.Transcription) (model.ModelLister, error)
}

func defaultDeps() deps {
	return deps{
		loadDotEnv:     config.LoadDotEnv,
		loadConfig:     config.Load,
		newModelLister: providers.NewModelLister,
	}
}

// errReported marks failures whose details were already written to stdout.
var errReported = errors.New("self-test failed")

func newRootCommand(d deps, stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "voxscribe-check",
		Short:         "Check transcription API connectivity",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return check(cmd.Context(), d, configPath, stdout, stderr)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func check(ctx context.Context, d deps, configPath string, stdout, stderr io.Writer) error {
	if err := d.loadDotEnv(); err != nil {
		return err
	}
	cfg, err := d.loadConfig(configPath)
	if err != nil {
		return err
	}

	factory, err := logging.NewLogrusFactory(stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logging.SetLoggerFactory(factory)

	if err := cfg.ValidateTranscription(); err != nil {
		var missing *model.MissingCredentialError
		if errors.As(err, &missing) {
			fmt.Fprintf(stdout, "Set it with: export %s=\"your-key-here\"\n", missing.EnvVar)
		}
		return err
	}
	fmt.Fprintln(stdout, "API key found")

	lister, err := d.newModelLister(cfg.Transcription)
	if err != nil {
		return err
	}
	if _, err := selftest.Run(ctx, lister, stdout); err != nil {
		return errReported
	}
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	cmd := newRootCommand(d, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "Error: "+err.Error())
		}
		return 1
	}
	return 0
}
