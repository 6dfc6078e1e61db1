package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Nephrolytics-ai/voxscribe/pkg/config"
	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/stretchr/testify/suite"
)

type stubLister struct {
	ids []string
	err error
}

func (s *stubLister) ListModels(context.Context) ([]string, error) { return s.ids, s.err }

func (s *stubLister) Name() string { return "Mistral" }

type CheckCommandSuite struct {
	suite.Suite
	cfg    config.Config
	lister *stubLister
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func TestCheckCommandSuite(t *testing.T) {
	suite.Run(t, new(CheckCommandSuite))
}

func (s *CheckCommandSuite) SetupTest() {
	s.cfg = config.Default()
	s.cfg.Transcription.APIKey = "mistral-key"
	s.lister = &stubLister{ids: []string{"voxtral-mini-latest", "mistral-small-latest"}}
	s.stdout = &bytes.Buffer{}
	s.stderr = &bytes.Buffer{}
}

func (s *CheckCommandSuite) TearDownTest() {
	logging.SetLoggerFactory(nil)
}

func (s *CheckCommandSuite) run(args ...string) int {
	d := deps{
		loadDotEnv: func() error { return nil },
		loadConfig: func(string) (*config.Config, error) {
			cfg := s.cfg
			return &cfg, nil
		},
		newModelLister: func(config.Transcription) (model.ModelLister, error) { return s.lister, nil },
	}
	return run(context.Background(), args, s.stdout, s.stderr, d)
}

func (s *CheckCommandSuite) TestSuccessfulCheck() {
	code := s.run()

	s.Equal(0, code)
	s.Contains(s.stdout.String(), "API key found")
	s.Contains(s.stdout.String(), "Found 2 available models")
	s.Contains(s.stdout.String(), "   - voxtral-mini-latest")
	s.Empty(s.stderr.String())
}

func (s *CheckCommandSuite) TestMissingKey() {
	s.cfg.Transcription.APIKey = ""

	code := s.run()

	s.Equal(1, code)
	s.Contains(s.stderr.String(), "Error: MISTRAL_API_KEY environment variable is required")
	s.Contains(s.stdout.String(), `Set it with: export MISTRAL_API_KEY="your-key-here"`)
}

func (s *CheckCommandSuite) TestListingFailureExitsWithHint() {
	s.lister.err = errors.New("mistral API error (status 401): Unauthorized")

	code := s.run()

	s.Equal(1, code)
	s.Contains(s.stdout.String(), "API test failed:")
	s.Contains(s.stdout.String(), "API key is invalid")
	s.Empty(s.stderr.String())
}

func (s *CheckCommandSuite) TestRejectsArguments() {
	s.Equal(1, s.run("extra"))
}
