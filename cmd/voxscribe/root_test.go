package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Nephrolytics-ai/voxscribe/pkg/config"
	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/testsupport"
	"github.com/stretchr/testify/suite"
)

const rawTranscript = "um so like i think uh this works"

type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(context.Context, model.TranscriptionRequest) (model.TranscriptionResult, error) {
	s.calls++
	if s.err != nil {
		return model.TranscriptionResult{}, s.err
	}
	return model.TranscriptionResult{Text: s.text, Metadata: model.GenerationMetadata{}}, nil
}

func (s *stubTranscriber) Name() string { return "Mistral" }

type stubGenerator struct {
	text     string
	err      error
	requests []model.CleanupRequest
	cancel   context.CancelFunc
}

func (s *stubGenerator) Generate(ctx context.Context, req model.CleanupRequest) (string, model.GenerationMetadata, error) {
	s.requests = append(s.requests, req)
	if s.cancel != nil {
		s.cancel()
		return "", nil, ctx.Err()
	}
	return s.text, model.GenerationMetadata{}, s.err
}

func (s *stubGenerator) Name() string { return "OpenAI" }

type RootCommandSuite struct {
	suite.Suite
	cfg         config.Config
	transcriber *stubTranscriber
	generator   *stubGenerator
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
	dir         string
}

func TestRootCommandSuite(t *testing.T) {
	suite.Run(t, new(RootCommandSuite))
}

func (s *RootCommandSuite) SetupTest() {
	s.cfg = config.Default()
	s.cfg.Transcription.APIKey = "mistral-key"
	s.cfg.Cleanup.APIKey = "openai-key"
	s.cfg.Cleanup.FillerRemovalModel = "gpt-5-nano"
	s.cfg.Cleanup.GeneralAssistantModel = "gpt-5-mini"
	s.transcriber = &stubTranscriber{text: rawTranscript}
	s.generator = &stubGenerator{text: "I think this works."}
	s.stdout = &bytes.Buffer{}
	s.stderr = &bytes.Buffer{}
	s.dir = s.T().TempDir()
}

func (s *RootCommandSuite) TearDownTest() {
	logging.SetLoggerFactory(nil)
}

func (s *RootCommandSuite) deps() deps {
	return deps{
		loadDotEnv: func() error { return nil },
		loadConfig: func(string) (*config.Config, error) {
			cfg := s.cfg
			return &cfg, nil
		},
		newTranscriber: func(config.Transcription) (model.Transcriber, error) { return s.transcriber, nil },
		newGenerator:   func(config.Cleanup) (model.Generator, error) { return s.generator, nil },
	}
}

func (s *RootCommandSuite) run(args ...string) int {
	return run(context.Background(), args, s.stdout, s.stderr, s.deps())
}

func (s *RootCommandSuite) TestCleanTranscriptIsPrinted() {
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := s.run(path)

	s.Equal(0, code)
	s.Equal("I think this works.\n", s.stdout.String())
	s.Require().Len(s.generator.requests, 1)
	s.Equal("gpt-5-nano", s.generator.requests[0].Model)
	s.Contains(s.stderr.String(), "Processing audio file:")
	s.Contains(s.stderr.String(), "Transcription completed:")
}

func (s *RootCommandSuite) TestCleanupFailurePrintsRawTranscript() {
	s.generator.err = errors.New("rate limited")
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := s.run(path)

	s.Equal(0, code)
	s.Equal(rawTranscript+"\n", s.stdout.String())
	s.Contains(s.stderr.String(), "Falling back to original transcription")
}

func (s *RootCommandSuite) TestAltModeAndHiddenAliasSelectGeneralAssistant() {
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	s.Equal(0, s.run("--alt-mode", path))
	s.Equal(0, s.run("--gpt5", path))

	s.Require().Len(s.generator.requests, 2)
	for _, req := range s.generator.requests {
		s.Equal("gpt-5-mini", req.Model)
		s.InDelta(1.0, req.Temperature, 1e-9)
	}
}

func (s *RootCommandSuite) TestMissingPathPrintsUsage() {
	code := s.run()

	s.Equal(1, code)
	s.Empty(s.stdout.String())
	s.Contains(s.stderr.String(), usageLine)
	s.Zero(s.transcriber.calls)
}

func (s *RootCommandSuite) TestExtraArgumentsPrintUsage() {
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := s.run(path, "second.wav")

	s.Equal(1, code)
	s.Empty(s.stdout.String())
	s.Contains(s.stderr.String(), usageLine)
	s.Zero(s.transcriber.calls)
}

func (s *RootCommandSuite) TestMissingCredentialIsReportedBeforeUsage() {
	s.cfg.Transcription.APIKey = ""

	code := s.run()

	s.Equal(1, code)
	s.Contains(s.stderr.String(), "Error: MISTRAL_API_KEY environment variable is required")
	s.NotContains(s.stderr.String(), usageLine)
}

func (s *RootCommandSuite) TestMissingCleanupCredential() {
	s.cfg.Cleanup.APIKey = ""
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := s.run(path)

	s.Equal(1, code)
	s.Contains(s.stderr.String(), "Error: OPENAI_API_KEY environment variable is required")
	s.Zero(s.transcriber.calls)
}

func (s *RootCommandSuite) TestNonexistentFileFails() {
	path := filepath.Join(s.dir, "missing.wav")

	code := s.run(path)

	s.Equal(1, code)
	s.Empty(s.stdout.String())
	s.Contains(s.stderr.String(), "Failed to transcribe audio: Audio file not found: "+path)
	s.Zero(s.transcriber.calls)
}

func (s *RootCommandSuite) TestTooSmallFileFails() {
	path := testsupport.WriteAudioFile(s.T(), s.dir, "tiny.wav", 999)

	code := s.run(path)

	s.Equal(1, code)
	s.Empty(s.stdout.String())
	s.Contains(s.stderr.String(), "Failed to transcribe audio: Audio file is too small")
}

func (s *RootCommandSuite) TestTranscriptionFailureSkipsCleanup() {
	s.transcriber.err = errors.New("mistral API error (status 500): boom")
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := s.run(path)

	s.Equal(1, code)
	s.Empty(s.stdout.String())
	s.Empty(s.generator.requests)
	s.Contains(s.stderr.String(), "Failed to transcribe audio: mistral API error (status 500): boom")
}

func (s *RootCommandSuite) TestInvalidLogLevelFails() {
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := s.run("--log-level", "chatty", path)

	s.Equal(1, code)
	s.Empty(s.stdout.String())
}

func (s *RootCommandSuite) TestInterruptDuringCleanupExitsWithoutOutput() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.generator.cancel = cancel
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := run(ctx, []string{path}, s.stdout, s.stderr, s.deps())

	s.Equal(1, code)
	s.Empty(s.stdout.String())
	s.Len(s.generator.requests, 1)
	s.Equal(1, s.transcriber.calls)
}

func (s *RootCommandSuite) TestPanicIsRecovered() {
	d := s.deps()
	d.newTranscriber = func(config.Transcription) (model.Transcriber, error) { panic("boom") }
	path := testsupport.WriteAudioFile(s.T(), s.dir, "note.wav", 5000)

	code := run(context.Background(), []string{path}, s.stdout, s.stderr, d)

	s.Equal(1, code)
	s.Empty(s.stdout.String())
}
