package providers

import (
	"testing"

	"github.com/Nephrolytics-ai/voxscribe/pkg/cleanup"
	"github.com/Nephrolytics-ai/voxscribe/pkg/config"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/bedrock"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/gemini"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/mistral"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/ollama"
	"github.com/Nephrolytics-ai/voxscribe/pkg/llms/openai"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/stretchr/testify/suite"
)

type ProvidersSuite struct {
	suite.Suite
}

func TestProvidersSuite(t *testing.T) {
	suite.Run(t, new(ProvidersSuite))
}

func (s *ProvidersSuite) TestNewTranscriberSelectsProvider() {
	t, err := NewTranscriber(config.Transcription{Provider: config.ProviderMistral, APIKey: "k"})
	s.Require().NoError(err)
	s.IsType(&mistral.Transcriber{}, t)
	s.Equal("Mistral", t.Name())

	t, err = NewTranscriber(config.Transcription{Provider: config.ProviderOpenAI, APIKey: "k"})
	s.Require().NoError(err)
	s.IsType(&openai.Transcriber{}, t)

	t, err = NewTranscriber(config.Transcription{Provider: config.ProviderGemini, APIKey: "k"})
	s.Require().NoError(err)
	s.IsType(&gemini.Transcriber{}, t)
}

func (s *ProvidersSuite) TestNewTranscriberRejectsUnknownProvider() {
	t, err := NewTranscriber(config.Transcription{Provider: "ollama"})

	s.Require().Error(err)
	s.Nil(t)
	s.Contains(err.Error(), `unsupported transcription provider "ollama"`)
}

func (s *ProvidersSuite) TestNewModelListerOnlySupportsCatalogProviders() {
	lister, err := NewModelLister(config.Transcription{Provider: config.ProviderMistral, APIKey: "k"})
	s.Require().NoError(err)
	s.Equal("Mistral", lister.Name())

	lister, err = NewModelLister(config.Transcription{Provider: config.ProviderOpenAI, APIKey: "k"})
	s.Require().NoError(err)
	s.Equal("OpenAI", lister.Name())

	_, err = NewModelLister(config.Transcription{Provider: config.ProviderGemini, APIKey: "k"})
	s.Require().Error(err)
}

func (s *ProvidersSuite) TestNewGeneratorSelectsProvider() {
	cases := map[string]model.Generator{
		config.ProviderOpenAI:  &openai.ChatGenerator{},
		config.ProviderGemini:  &gemini.ContentGenerator{},
		config.ProviderOllama:  &ollama.ChatGenerator{},
		config.ProviderBedrock: &bedrock.ConverseGenerator{},
	}
	for provider, expected := range cases {
		g, err := NewGenerator(config.Cleanup{Provider: provider, APIKey: "k", HTTPTimeoutSeconds: 5})
		s.Require().NoError(err, provider)
		s.IsType(expected, g, provider)
	}

	_, err := NewGenerator(config.Cleanup{Provider: config.ProviderMistral})
	s.Require().Error(err)
}

func (s *ProvidersSuite) TestCleanupOptionsApplyConfiguredModels() {
	stage := cleanup.NewStage(nil, CleanupOptions(config.Cleanup{
		FillerRemovalModel:    "gemini-2.5-flash-lite",
		GeneralAssistantModel: "gemini-2.5-flash",
	})...)

	req, err := stage.BuildRequest("raw", cleanup.ModeFillerRemoval)
	s.Require().NoError(err)
	s.Equal("gemini-2.5-flash-lite", req.Model)

	req, err = stage.BuildRequest("raw", cleanup.ModeGeneralAssistant)
	s.Require().NoError(err)
	s.Equal("gemini-2.5-flash", req.Model)
}

func (s *ProvidersSuite) TestSecondsIgnoresNonPositive() {
	s.Zero(seconds(0))
	s.Zero(seconds(-3))
	s.Equal(int64(7), int64(seconds(7).Seconds()))
}
