package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	"google.golang.org/genai"
)

type ContentGenerator struct {
	cfg model.GeneratorConfig
}

func NewContentGenerator(opts ...model.GeneratorOption) (*ContentGenerator, error) {
	return &ContentGenerator{cfg: model.ResolveGeneratorOpts(opts...)}, nil
}

func (g *ContentGenerator) Name() string {
	return displayName
}

func (g *ContentGenerator) Generate(ctx context.Context, req model.CleanupRequest) (string, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveGenerationModelName(req.Model, g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	contents, err := mapContents(req.Messages)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	client, err := newAPIClient(ctx, g.cfg)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	config := buildGenerateContentConfig(req, g.cfg)
	logging.NewLogger(ctx).Debugf(
		"gemini.ContentGenerator model=%q contents=%d temperature=%v",
		modelName,
		len(contents),
		req.Temperature,
	)

	response, err := client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	applyResponseMetadata(meta, response)
	return response.Text(), meta, nil
}

func buildGenerateContentConfig(req model.CleanupRequest, cfg model.GeneratorConfig) *genai.GenerateContentConfig {
	temp := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system := req.SystemPrompt(); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if cfg.MaxTokens != nil {
		config.MaxOutputTokens = int32(*cfg.MaxTokens)
	}
	return config
}

// mapContents keeps the conversational turns; system messages travel in the
// request config instead.
func mapContents(messages []model.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.MessageRoleSystem:
			continue
		case model.MessageRoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case model.MessageRoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	if len(contents) == 0 {
		return nil, errors.New("at least one user message is required")
	}
	return contents, nil
}
