package ollama

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	ollamasdk "github.com/rozoomcool/go-ollama-sdk"
)

type ChatGenerator struct {
	client *client
	cfg    model.GeneratorConfig
}

func NewChatGenerator(opts ...model.GeneratorOption) (*ChatGenerator, error) {
	cfg := model.ResolveGeneratorOpts(opts...)
	return &ChatGenerator{client: newClient(cfg), cfg: cfg}, nil
}

func (g *ChatGenerator) Name() string {
	return displayName
}

func (g *ChatGenerator) Generate(ctx context.Context, req model.CleanupRequest) (string, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveGenerationModelName(req.Model, g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	messages, err := buildMessages(req.Messages)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	request := ollamaChatRequest{
		Model:    modelName,
		Messages: toWireMessages(messages),
		Stream:   false,
		Options:  buildChatOptions(req, g.cfg),
	}
	logging.NewLogger(ctx).Debugf(
		"ollama.ChatGenerator model=%q messages=%d base_url=%s",
		modelName,
		len(messages),
		g.client.baseURL,
	)

	response, err := g.client.chat(ctx, request)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(response.PromptEvalCount, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(response.EvalCount, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(response.PromptEvalCount+response.EvalCount, 10)
	if response.DoneReason != "" {
		meta[model.MetadataKeyResponseStatus] = response.DoneReason
	}
	return response.Message.Content, meta, nil
}

func buildMessages(messages []model.Message) ([]ollamasdk.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	out := make([]ollamasdk.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.MessageRoleSystem, model.MessageRoleUser, model.MessageRoleAssistant:
			out = append(out, ollamasdk.ChatMessage{
				Role:    string(msg.Role),
				Content: msg.Content,
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return out, nil
}

func toWireMessages(messages []ollamasdk.ChatMessage) []ollamaChatMessage {
	out := make([]ollamaChatMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, ollamaChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return out
}

func buildChatOptions(req model.CleanupRequest, cfg model.GeneratorConfig) *ollamaChatOptions {
	temperature := req.Temperature
	options := &ollamaChatOptions{Temperature: &temperature}
	if cfg.MaxTokens != nil {
		numPredict := *cfg.MaxTokens
		options.NumPredict = &numPredict
	}
	return options
}
