package openai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
)

const defaultChatModelName = "gpt-5-nano"

// reasoning models only accept their default temperature.
const reasoningModelTemperature = 1.0

type ChatGenerator struct {
	client *client
	cfg    model.GeneratorConfig
}

func NewChatGenerator(opts ...model.GeneratorOption) (*ChatGenerator, error) {
	cfg := model.ResolveGeneratorOpts(opts...)
	c, err := newClient(cfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return &ChatGenerator{client: c, cfg: cfg}, nil
}

func (g *ChatGenerator) Name() string {
	return displayName
}

func (g *ChatGenerator) Generate(ctx context.Context, req model.CleanupRequest) (string, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveChatModelName(req, g.cfg)
	meta := initMetadata(providerName, modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	params, err := buildChatParams(req, modelName, g.cfg, log)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}
	log.Debugf(
		"chat_completion_request model=%q messages=%d temperature_set=%t",
		modelName,
		len(params.Messages),
		params.Temperature.Valid(),
	)

	completion, err := g.client.apiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}
	if completion == nil {
		return "", meta, utils.WrapIfNotNil(errors.New("chat completions API returned nil response"))
	}

	applyChatCompletionMetadata(meta, completion)
	if len(completion.Choices) == 0 {
		return "", meta, nil
	}
	return completion.Choices[0].Message.Content, meta, nil
}

func buildChatParams(
	req model.CleanupRequest,
	modelName string,
	cfg model.GeneratorConfig,
	log logging.Logger,
) (openai.ChatCompletionNewParams, error) {
	messages, err := mapMessages(req.Messages)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(modelName),
		Messages: messages,
	}

	temperature, err := normalizeTemperatureForModel(modelName, req.Temperature, cfg, log)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	if temperature != nil {
		params.Temperature = param.NewOpt(*temperature)
	}
	if cfg.MaxTokens != nil {
		params.MaxCompletionTokens = param.NewOpt(int64(*cfg.MaxTokens))
	}
	return params, nil
}

func mapMessages(messages []model.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	if len(messages) == 0 {
		return nil, errors.New("at least one message is required")
	}

	mapped := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.MessageRoleSystem:
			mapped = append(mapped, openai.SystemMessage(msg.Content))
		case model.MessageRoleUser:
			mapped = append(mapped, openai.UserMessage(msg.Content))
		case model.MessageRoleAssistant:
			mapped = append(mapped, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return mapped, nil
}

// normalizeTemperatureForModel drops or rejects a temperature the model does
// not accept, depending on IgnoreInvalidGeneratorOptions.
func normalizeTemperatureForModel(
	modelName string,
	temperature float64,
	cfg model.GeneratorConfig,
	log logging.Logger,
) (*float64, error) {
	if !isReasoningModel(modelName) || temperature == reasoningModelTemperature {
		return &temperature, nil
	}

	if cfg.IgnoreInvalidGeneratorOptions {
		if log != nil {
			log.Warnf("ignoring temperature %.2f for reasoning model %q", temperature, modelName)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("temperature is not supported for reasoning model %q", modelName)
}

func isReasoningModel(modelName string) bool {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return false
	}

	return strings.HasPrefix(name, "o1") ||
		strings.HasPrefix(name, "o3") ||
		strings.HasPrefix(name, "o4") ||
		strings.HasPrefix(name, "gpt-5")
}

func resolveChatModelName(req model.CleanupRequest, cfg model.GeneratorConfig) string {
	if modelName := strings.TrimSpace(req.Model); modelName != "" {
		return modelName
	}
	if cfg.Model != nil {
		if modelName := strings.TrimSpace(*cfg.Model); modelName != "" {
			return modelName
		}
	}
	return defaultChatModelName
}

func applyChatCompletionMetadata(meta model.GenerationMetadata, completion *openai.ChatCompletion) {
	if meta == nil || completion == nil {
		return
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(completion.Usage.PromptTokens, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(completion.Usage.CompletionTokens, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(completion.Usage.TotalTokens, 10)
	if completion.ID != "" {
		meta[model.MetadataKeyResponseID] = completion.ID
	}
	if len(completion.Choices) > 0 && completion.Choices[0].FinishReason != "" {
		meta[model.MetadataKeyResponseStatus] = string(completion.Choices[0].FinishReason)
	}
}
