package bedrock

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
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type ConverseGenerator struct {
	awsOpts AWSOptions
	cfg     model.GeneratorConfig
}

func NewConverseGenerator(awsOpts AWSOptions, opts ...model.GeneratorOption) (*ConverseGenerator, error) {
	return &ConverseGenerator{
		awsOpts: awsOpts,
		cfg:     model.ResolveGeneratorOpts(opts...),
	}, nil
}

func (g *ConverseGenerator) Name() string {
	return displayName
}

func (g *ConverseGenerator) Generate(ctx context.Context, req model.CleanupRequest) (string, model.GenerationMetadata, error) {
	start := time.Now()
	modelID := resolveModelName(req.Model, g.cfg)
	meta := initMetadata(modelID)
	defer setLatencyMetadata(meta, start)

	system, messages, err := buildMessages(req.Messages)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	client, err := newClient(ctx, g.awsOpts, g.cfg)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	logging.NewLogger(ctx).Debugf("bedrock.ConverseGenerator model=%q messages=%d system=%d", modelID, len(messages), len(system))
	output, err := client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:         aws.String(modelID),
		Messages:        messages,
		System:          system,
		InferenceConfig: buildInferenceConfig(req, g.cfg),
	})
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	message, err := extractOutputMessage(output.Output)
	if err != nil {
		return "", meta, utils.WrapIfNotNil(err)
	}

	applyConverseMetadata(meta, output)
	return extractTextFromMessage(message), meta, nil
}

func buildMessages(messages []model.Message) ([]bedrocktypes.SystemContentBlock, []bedrocktypes.Message, error) {
	system := make([]bedrocktypes.SystemContentBlock, 0, 1)
	out := make([]bedrocktypes.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.MessageRoleSystem:
			system = append(system, &bedrocktypes.SystemContentBlockMemberText{Value: msg.Content})
		case model.MessageRoleUser:
			out = append(out, textMessage(bedrocktypes.ConversationRoleUser, msg.Content))
		case model.MessageRoleAssistant:
			out = append(out, textMessage(bedrocktypes.ConversationRoleAssistant, msg.Content))
		default:
			return nil, nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	if len(out) == 0 {
		return nil, nil, errors.New("at least one user message is required")
	}
	return system, out, nil
}

func textMessage(role bedrocktypes.ConversationRole, text string) bedrocktypes.Message {
	return bedrocktypes.Message{
		Role: role,
		Content: []bedrocktypes.ContentBlock{
			&bedrocktypes.ContentBlockMemberText{Value: text},
		},
	}
}

func buildInferenceConfig(req model.CleanupRequest, cfg model.GeneratorConfig) *bedrocktypes.InferenceConfiguration {
	inference := &bedrocktypes.InferenceConfiguration{
		Temperature: aws.Float32(float32(req.Temperature)),
	}
	if cfg.MaxTokens != nil {
		inference.MaxTokens = aws.Int32(int32(*cfg.MaxTokens))
	}
	return inference
}

func extractOutputMessage(output bedrocktypes.ConverseOutput) (bedrocktypes.Message, error) {
	if output == nil {
		return bedrocktypes.Message{}, utils.WrapIfNotNil(errors.New("converse output is nil"))
	}

	messageOutput, ok := output.(*bedrocktypes.ConverseOutputMemberMessage)
	if !ok || messageOutput == nil {
		return bedrocktypes.Message{}, utils.WrapIfNotNil(errors.New("converse output is not a message"))
	}
	return messageOutput.Value, nil
}

func extractTextFromMessage(message bedrocktypes.Message) string {
	parts := make([]string, 0)
	for _, block := range message.Content {
		textBlock, ok := block.(*bedrocktypes.ContentBlockMemberText)
		if !ok || textBlock == nil {
			continue
		}
		value := strings.TrimSpace(textBlock.Value)
		if value == "" {
			continue
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, "\n")
}

func applyConverseMetadata(meta model.GenerationMetadata, output *bedrockruntime.ConverseOutput) {
	if meta == nil || output == nil {
		return
	}

	if output.Usage != nil {
		meta[model.MetadataKeyInputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.InputTokens)), 10)
		meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.OutputTokens)), 10)
		meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(int64(aws.ToInt32(output.Usage.TotalTokens)), 10)
	}
	if stopReason := strings.TrimSpace(string(output.StopReason)); stopReason != "" {
		meta[model.MetadataKeyResponseStatus] = stopReason
	}
}
