// Package bedrock adapts the Amazon Bedrock Converse API to voxscribe as a
// cleanup generator.
package bedrock

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	defaultModelName = "us.anthropic.claude-3-5-haiku-20241022-v1:0"
	providerName     = "bedrock"
	displayName      = "Bedrock"
	defaultRegion    = "us-east-1"
)

// AWSOptions carries explicit AWS settings. Empty fields fall back to the
// standard AWS environment variables.
type AWSOptions struct {
	Region          string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

func (o AWSOptions) withEnvDefaults() AWSOptions {
	fill := func(value *string, env string) {
		if strings.TrimSpace(*value) == "" {
			*value = strings.TrimSpace(os.Getenv(env))
		}
	}
	fill(&o.Region, "AWS_REGION")
	fill(&o.Profile, "AWS_PROFILE")
	fill(&o.AccessKeyID, "AWS_ACCESS_KEY_ID")
	fill(&o.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	fill(&o.SessionToken, "AWS_SESSION_TOKEN")
	if o.Region == "" {
		o.Region = defaultRegion
	}
	return o
}

func newClient(ctx context.Context, awsOpts AWSOptions, cfg model.GeneratorConfig) (*bedrockruntime.Client, error) {
	awsCfg, err := loadAWSConfig(ctx, awsOpts)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.RetryMaxAttempts = 1
		if strings.TrimSpace(cfg.URL) != "" {
			o.BaseEndpoint = aws.String(strings.TrimSpace(cfg.URL))
		}
		if cfg.Timeout > 0 {
			o.HTTPClient = awshttp.NewBuildableClient().WithTimeout(cfg.Timeout)
		}
	})
	return client, nil
}

func loadAWSConfig(ctx context.Context, awsOpts AWSOptions) (aws.Config, error) {
	opts := awsOpts.withEnvDefaults()

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}

	switch {
	case opts.AccessKeyID != "" || opts.SecretAccessKey != "":
		if opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
			return aws.Config{}, utils.WrapIfNotNil(
				errors.New("both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when using key-based auth"),
			)
		}

		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	case opts.Profile != "":
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	default:
		return aws.Config{}, utils.WrapIfNotNil(&model.MissingCredentialError{EnvVar: "AWS_ACCESS_KEY_ID"})
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, utils.WrapIfNotNil(err)
	}
	return cfg, nil
}

func resolveModelName(requested string, cfg model.GeneratorConfig) string {
	if modelName := strings.TrimSpace(requested); modelName != "" {
		return modelName
	}
	if cfg.Model != nil {
		modelName := strings.TrimSpace(*cfg.Model)
		if modelName != "" {
			return modelName
		}
	}
	return defaultModelName
}

func initMetadata(modelName string) model.GenerationMetadata {
	if strings.TrimSpace(modelName) == "" {
		modelName = "unknown"
	}

	return model.GenerationMetadata{
		model.MetadataKeyProvider: providerName,
		model.MetadataKeyModel:    modelName,
	}
}

func setLatencyMetadata(meta model.GenerationMetadata, start time.Time) {
	if meta == nil {
		return
	}
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}
