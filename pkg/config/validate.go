package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
)

// Validate checks provider names and that every credential the selected
// providers need is present. It makes no network calls.
func (c *Config) Validate() error {
	if err := c.ValidateTranscription(); err != nil {
		return err
	}
	return c.validateCleanup()
}

// ValidateTranscription checks only the transcription side, which is all the
// connectivity self-test needs.
func (c *Config) ValidateTranscription() error {
	if !slices.Contains(transcriptionProviders, c.Transcription.Provider) {
		return fmt.Errorf(
			"unsupported transcription provider %q (expected one of %s)",
			c.Transcription.Provider,
			strings.Join(transcriptionProviders, ", "),
		)
	}
	if c.Transcription.APIKey == "" {
		return &model.MissingCredentialError{EnvVar: apiKeyEnv(c.Transcription.Provider)}
	}
	if c.Transcription.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("transcription.http_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateCleanup() error {
	if !slices.Contains(cleanupProviders, c.Cleanup.Provider) {
		return fmt.Errorf(
			"unsupported cleanup provider %q (expected one of %s)",
			c.Cleanup.Provider,
			strings.Join(cleanupProviders, ", "),
		)
	}
	if c.Cleanup.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("cleanup.http_timeout_seconds must be >= 0")
	}

	switch c.Cleanup.Provider {
	case ProviderOllama:
		return nil
	case ProviderBedrock:
		if c.Cleanup.AWSProfile != "" {
			return nil
		}
		if c.Cleanup.AWSAccessKeyID == "" {
			return &model.MissingCredentialError{EnvVar: EnvAWSAccessKeyID}
		}
		if c.Cleanup.AWSSecretAccessKey == "" {
			return &model.MissingCredentialError{EnvVar: EnvAWSSecretAccessKey}
		}
		return nil
	default:
		if c.Cleanup.APIKey == "" {
			return &model.MissingCredentialError{EnvVar: apiKeyEnv(c.Cleanup.Provider)}
		}
		return nil
	}
}
