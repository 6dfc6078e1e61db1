package config

const (
	ProviderMistral = "mistral"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderOllama  = "ollama"
	ProviderBedrock = "bedrock"
)

const (
	EnvMistralAPIKey         = "MISTRAL_API_KEY"
	EnvMistralBaseURL        = "MISTRAL_BASE_URL"
	EnvOpenAIAPIKey          = "OPENAI_API_KEY"
	EnvOpenAIBaseURL         = "OPENAI_BASE_URL"
	EnvGeminiKey             = "GEMINI_KEY"
	EnvGeminiBaseURL         = "GEMINI_BASE_URL"
	EnvOllamaBaseURL         = "OLLAMA_BASE_URL"
	EnvAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	EnvAWSProfile            = "AWS_PROFILE"
	EnvAWSRegion             = "AWS_REGION"
	EnvConfigFile            = "VOXSCRIBE_CONFIG"
	EnvEnvFile               = "VOXSCRIBE_ENV_FILE"
	EnvTranscriptionProvider = "VOXSCRIBE_TRANSCRIPTION_PROVIDER"
	EnvTranscriptionModel    = "VOXSCRIBE_TRANSCRIPTION_MODEL"
	EnvCleanupProvider       = "VOXSCRIBE_CLEANUP_PROVIDER"
	EnvMinAudioBytes         = "VOXSCRIBE_MIN_AUDIO_BYTES"
	EnvLogLevel              = "VOXSCRIBE_LOG_LEVEL"
	EnvLogFormat             = "VOXSCRIBE_LOG_FORMAT"
)

const (
	defaultMinAudioBytes int64 = 1000
	defaultLanguage            = "en"
	defaultLogLevel            = "info"
	defaultLogFormat           = "text"
	defaultAWSRegion           = "us-east-1"
)

// cleanupModels holds the per-mode defaults of each cleanup provider.
type cleanupModels struct {
	fillerRemoval    string
	generalAssistant string
}

var defaultCleanupModels = map[string]cleanupModels{
	ProviderOpenAI:  {fillerRemoval: "gpt-5-nano", generalAssistant: "gpt-5-mini"},
	ProviderGemini:  {fillerRemoval: "gemini-2.5-flash-lite", generalAssistant: "gemini-2.5-flash"},
	ProviderOllama:  {fillerRemoval: "llama3.1", generalAssistant: "llama3.1"},
	ProviderBedrock: {fillerRemoval: "us.anthropic.claude-3-5-haiku-20241022-v1:0", generalAssistant: "us.anthropic.claude-3-5-sonnet-20241022-v2:0"},
}

var transcriptionProviders = []string{ProviderMistral, ProviderOpenAI, ProviderGemini}

var cleanupProviders = []string{ProviderOpenAI, ProviderGemini, ProviderOllama, ProviderBedrock}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Transcription: Transcription{
			Provider: ProviderMistral,
			Language: defaultLanguage,
		},
		Cleanup: Cleanup{
			Provider:             ProviderOpenAI,
			IgnoreInvalidOptions: true,
			AWSRegion:            defaultAWSRegion,
		},
		Audio: Audio{
			MinBytes: defaultMinAudioBytes,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
