package mealcompanion

import "time"

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=4096"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type AgentConfig struct {
	Gateway            string        `env:"GATEWAY,default=mock"`
	ProfilesPath       string        `env:"PROFILES_PATH,default=profiles"`
	ProfilesS3Bucket   string        `env:"PROFILES_S3_BUCKET"`
	ProfilesS3Prefix   string        `env:"PROFILES_S3_PREFIX,default=profiles/"`
	PacingDelay        time.Duration `env:"PACING_DELAY,default=30s"`
	BaseOllamaEndpoint string        `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	GoogleAPIKey       string        `env:"GOOGLE_API_KEY"`
	SlackWebhookURL    string        `env:"SLACK_WEBHOOK_URL"`
	SlackChannel       string        `env:"SLACK_CHANNEL,default=#groceries"`
	OtelEnabled        bool          `env:"OTEL_ENABLED,default=false"`
	DebugDump          bool          `env:"DEBUG_DUMP,default=false"`
}

// Gateways accepted by AgentConfig.Gateway.
const (
	GatewayBedrock = "bedrock"
	GatewayGemini  = "gemini"
	GatewayOllama  = "ollama"
	GatewayMock    = "mock"
)
