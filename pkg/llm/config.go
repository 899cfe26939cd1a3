package llm

import (
	"mindloom/pkg/config"
)

const (
	defaultGatewayURL = "https://ai.gateway.lovable.dev/v1"
	defaultImageModel = "google/gemini-2.5-flash-image-preview"
	defaultTextModel  = "google/gemini-2.5-flash"
)

// Config selects the gateway endpoint and the models used per capability.
type Config struct {
	APIURL     string
	APIKey     string
	ImageModel string
	TextModel  string
}

// LoadConfig loads gateway configuration from AI_* env vars.
func LoadConfig() Config {
	return Config{
		APIURL:     config.GetEnv("AI_GATEWAY_URL", defaultGatewayURL),
		APIKey:     config.GetEnv("AI_GATEWAY_KEY", ""),
		ImageModel: config.GetEnv("AI_IMAGE_MODEL", defaultImageModel),
		TextModel:  config.GetEnv("AI_TEXT_MODEL", defaultTextModel),
	}
}
