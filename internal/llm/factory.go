package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// NewProvider creates the configured provider. An empty provider name
// means the briefing is disabled and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the runtime configuration section into a
// provider Config.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = modelConfig.Provider
	cfg.Model = modelConfig.Model
	cfg.APIKey = modelConfig.APIKey
	cfg.BaseURL = modelConfig.BaseURL
	cfg.Grounded = modelConfig.Grounded
	if modelConfig.Timeout > 0 {
		cfg.Timeout = modelConfig.Timeout
	}
	return cfg
}
