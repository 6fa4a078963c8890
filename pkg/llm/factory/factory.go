package factory

import (
	"fmt"

	"cloess-chatbot-be/pkg/llm"
	"cloess-chatbot-be/pkg/llm/anthropic"
	"cloess-chatbot-be/pkg/llm/ollama"
	"cloess-chatbot-be/pkg/llm/openai"
	"cloess-chatbot-be/pkg/llm/openrouter"
)

// NewLLMProvider builds the configured backend. A hosted provider without a
// key yields llm.Disabled so callers degrade instead of failing at startup.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openrouter", "":
		if apiKey == "" {
			return llm.Disabled{}, nil
		}
		return openrouter.NewOpenRouterProvider(apiKey, baseURL, modelName), nil
	case "openai":
		if apiKey == "" {
			return llm.Disabled{}, nil
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "anthropic":
		if apiKey == "" {
			return llm.Disabled{}, nil
		}
		return anthropic.NewAnthropicProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
