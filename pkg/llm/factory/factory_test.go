package factory

import (
	"testing"

	"cloess-chatbot-be/pkg/llm"
	"cloess-chatbot-be/pkg/llm/anthropic"
	"cloess-chatbot-be/pkg/llm/ollama"
	"cloess-chatbot-be/pkg/llm/openai"
	"cloess-chatbot-be/pkg/llm/openrouter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		key      string
		want     llm.LLMProvider
	}{
		{"openrouter", "openrouter", "k", &openrouter.OpenRouterProvider{}},
		{"default is openrouter", "", "k", &openrouter.OpenRouterProvider{}},
		{"openrouter without key", "openrouter", "", llm.Disabled{}},
		{"openai", "openai", "k", &openai.OpenAIProvider{}},
		{"openai without key", "openai", "", llm.Disabled{}},
		{"anthropic", "anthropic", "k", &anthropic.AnthropicProvider{}},
		{"ollama needs no key", "ollama", "", &ollama.OllamaProvider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.provider, "model", "", tt.key)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}

func TestNewLLMProviderUnknown(t *testing.T) {
	_, err := NewLLMProvider("gemini", "m", "", "k")
	assert.Error(t, err)
}
