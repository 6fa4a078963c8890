package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHAT_HISTORY_CAP", "")
	t.Setenv("CLASSIFIER_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, 10, cfg.Chat.HistoryCap)
	assert.Equal(t, 10*time.Second, cfg.Ai.ClassifierTimeout)
	assert.Equal(t, 5*time.Second, cfg.Geo.Timeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHAT_HISTORY_CAP", "4")
	t.Setenv("CLASSIFIER_TIMEOUT", "2s")
	t.Setenv("CHAT_MEMORY_BACKEND", "redis")

	cfg := Load()

	assert.Equal(t, 4, cfg.Chat.HistoryCap)
	assert.Equal(t, 2*time.Second, cfg.Ai.ClassifierTimeout)
	assert.Equal(t, "redis", cfg.Chat.MemoryBackend)
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("SOME_TIMEOUT", time.Minute))
}

func TestLLMConfigured(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		keys     APIKeys
		want     bool
	}{
		{"openrouter without key", "openrouter", APIKeys{}, false},
		{"openrouter with key", "openrouter", APIKeys{OpenRouter: "k"}, true},
		{"openai with key", "openai", APIKeys{OpenAI: "k"}, true},
		{"anthropic without key", "anthropic", APIKeys{OpenRouter: "k"}, false},
		{"ollama", "ollama", APIKeys{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Keys: tt.keys, Ai: AIConfig{LLMProvider: tt.provider}}
			assert.Equal(t, tt.want, cfg.LLMConfigured())
		})
	}
}

func TestLLMBaseURL(t *testing.T) {
	ai := AIConfig{OpenRouterBaseURL: "https://openrouter.ai/api/v1", OpenAIBaseURL: "https://proxy.local/v1", OllamaBaseURL: "http://localhost:11434"}

	for provider, want := range map[string]string{
		"openrouter": ai.OpenRouterBaseURL,
		"openai":     ai.OpenAIBaseURL,
		"ollama":     ai.OllamaBaseURL,
		"anthropic":  "",
	} {
		ai.LLMProvider = provider
		cfg := &Config{Ai: ai}
		assert.Equal(t, want, cfg.LLMBaseURL(), provider)
	}
}
