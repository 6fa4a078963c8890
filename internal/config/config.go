package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Chat     ChatConfig
	Geo      GeoConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AnalyticsLogPath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MetricsNamespace   string
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string
}

type APIKeys struct {
	OpenRouter         string
	OpenAI             string
	Anthropic          string
	AnalyticsJWTSecret string
}

type AIConfig struct {
	LLMProvider       string // "openrouter", "openai", "anthropic", "ollama"
	LLMModel          string
	ClassifierModel   string
	OpenRouterBaseURL string
	OpenAIBaseURL     string
	OllamaBaseURL     string
	ClassifierTimeout time.Duration
	GeneratorTimeout  time.Duration
	GeneratorTokens   int
}

type ChatConfig struct {
	HistoryCap     int
	MemoryBackend  string // "memory" or "redis"
	MemoryTTL      time.Duration
	CatalogTimeout time.Duration
}

type GeoConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AnalyticsLogPath:   getEnv("ANALYTICS_LOG_FILE_PATH", "analytics.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MetricsNamespace:   getEnv("METRICS_NAMESPACE", "cloess"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		Keys: APIKeys{
			OpenRouter:         getEnv("OPENROUTER_API_KEY", ""),
			OpenAI:             getEnv("OPENAI_API_KEY", ""),
			Anthropic:          getEnv("ANTHROPIC_API_KEY", ""),
			AnalyticsJWTSecret: getEnv("ANALYTICS_JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openrouter"),
			LLMModel:          getEnv("LLM_MODEL", "mistralai/mistral-small-3.1-24b-instruct"),
			ClassifierModel:   getEnv("CLASSIFIER_MODEL", ""),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ClassifierTimeout: getEnvAsDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
			GeneratorTimeout:  getEnvAsDuration("GENERATOR_TIMEOUT", 30*time.Second),
			GeneratorTokens:   getEnvAsInt("GENERATOR_MAX_TOKENS", 300),
		},
		Chat: ChatConfig{
			HistoryCap:     getEnvAsInt("CHAT_HISTORY_CAP", 10),
			MemoryBackend:  getEnv("CHAT_MEMORY_BACKEND", "memory"),
			MemoryTTL:      getEnvAsDuration("CHAT_MEMORY_TTL", 24*time.Hour),
			CatalogTimeout: getEnvAsDuration("CATALOG_TIMEOUT", 5*time.Second),
		},
		Geo: GeoConfig{
			BaseURL:  getEnv("GEO_BASE_URL", "http://ip-api.com/json"),
			Timeout:  getEnvAsDuration("GEO_TIMEOUT", 5*time.Second),
			CacheTTL: getEnvAsDuration("GEO_CACHE_TTL", 24*time.Hour),
		},
	}
}

// LLMConfigured reports whether the selected provider has what it needs to
// make a remote call. Ollama runs locally and needs no key.
func (c *Config) LLMConfigured() bool {
	switch c.Ai.LLMProvider {
	case "openai":
		return c.Keys.OpenAI != ""
	case "anthropic":
		return c.Keys.Anthropic != ""
	case "ollama":
		return true
	default:
		return c.Keys.OpenRouter != ""
	}
}

// LLMBaseURL returns the endpoint override for the selected provider.
func (c *Config) LLMBaseURL() string {
	switch c.Ai.LLMProvider {
	case "openai":
		return c.Ai.OpenAIBaseURL
	case "anthropic":
		return ""
	case "ollama":
		return c.Ai.OllamaBaseURL
	default:
		return c.Ai.OpenRouterBaseURL
	}
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	switch c.Ai.LLMProvider {
	case "openai":
		return c.Keys.OpenAI
	case "anthropic":
		return c.Keys.Anthropic
	case "ollama":
		return ""
	default:
		return c.Keys.OpenRouter
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
