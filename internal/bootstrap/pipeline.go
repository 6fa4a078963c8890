package bootstrap

import (
	"log"

	"cloess-chatbot-be/internal/config"
	"cloess-chatbot-be/internal/pkg/logger"
	memrepo "cloess-chatbot-be/internal/repository/memory"
	"cloess-chatbot-be/internal/repository/unitofwork"
	"cloess-chatbot-be/internal/service"
	"cloess-chatbot-be/pkg/assistant/intent"
	"cloess-chatbot-be/pkg/assistant/memory"
	"cloess-chatbot-be/pkg/assistant/orchestrator"
	"cloess-chatbot-be/pkg/assistant/resolver"
	"cloess-chatbot-be/pkg/llm"
	"cloess-chatbot-be/pkg/llm/factory"
	"cloess-chatbot-be/pkg/observability"

	"github.com/redis/go-redis/v9"
)

// ChatPipeline is the conversation stack shared by the server and the
// terminal client.
type ChatPipeline struct {
	Orchestrator *orchestrator.Orchestrator
	Chatbot      service.IChatbotService
	Catalog      *service.ProductCatalog
	Configured   bool
}

// NewChatPipeline builds memory, classifier, resolver and generator. rdb and
// eventPublisher may be nil.
func NewChatPipeline(
	uowFactory unitofwork.RepositoryFactory,
	cfg *config.Config,
	rdb *redis.Client,
	eventPublisher service.EventPublisher,
	metrics *observability.Metrics,
	sysLogger logger.ILogger,
) *ChatPipeline {
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.LLMBaseURL(),
		cfg.APIKey(),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	configured := cfg.LLMConfigured()
	if configured {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	} else {
		log.Printf("[WARN] LLM Provider %s has no credential; classification uses rules only", cfg.Ai.LLMProvider)
	}

	var store memory.Store
	if cfg.Chat.MemoryBackend == "redis" && rdb != nil {
		store = memrepo.NewRedisSessionRepository(rdb, cfg.Chat.MemoryTTL)
		log.Printf("[INFO] Chat memory: redis (ttl %s)", cfg.Chat.MemoryTTL)
	} else {
		store = memrepo.NewSessionRepository(cfg.Chat.MemoryTTL)
	}
	mem := memory.New(store, memory.WithCap(cfg.Chat.HistoryCap))

	catalog := service.NewProductCatalog(uowFactory, cfg.Chat.CatalogTimeout)

	var classifierProvider llm.LLMProvider
	if configured {
		classifierProvider = llmProvider
	}
	classifier := intent.NewClassifier(classifierProvider, catalog, sysLogger,
		intent.WithTimeout(cfg.Ai.ClassifierTimeout),
		intent.WithModel(cfg.Ai.ClassifierModel),
		intent.WithObserver(metrics),
	)

	orch := orchestrator.New(mem, classifier, resolver.New(catalog, nil, sysLogger), sysLogger,
		orchestrator.WithStats(catalog),
		orchestrator.WithObserver(metrics),
	)

	chatbot := service.NewChatbotService(orch, llmProvider, catalog, eventPublisher, metrics, sysLogger, service.ChatOptions{
		Configured:   configured,
		ProviderName: cfg.Ai.LLMProvider,
		Model:        cfg.Ai.LLMModel,
		MaxTokens:    cfg.Ai.GeneratorTokens,
		Timeout:      cfg.Ai.GeneratorTimeout,
	})

	return &ChatPipeline{
		Orchestrator: orch,
		Chatbot:      chatbot,
		Catalog:      catalog,
		Configured:   configured,
	}
}
