package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloess-chatbot-be/internal/constant"
	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/pkg/assistant/grounding"
	"cloess-chatbot-be/pkg/assistant/memory"
	"cloess-chatbot-be/pkg/assistant/orchestrator"
	"cloess-chatbot-be/pkg/events"
	"cloess-chatbot-be/pkg/llm"

	"github.com/google/uuid"
)

const chatModule = "ChatbotService"

// ChatOrchestrator is the subset of *orchestrator.Orchestrator the chat
// endpoint drives.
type ChatOrchestrator interface {
	Process(ctx context.Context, sessionID, utterance string) (*orchestrator.Outcome, error)
	Respond(ctx context.Context, sessionID, text string, greets bool) error
	History(ctx context.Context, sessionID string) ([]memory.Turn, error)
	Greeted(ctx context.Context, sessionID string) (bool, error)
}

// InventorySource feeds the persona prompt snapshot.
type InventorySource interface {
	Stats(ctx context.Context) (*entity.CatalogStats, error)
	Recent(ctx context.Context, limit int) ([]*entity.Product, error)
}

// GenerationObserver records generator latency and failures; optional.
type GenerationObserver interface {
	ObserveGeneration(provider string, elapsed time.Duration, err error)
}

type IChatbotService interface {
	SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, sessionId string) ([]*dto.ChatTurnResponse, error)
}

// ChatOptions tune the generator call.
type ChatOptions struct {
	Configured   bool
	ProviderName string
	Model        string
	MaxTokens    int
	Timeout      time.Duration
}

type chatbotService struct {
	orch           ChatOrchestrator
	llmProvider    llm.LLMProvider
	inventory      InventorySource
	eventPublisher EventPublisher
	observer       GenerationObserver
	logger         logger.ILogger
	opts           ChatOptions
}

func NewChatbotService(
	orch ChatOrchestrator,
	llmProvider llm.LLMProvider,
	inventory InventorySource,
	eventPublisher EventPublisher,
	observer GenerationObserver,
	log logger.ILogger,
	opts ChatOptions,
) IChatbotService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	return &chatbotService{
		orch:           orch,
		llmProvider:    llmProvider,
		inventory:      inventory,
		eventPublisher: eventPublisher,
		observer:       observer,
		logger:         log,
		opts:           opts,
	}
}

// NewSessionId mints an id in the session_<8 hex> shape.
func NewSessionId() string {
	return constant.ChatSessionPrefix + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func (s *chatbotService) SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = NewSessionId()
	}
	res := &dto.ChatResponse{SessionId: sessionId}

	if !s.opts.Configured {
		res.Response = constant.ChatReplyNotConfigured
		return res, nil
	}

	outcome, err := s.orch.Process(ctx, sessionId, request.Message)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.logger.Error(chatModule, "Turn processing failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		res.Response = constant.ChatReplyInternalError
		return res, nil
	}

	if outcome.Mode == orchestrator.ModeDirect {
		res.Response = outcome.Reply
		return res, nil
	}

	reply, err := s.generate(ctx, sessionId, request.Message, outcome)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error(chatModule, "Generator call failed", map[string]interface{}{
			"session_id": sessionId,
			"provider":   s.opts.ProviderName,
			"error":      err.Error(),
		})
		reply = constant.ChatReplyProviderError
		if err := s.orch.Respond(ctx, sessionId, reply, false); err != nil {
			return nil, err
		}
		res.Response = reply
		return res, nil
	}

	if err := s.orch.Respond(ctx, sessionId, reply, true); err != nil {
		return nil, err
	}
	s.publishTurn(ctx, sessionId, outcome)

	res.Response = reply
	return res, nil
}

func (s *chatbotService) generate(ctx context.Context, sessionId, utterance string, outcome *orchestrator.Outcome) (string, error) {
	history, err := s.orch.History(ctx, sessionId)
	if err != nil {
		return "", err
	}
	greeted, err := s.orch.Greeted(ctx, sessionId)
	if err != nil {
		return "", err
	}

	messages := BuildPersonaMessages(s.inventorySnapshot(ctx), history, greeted, outcome.Grounding, utterance)

	genCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.llmProvider.Chat(genCtx, messages,
		llm.WithModel(s.opts.Model),
		llm.WithTemperature(constant.ChatGeneratorTemperature),
		llm.WithMaxTokens(s.opts.MaxTokens),
	)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty generator reply")
	}
	if s.observer != nil {
		s.observer.ObserveGeneration(s.opts.ProviderName, time.Since(start), err)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// BuildPersonaMessages assembles the generator request: persona prompt,
// grounding block when present, then the visitor's message.
func BuildPersonaMessages(inventory string, history []memory.Turn, greeted bool, ctxBlock *grounding.Context, utterance string) []llm.Message {
	greeting := constant.ChatGreetingContinue
	if !greeted && memory.CountRole(history, memory.RoleUser) <= 1 {
		greeting = constant.ChatGreetingFirst
	}

	system := fmt.Sprintf(constant.ChatPersonaPromptV1, inventory, conversationContext(history), greeting)
	messages := []llm.Message{{Role: constant.ChatRoleSystem, Content: system}}
	if ctxBlock != nil {
		messages = append(messages, llm.Message{Role: constant.ChatRoleSystem, Content: ctxBlock.Text()})
	}
	return append(messages, llm.Message{Role: constant.ChatRoleUser, Content: utterance})
}

// conversationContext renders the turns before the current one, skipping
// grounding entries.
func conversationContext(history []memory.Turn) string {
	prior := make([]memory.Turn, 0, len(history))
	for _, t := range history {
		if t.Role != memory.RoleSystemContext {
			prior = append(prior, t)
		}
	}
	if n := len(prior); n > 0 && prior[n-1].Role == memory.RoleUser {
		prior = prior[:n-1]
	}
	prior = memory.Recent(prior, constant.ChatContextTurns)
	if len(prior) == 0 {
		return "No previous conversation."
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, t := range prior {
		label := "Assistant"
		if t.Role == memory.RoleUser {
			label = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, t.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *chatbotService) inventorySnapshot(ctx context.Context) string {
	if s.inventory == nil {
		return constant.ChatInventoryFallback
	}
	stats, err := s.inventory.Stats(ctx)
	if err != nil || stats == nil || stats.TotalProducts == 0 {
		return constant.ChatInventoryFallback
	}
	recent, err := s.inventory.Recent(ctx, constant.ChatInventoryRecents)
	if err != nil {
		recent = nil
	}
	return FormatInventory(stats, recent)
}

// FormatInventory summarises the catalog for the persona prompt.
func FormatInventory(stats *entity.CatalogStats, recent []*entity.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current inventory: %d products in %d categories, prices from %s to %s %s.",
		stats.TotalProducts, stats.TotalCategories,
		grounding.FormatPrice(stats.MinPrice), grounding.FormatPrice(stats.MaxPrice), grounding.DefaultCurrency)
	if len(recent) > 0 {
		b.WriteString("\nSome of our products:")
		for _, p := range recent {
			fmt.Fprintf(&b, "\n- %s: %s %s", p.Name, grounding.FormatPrice(p.Price), currencyOf(p))
			if p.Category != "" {
				fmt.Fprintf(&b, " (%s)", p.Category)
			}
		}
	}
	return b.String()
}

func currencyOf(p *entity.Product) string {
	if p.Currency == "" {
		return grounding.DefaultCurrency
	}
	return p.Currency
}

func (s *chatbotService) publishTurn(ctx context.Context, sessionId string, outcome *orchestrator.Outcome) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"session_id": sessionId,
		"intent":     string(outcome.Intent.Kind),
	}
	if outcome.Grounding != nil {
		data["context_kind"] = string(outcome.Grounding.Kind)
	}
	evt := events.BaseEvent{
		Type:       constant.EventChatTurnProcessed,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn(chatModule, "Failed to publish chat event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *chatbotService) History(ctx context.Context, sessionId string) ([]*dto.ChatTurnResponse, error) {
	turns, err := s.orch.History(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatTurnResponse, 0, len(turns))
	for _, t := range turns {
		if t.Role == memory.RoleSystemContext {
			continue
		}
		res = append(res, &dto.ChatTurnResponse{
			Role:      string(t.Role),
			Text:      t.Text,
			Timestamp: t.Timestamp,
		})
	}
	return res, nil
}
