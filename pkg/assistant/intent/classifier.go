// Package intent turns a visitor utterance into a typed intent. A remote
// model is asked first; any failure drops to a deterministic rule table.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/pkg/assistant/expansion"
	"cloess-chatbot-be/pkg/assistant/memory"
	"cloess-chatbot-be/pkg/llm"
)

const (
	DefaultTimeout   = 10 * time.Second
	classifyTokens   = 150
	classifyTemp     = 0.1
	categoriesBudget = 5 * time.Second
)

const module = "IntentClassifier"

// CategorySource lists live catalog categories for the prompt.
type CategorySource interface {
	Categories(ctx context.Context) ([]string, error)
}

// Observer is notified of every classification; optional.
type Observer interface {
	ObserveClassification(source, reason string)
}

type Classifier struct {
	provider   llm.LLMProvider
	categories CategorySource
	log        logger.ILogger
	observer   Observer
	timeout    time.Duration
	model      string
}

type Option func(*Classifier)

func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithModel overrides the provider's default model for classification only.
func WithModel(model string) Option {
	return func(c *Classifier) { c.model = model }
}

func WithObserver(o Observer) Option {
	return func(c *Classifier) { c.observer = o }
}

func NewClassifier(provider llm.LLMProvider, categories CategorySource, log logger.ILogger, opts ...Option) *Classifier {
	c := &Classifier{
		provider:   provider,
		categories: categories,
		log:        log,
		timeout:    DefaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify never fails. history is the session memory and may already end
// with the current utterance.
func (c *Classifier) Classify(ctx context.Context, utterance string, history []memory.Turn) Result {
	prior := priorTurns(history, utterance)

	result, reason, err := c.classifyRemote(ctx, utterance, prior)
	if err == nil {
		c.observe(SourceRemote, "ok")
		return result
	}

	c.log.Warn(module, "Remote classification unavailable, using rules", map[string]interface{}{
		"reason": reason,
		"error":  err.Error(),
	})
	c.observe(SourceFallback, reason)
	return Fallback(utterance, prior, expansion.SearchVocabulary)
}

func (c *Classifier) classifyRemote(ctx context.Context, utterance string, history []memory.Turn) (Result, string, error) {
	if c.provider == nil {
		return Result{}, "not_configured", llm.ErrNotConfigured
	}

	prompt := buildPrompt(utterance, Summarize(history, expansion.DefaultVocabulary), c.loadCategories(ctx))

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.provider.Generate(callCtx, prompt,
		llm.WithTemperature(classifyTemp),
		llm.WithMaxTokens(classifyTokens),
		llm.WithModel(c.model),
	)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			return Result{}, "not_configured", err
		case errors.Is(err, context.DeadlineExceeded):
			return Result{}, "timeout", err
		default:
			return Result{}, "remote_error", err
		}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(extractJSON(response)), &payload); err != nil {
		return Result{}, "unparsable", fmt.Errorf("decode intent: %w", err)
	}

	result, err := Validate(payload)
	if err != nil {
		return Result{}, "invalid_shape", err
	}
	normalize(&result, utterance)

	c.log.Debug(module, "Intent resolved", map[string]interface{}{
		"kind":       result.Kind,
		"params":     result.Params,
		"confidence": result.Confidence,
	})
	return result, "", nil
}

func (c *Classifier) loadCategories(ctx context.Context) []string {
	if c.categories == nil {
		return FallbackCategories
	}
	catCtx, cancel := context.WithTimeout(ctx, categoriesBudget)
	defer cancel()

	categories, err := c.categories.Categories(catCtx)
	if err != nil || len(categories) == 0 {
		if err != nil {
			c.log.Warn(module, "Category lookup failed, using static list", map[string]interface{}{"error": err.Error()})
		}
		return FallbackCategories
	}
	return categories
}

func (c *Classifier) observe(source Source, reason string) {
	if c.observer != nil {
		c.observer.ObserveClassification(string(source), reason)
	}
}

// normalize fills parameters a remote model may omit.
func normalize(r *Result, utterance string) {
	switch r.Kind {
	case KindProductInfo:
		r.Params[ParamInfoType] = string(r.InfoType())
		r.Params[ParamProductSearch] = strings.TrimSpace(r.Params[ParamProductSearch])
	case KindGeneral:
		if r.Params[ParamMessage] == "" {
			r.Params[ParamMessage] = utterance
		}
	}
}

// priorTurns drops the trailing user turn when it is the utterance being
// classified, so the summary describes what came before it.
func priorTurns(history []memory.Turn, utterance string) []memory.Turn {
	n := len(history)
	if n > 0 && history[n-1].Role == memory.RoleUser && history[n-1].Text == utterance {
		return history[:n-1]
	}
	return history
}

// extractJSON trims prose or code fences models sometimes wrap around JSON.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
