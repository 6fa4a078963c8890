// Package orchestrator runs one visitor message through memory, intent
// classification, product resolution and grounding.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/pkg/assistant/grounding"
	"cloess-chatbot-be/pkg/assistant/intent"
	"cloess-chatbot-be/pkg/assistant/memory"
	"cloess-chatbot-be/pkg/assistant/resolver"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const module = "SessionOrchestrator"

const (
	Apology = "I'm having trouble accessing our product database right now. Please try again in a moment!"

	noStockTerm   = "No specific product mentioned for stock check."
	noDetailsTerm = "No specific product mentioned for details."
	askWhich      = "Could you tell me which product you have in mind? I'd be happy to check it for you."
)

// ErrNoDirectReply is returned by Direct when nothing can be rendered
// without a generator.
var ErrNoDirectReply = errors.New("no direct reply for this intent")

type Mode string

const (
	// ModeDefer hands the turn to the response generator.
	ModeDefer Mode = "defer"
	// ModeDirect means Reply is final.
	ModeDirect Mode = "direct"
)

type Outcome struct {
	Mode      Mode
	Intent    intent.Result
	Grounding *grounding.Context
	Items     []*entity.Product
	Reply     string
}

type IntentClassifier interface {
	Classify(ctx context.Context, utterance string, history []memory.Turn) intent.Result
}

type ProductResolver interface {
	Resolve(ctx context.Context, term string, mode resolver.Mode) ([]*entity.Product, error)
}

// StatsSource backs the catalog overview rendered for general chat in Direct.
type StatsSource interface {
	Stats(ctx context.Context) (*entity.CatalogStats, error)
}

// Observer is notified once per processed message.
type Observer interface {
	ObserveOutcome(mode, kind string, elapsed time.Duration)
}

type Orchestrator struct {
	memory     *memory.Memory
	classifier IntentClassifier
	resolver   ProductResolver
	formatter  grounding.Formatter
	stats      StatsSource
	observer   Observer
	log        logger.ILogger
	tracer     trace.Tracer
}

type Option func(*Orchestrator)

func WithStats(s StatsSource) Option {
	return func(o *Orchestrator) { o.stats = s }
}

func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

func WithFormatter(f grounding.Formatter) Option {
	return func(o *Orchestrator) { o.formatter = f }
}

func New(mem *memory.Memory, classifier IntentClassifier, res ProductResolver, log logger.ILogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		memory:     mem,
		classifier: classifier,
		resolver:   res,
		formatter:  grounding.NewFormatter(),
		log:        log,
		tracer:     otel.Tracer("cloess-chatbot-be/pkg/assistant/orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process records the utterance and decides how the turn is answered.
// Catalog failures and internal faults yield the apology as a direct reply.
// A cancelled ctx returns ctx.Err() and leaves only the user turn behind.
func (o *Orchestrator) Process(ctx context.Context, sessionID, utterance string) (*Outcome, error) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "orchestrator.Process", trace.WithAttributes(
		attribute.String("chat.session_id", sessionID),
	))
	defer span.End()

	if err := o.memory.Append(ctx, sessionID, memory.RoleUser, utterance); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append user turn")
		return nil, fmt.Errorf("append user turn: %w", err)
	}

	outcome, err := o.route(ctx, sessionID, utterance)

	// Once the grounding turn is stored the turn is committed and a late
	// cancellation no longer discards it.
	committed := err == nil && outcome != nil && outcome.Grounding != nil
	if ctxErr := ctx.Err(); ctxErr != nil && !committed {
		span.SetStatus(codes.Error, "cancelled")
		return nil, ctxErr
	}

	if err != nil {
		o.log.Error(module, "Turn processing failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "apology")

		if appendErr := o.memory.Append(ctx, sessionID, memory.RoleAgent, Apology); appendErr != nil {
			o.log.Warn(module, "Failed to record apology", map[string]interface{}{
				"session_id": sessionID,
				"error":      appendErr.Error(),
			})
		}
		if outcome == nil {
			outcome = &Outcome{}
		}
		outcome.Mode = ModeDirect
		outcome.Reply = Apology
		outcome.Grounding = nil
	}

	span.SetAttributes(
		attribute.String("chat.mode", string(outcome.Mode)),
		attribute.String("chat.intent", string(outcome.Intent.Kind)),
		attribute.String("chat.intent_source", string(outcome.Intent.Source)),
	)
	if o.observer != nil {
		o.observer.ObserveOutcome(string(outcome.Mode), string(outcome.Intent.Kind), time.Since(start))
	}
	return outcome, nil
}

// route performs classification through grounding. A panic is reported as an error.
func (o *Orchestrator) route(ctx context.Context, sessionID, utterance string) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	history, err := o.memory.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	result := o.classifier.Classify(ctx, utterance, history)
	outcome = &Outcome{Mode: ModeDefer, Intent: result}

	o.log.Debug(module, "Classified", map[string]interface{}{
		"session_id": sessionID,
		"intent":     result.Kind,
		"info_type":  result.Params[intent.ParamInfoType],
		"term":       result.ProductSearch(),
		"confidence": result.Confidence,
		"source":     result.Source,
	})

	if !result.IsProduct() {
		return outcome, nil
	}

	g, items, err := o.ground(ctx, result)
	if err != nil {
		return outcome, err
	}
	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	if err := o.memory.Append(context.WithoutCancel(ctx), sessionID, memory.RoleSystemContext, g.Text()); err != nil {
		return outcome, fmt.Errorf("append grounding: %w", err)
	}
	outcome.Grounding = &g
	outcome.Items = items
	return outcome, nil
}

func (o *Orchestrator) ground(ctx context.Context, result intent.Result) (grounding.Context, []*entity.Product, error) {
	term := result.ProductSearch()

	switch result.InfoType() {
	case intent.InfoStock:
		if term == "" {
			return grounding.BuildNone(noStockTerm), nil, nil
		}
		items, err := o.resolver.Resolve(ctx, term, resolver.ModeStock)
		if err != nil {
			return grounding.Context{}, nil, err
		}
		return grounding.Build(items, term, grounding.KindStock), items, nil

	case intent.InfoDetails:
		if term == "" {
			return grounding.BuildNone(noDetailsTerm), nil, nil
		}
		items, err := o.resolver.Resolve(ctx, term, resolver.ModeSearch)
		if err != nil {
			return grounding.Context{}, nil, err
		}
		return grounding.Build(items, term, grounding.KindDetails), items, nil

	default:
		items, err := o.resolver.Resolve(ctx, term, resolver.ModeSearch)
		if err != nil {
			return grounding.Context{}, nil, err
		}
		return grounding.Build(items, term, grounding.KindProductList), items, nil
	}
}
