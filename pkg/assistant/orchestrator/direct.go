package orchestrator

import (
	"context"
	"fmt"

	"cloess-chatbot-be/pkg/assistant/grounding"
	"cloess-chatbot-be/pkg/assistant/intent"
	"cloess-chatbot-be/pkg/assistant/memory"
	"cloess-chatbot-be/pkg/assistant/resolver"
)

// Direct renders a customer-facing reply for outcome without a generator,
// records it as an agent turn and marks the session greeted when the reply
// greets. A direct outcome is returned unchanged.
func (o *Orchestrator) Direct(ctx context.Context, sessionID string, outcome *Outcome) (string, error) {
	if outcome.Mode == ModeDirect {
		return outcome.Reply, nil
	}

	greeted, err := o.memory.Greeted(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load greeted flag: %w", err)
	}

	reply, err := o.render(ctx, outcome, greeted)
	if err != nil {
		return "", err
	}

	if err := o.Respond(ctx, sessionID, reply.Text, reply.Greeted); err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (o *Orchestrator) render(ctx context.Context, outcome *Outcome, greeted bool) (grounding.Reply, error) {
	if !outcome.Intent.IsProduct() {
		if o.stats == nil {
			return grounding.Reply{}, ErrNoDirectReply
		}
		stats, err := o.stats.Stats(ctx)
		if err != nil {
			return grounding.Reply{}, fmt.Errorf("%w: %v", ErrNoDirectReply, err)
		}
		return o.formatter.Stats(stats, greeted), nil
	}

	term := outcome.Intent.ProductSearch()
	items := outcome.Items

	switch outcome.Intent.InfoType() {
	case intent.InfoStock:
		if term == "" {
			return grounding.Reply{Text: askWhich}, nil
		}
		best, partial := resolver.BestMatch(items, term)
		return o.formatter.Stock(best, partial, term, len(items) > 0), nil

	case intent.InfoDetails:
		if term == "" {
			return grounding.Reply{Text: askWhich}, nil
		}
		if len(items) == 0 {
			return o.formatter.Products(nil, greeted), nil
		}
		return o.formatter.Details(items[0]), nil

	default:
		return o.formatter.Products(items, greeted), nil
	}
}

// Respond records a final agent reply produced by any path. greets marks the
// session greeted.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, text string, greets bool) error {
	if err := o.memory.Append(ctx, sessionID, memory.RoleAgent, text); err != nil {
		return fmt.Errorf("append agent turn: %w", err)
	}
	if greets {
		if err := o.memory.MarkGreeted(ctx, sessionID); err != nil {
			return fmt.Errorf("mark greeted: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]memory.Turn, error) {
	return o.memory.History(ctx, sessionID)
}

func (o *Orchestrator) Greeted(ctx context.Context, sessionID string) (bool, error) {
	return o.memory.Greeted(ctx, sessionID)
}

func (o *Orchestrator) MarkGreeted(ctx context.Context, sessionID string) error {
	return o.memory.MarkGreeted(ctx, sessionID)
}
