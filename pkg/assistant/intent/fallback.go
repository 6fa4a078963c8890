package intent

import (
	"strings"

	"cloess-chatbot-be/pkg/assistant/expansion"
	"cloess-chatbot-be/pkg/assistant/memory"
)

const (
	FallbackProductConfidence = 0.7
	FallbackGeneralConfidence = 0.8
)

type fallbackRule struct {
	Phrases     []string
	Info        InfoType
	DefaultTerm string
	// LookBack lets the rule borrow the product from recent turns when the
	// utterance names none ("is it good for weddings?").
	LookBack bool
}

// fallbackRules are evaluated in order; the first rule with a matching phrase wins.
var fallbackRules = []fallbackRule{
	{Phrases: []string{"stock", "available", "how many", "do you have"}, Info: InfoStock, LookBack: true},
	{Phrases: []string{"good for", "suitable for", "perfect for", "about this"}, Info: InfoDetails, LookBack: true},
	{Phrases: []string{"looking for", "need", "want", "show me", "find", "search"}, Info: InfoSearch, DefaultTerm: "products"},
}

// lookBackTurns bounds how far a rule reaches into history for a product.
const lookBackTurns = 3

// Fallback classifies with the ordered rule table. It is total.
func Fallback(utterance string, history []memory.Turn, vocabulary expansion.Vocabulary) Result {
	lower := strings.ToLower(utterance)

	for _, rule := range fallbackRules {
		if !containsAny(lower, rule.Phrases) {
			continue
		}

		term, ok := vocabulary.First(lower)
		if !ok && rule.LookBack {
			term, ok = recentProduct(history, vocabulary)
		}
		if !ok {
			term = rule.DefaultTerm
		}

		return Result{
			Kind: KindProductInfo,
			Params: map[string]string{
				ParamInfoType:      string(rule.Info),
				ParamProductSearch: term,
			},
			Confidence: FallbackProductConfidence,
			Source:     SourceFallback,
		}
	}

	return Result{
		Kind:       KindGeneral,
		Params:     map[string]string{ParamMessage: utterance},
		Confidence: FallbackGeneralConfidence,
		Source:     SourceFallback,
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// recentProduct returns the newest product mentioned in the last few turns.
func recentProduct(history []memory.Turn, vocabulary expansion.Vocabulary) (string, bool) {
	recent := memory.Recent(history, lookBackTurns)
	for i := len(recent) - 1; i >= 0; i-- {
		if term, ok := vocabulary.First(recent[i].Text); ok {
			return term, true
		}
	}
	return "", false
}
