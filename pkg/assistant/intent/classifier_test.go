package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/pkg/assistant/memory"
	"cloess-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply   string
	err     error
	delay   time.Duration
	prompts []string
	opts    llm.Options
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, history[len(history)-1].Content, options...)
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.opts = llm.Apply(llm.Options{}, options...)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

type stubCategories struct {
	list []string
	err  error
}

func (s stubCategories) Categories(context.Context) ([]string, error) {
	return s.list, s.err
}

type recordingObserver struct {
	sources []string
	reasons []string
}

func (r *recordingObserver) ObserveClassification(source, reason string) {
	r.sources = append(r.sources, source)
	r.reasons = append(r.reasons, reason)
}

func newTestClassifier(p llm.LLMProvider, opts ...Option) *Classifier {
	return NewClassifier(p, stubCategories{list: []string{"Traditional Wear"}}, logger.NewNopLogger(), opts...)
}

func assertWellFormed(t *testing.T, r Result) {
	t.Helper()
	assert.Contains(t, []Kind{KindProductInfo, KindGeneral}, r.Kind)
	assert.GreaterOrEqual(t, r.Confidence, 0.0)
	assert.LessOrEqual(t, r.Confidence, 1.0)
	assert.NotNil(t, r.Params)
}

func TestClassifyFallbackIsTotal(t *testing.T) {
	providers := map[string]llm.LLMProvider{
		"network error":    &stubProvider{err: errors.New("connection refused")},
		"not configured":   llm.Disabled{},
		"nil provider":     nil,
		"garbage":          &stubProvider{reply: "I think the user wants a robe"},
		"unknown intent":   &stubProvider{reply: `{"intent":"buy_now","params":{},"confidence":0.9}`},
		"confidence range": &stubProvider{reply: `{"intent":"general_conversation","params":{},"confidence":1.4}`},
		"string conf":      &stubProvider{reply: `{"intent":"general_conversation","params":{},"confidence":"0.9"}`},
		"params not map":   &stubProvider{reply: `{"intent":"general_conversation","params":["x"],"confidence":0.9}`},
		"missing keys":     &stubProvider{reply: `{"intent":"general_conversation"}`},
		"json array":       &stubProvider{reply: `[1,2,3]`},
	}
	utterances := []string{"", "hello", "do you have fouta towels in stock", "show me some bags", "   ", "¿qué?"}

	for name, p := range providers {
		for _, u := range utterances {
			t.Run(name+"/"+u, func(t *testing.T) {
				r := newTestClassifier(p).Classify(context.Background(), u, nil)
				assertWellFormed(t, r)
				assert.Equal(t, SourceFallback, r.Source)
			})
		}
	}
}

func TestClassifyTimeoutFallsBack(t *testing.T) {
	p := &stubProvider{reply: `{"intent":"general_conversation","params":{},"confidence":0.9}`, delay: time.Second}
	obs := &recordingObserver{}
	c := newTestClassifier(p, WithTimeout(20*time.Millisecond), WithObserver(obs))

	start := time.Now()
	r := c.Classify(context.Background(), "show me some bags", nil)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, SourceFallback, r.Source)
	assert.Equal(t, []string{"timeout"}, obs.reasons)
}

func TestClassifyOutageScenario(t *testing.T) {
	c := newTestClassifier(&stubProvider{err: errors.New("503")})

	r := c.Classify(context.Background(), "show me some bags", nil)

	assert.Equal(t, KindProductInfo, r.Kind)
	assert.Equal(t, InfoSearch, r.InfoType())
	assert.Equal(t, "bag", r.ProductSearch())
	assert.Equal(t, 0.7, r.Confidence)
}

func TestClassifyRemoteSuccess(t *testing.T) {
	p := &stubProvider{reply: "Sure! ```json\n{\"intent\": \"get_product_info_for_llm\", \"params\": {\"product_search\": \" fouta towel \", \"info_type\": \"stock\"}, \"confidence\": 0.92}\n```"}
	obs := &recordingObserver{}
	c := newTestClassifier(p, WithModel("classifier-model"), WithObserver(obs))

	r := c.Classify(context.Background(), "do you have fouta towels in stock", nil)

	assert.Equal(t, KindProductInfo, r.Kind)
	assert.Equal(t, InfoStock, r.InfoType())
	assert.Equal(t, "fouta towel", r.ProductSearch())
	assert.Equal(t, 0.92, r.Confidence)
	assert.Equal(t, SourceRemote, r.Source)

	assert.Equal(t, 0.1, p.opts.Temperature)
	assert.Equal(t, 150, p.opts.MaxTokens)
	assert.Equal(t, "classifier-model", p.opts.Model)
	assert.Equal(t, []string{"remote"}, obs.sources)
}

func TestClassifyRemoteDefaultsMissingParams(t *testing.T) {
	p := &stubProvider{reply: `{"intent":"general_conversation","params":{},"confidence":0.9}`}
	r := newTestClassifier(p).Classify(context.Background(), "hi there", nil)
	assert.Equal(t, "hi there", r.Params[ParamMessage])

	p = &stubProvider{reply: `{"intent":"product_info","params":{"product_search":"kaftan"},"confidence":0.8}`}
	r = newTestClassifier(p).Classify(context.Background(), "kaftans?", nil)
	assert.Equal(t, InfoSearch, r.InfoType())
	assert.Equal(t, "search", r.Params[ParamInfoType])
}

func TestClassifyPromptCarriesContext(t *testing.T) {
	p := &stubProvider{reply: `{"intent":"general_conversation","params":{},"confidence":0.9}`}
	c := NewClassifier(p, stubCategories{err: errors.New("db down")}, logger.NewNopLogger())

	history := []memory.Turn{
		{Role: memory.RoleUser, Text: "tell me about the carthagean robe"},
		{Role: memory.RoleAgent, Text: "It is lovely."},
		{Role: memory.RoleUser, Text: "is it good for weddings?"},
	}
	c.Classify(context.Background(), "is it good for weddings?", history)

	require.Len(t, p.prompts, 1)
	prompt := p.prompts[0]
	assert.Contains(t, prompt, "- Artisan Crafts")
	assert.Contains(t, prompt, "Recently discussed products: carthagean robe.")
	assert.Contains(t, prompt, "Previous user message: 'tell me about the carthagean robe'")
	assert.Contains(t, prompt, `USER MESSAGE: "is it good for weddings?"`)
}

func TestFallbackRules(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		history   []memory.Turn
		kind      Kind
		info      InfoType
		term      string
	}{
		{"stock with product", "Do you have fouta towels in stock?", nil, KindProductInfo, InfoStock, "fouta towel"},
		{"stock without product", "how many are left?", nil, KindProductInfo, InfoStock, ""},
		{"stock borrows from history", "is it available?", []memory.Turn{{Role: memory.RoleUser, Text: "I like the kaftan"}}, KindProductInfo, InfoStock, "kaftan"},
		{"stock beats search", "I want to know if it is in stock", nil, KindProductInfo, InfoStock, ""},
		{"details look back", "is it good for weddings?", []memory.Turn{{Role: memory.RoleUser, Text: "show me the robe"}}, KindProductInfo, InfoDetails, "robe"},
		{"details without history", "is this suitable for a gift?", nil, KindProductInfo, InfoDetails, ""},
		{"search generic", "I'm looking for something nice", nil, KindProductInfo, InfoSearch, "products"},
		{"search ignores history", "find me something", []memory.Turn{{Role: memory.RoleUser, Text: "robe"}}, KindProductInfo, InfoSearch, "products"},
		{"general", "Hello, how are you?", nil, KindGeneral, "", ""},
		{"empty", "", nil, KindGeneral, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Fallback(tt.utterance, tt.history, searchVocabularyForTest())
			assert.Equal(t, tt.kind, r.Kind)
			if tt.kind == KindProductInfo {
				assert.Equal(t, tt.info, r.InfoType())
				assert.Equal(t, tt.term, r.ProductSearch())
				assert.Equal(t, FallbackProductConfidence, r.Confidence)
			} else {
				assert.Equal(t, tt.utterance, r.Params[ParamMessage])
				assert.Equal(t, FallbackGeneralConfidence, r.Confidence)
			}
		})
	}
}

func TestPriorTurns(t *testing.T) {
	history := []memory.Turn{{Role: memory.RoleUser, Text: "a"}, {Role: memory.RoleUser, Text: "b"}}
	assert.Len(t, priorTurns(history, "b"), 1)
	assert.Len(t, priorTurns(history, "c"), 2)
	assert.Empty(t, priorTurns(nil, "c"))
}
