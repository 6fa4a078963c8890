package intent

import (
	"encoding/json"
	"errors"
	"testing"

	"cloess-chatbot-be/pkg/assistant/expansion"
	"cloess-chatbot-be/pkg/assistant/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchVocabularyForTest() expansion.Vocabulary {
	return expansion.SearchVocabulary
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &payload))
	return payload
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ok      bool
	}{
		{"wire product intent", `{"intent":"get_product_info_for_llm","params":{"info_type":"stock"},"confidence":0.9}`, true},
		{"typed product intent", `{"intent":"product_info","params":{},"confidence":0}`, true},
		{"general", `{"intent":"general_conversation","params":{"message":"hi"},"confidence":1}`, true},
		{"unknown intent", `{"intent":"stock_check","params":{},"confidence":0.5}`, false},
		{"intent not string", `{"intent":3,"params":{},"confidence":0.5}`, false},
		{"no params", `{"intent":"general_conversation","confidence":0.5}`, false},
		{"null params", `{"intent":"general_conversation","params":null,"confidence":0.5}`, false},
		{"negative confidence", `{"intent":"general_conversation","params":{},"confidence":-0.1}`, false},
		{"bool confidence", `{"intent":"general_conversation","params":{},"confidence":true}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(decode(t, tt.payload))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidShape))
			}
		})
	}

	_, err := Validate(nil)
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestValidateStringifiesParams(t *testing.T) {
	r, err := Validate(decode(t, `{"intent":"product_info","params":{"product_search":"bag","limit":3,"exact":true,"none":null},"confidence":0.6}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"product_search": "bag", "limit": "3", "exact": "true", "none": ""}, r.Params)
	assert.Equal(t, KindProductInfo, r.Kind)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "No previous conversation.", Summarize(nil, expansion.DefaultVocabulary))
	assert.Equal(t, "No relevant context.", Summarize([]memory.Turn{{Role: memory.RoleAgent, Text: "hello"}}, expansion.DefaultVocabulary))

	history := []memory.Turn{
		{Role: memory.RoleUser, Text: "old rug question"},
		{Role: memory.RoleUser, Text: "towels?"},
		{Role: memory.RoleAgent, Text: "We have fouta towels and a silver bracelet"},
		{Role: memory.RoleUser, Text: "nice"},
	}
	got := Summarize(history, expansion.DefaultVocabulary)
	assert.Equal(t, "Recently discussed products: fouta towel, jewelry. Previous user message: 'nice'", got)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("noise {\"a\":1} trailing"))
	assert.Equal(t, "no braces", extractJSON("no braces"))
}
