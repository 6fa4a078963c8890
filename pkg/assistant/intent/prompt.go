package intent

import (
	"fmt"
	"strings"

	"cloess-chatbot-be/pkg/assistant/expansion"
	"cloess-chatbot-be/pkg/assistant/memory"
)

// FallbackCategories stands in when the catalog cannot list its categories.
var FallbackCategories = []string{"Traditional Wear", "Home Decor", "Accessories", "Artisan Crafts"}

const summaryTurns = 3

// Summarize condenses recent history into a line for the classifier: products
// recently discussed and the last thing the visitor said.
func Summarize(history []memory.Turn, vocabulary expansion.Vocabulary) string {
	if len(history) == 0 {
		return "No previous conversation."
	}

	var products []string
	seen := make(map[string]bool)
	for _, turn := range memory.Recent(history, summaryTurns) {
		for _, p := range vocabulary.Find(turn.Text) {
			if !seen[p] {
				seen[p] = true
				products = append(products, p)
			}
		}
	}

	var sb strings.Builder
	if len(products) > 0 {
		sb.WriteString(fmt.Sprintf("Recently discussed products: %s. ", strings.Join(products, ", ")))
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == memory.RoleUser {
			sb.WriteString(fmt.Sprintf("Previous user message: '%s'", history[i].Text))
			break
		}
	}

	if sb.Len() == 0 {
		return "No relevant context."
	}
	return strings.TrimSpace(sb.String())
}

func buildPrompt(utterance, summary string, categories []string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an intent detection module for a Tunisian artisanat e-commerce chatbot.\n")
	prompt.WriteString("Given a user message and conversation context, determine the intent and extract relevant parameters.\n\n")

	prompt.WriteString("AVAILABLE INTENTS:\n")
	prompt.WriteString(fmt.Sprintf("1. \"%s\" - User wants product information (search, stock check, or details)\n", wireProductInfo))
	prompt.WriteString("   - info_type: \"search\" (looking for products), \"stock\" (checking availability), \"details\" (asking about specific product features)\n")
	prompt.WriteString("   - product_search: specific product name or general category\n\n")
	prompt.WriteString(fmt.Sprintf("2. \"%s\" - General chat, greetings, or questions not requiring database access\n", KindGeneral))
	prompt.WriteString("   - message: the original user message\n\n")

	prompt.WriteString("PRODUCT CATEGORIES WE SELL:\n")
	for _, c := range categories {
		prompt.WriteString(fmt.Sprintf("- %s\n", c))
	}
	prompt.WriteString("\n")

	prompt.WriteString(fmt.Sprintf("CONTEXT: %s\n", summary))
	prompt.WriteString(fmt.Sprintf("USER MESSAGE: \"%s\"\n\n", utterance))

	prompt.WriteString("Respond with ONLY a JSON object in this exact format:\n")
	prompt.WriteString("{\n  \"intent\": \"intent_name\",\n  \"params\": {\n    \"key\": \"value\"\n  },\n  \"confidence\": 0.0-1.0\n}\n\n")

	prompt.WriteString("Examples:\n")
	prompt.WriteString(fmt.Sprintf("- \"Do you have robes in stock?\" -> {\"intent\": \"%s\", \"params\": {\"product_search\": \"robe\", \"info_type\": \"stock\"}, \"confidence\": 0.9}\n", wireProductInfo))
	prompt.WriteString(fmt.Sprintf("- \"Is this good for weddings?\" (when carthagean robe was discussed) -> {\"intent\": \"%s\", \"params\": {\"product_search\": \"carthagean robe\", \"info_type\": \"details\"}, \"confidence\": 0.95}\n", wireProductInfo))
	prompt.WriteString(fmt.Sprintf("- \"Hello, how are you?\" -> {\"intent\": \"%s\", \"params\": {\"message\": \"Hello, how are you?\"}, \"confidence\": 0.9}", KindGeneral))

	return prompt.String()
}
