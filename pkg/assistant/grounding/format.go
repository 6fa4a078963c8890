package grounding

import (
	"fmt"
	"strings"

	"cloess-chatbot-be/internal/entity"
)

const DefaultGreeting = "Welcome to CLOESS! "

// Reply is a rendered customer-facing answer. Greeted is true when the text
// carries the session greeting, so the caller can mark the session.
type Reply struct {
	Text    string
	Greeted bool
}

// Formatter renders direct answers without a downstream generator.
type Formatter struct {
	Greeting string
}

func NewFormatter() Formatter {
	return Formatter{Greeting: DefaultGreeting}
}

func (f Formatter) greet(greeted bool) (string, bool) {
	if greeted || f.Greeting == "" {
		return "", false
	}
	return f.Greeting, true
}

// Products lists search results. A single hit is described in full and never
// greets.
func (f Formatter) Products(items []*entity.Product, greeted bool) Reply {
	if len(items) == 0 {
		return Reply{Text: "I'm sorry, I couldn't find any products matching your request. Would you like me to show you our full collection instead?"}
	}

	if len(items) == 1 {
		p := toItem(items[0])
		return Reply{Text: fmt.Sprintf(
			"I found exactly what you're looking for! We have the **%s** for %s %s. %s We currently have %d in stock.",
			p.Name, FormatPrice(p.Price), p.Currency, p.Description, p.Stock,
		)}
	}

	greeting, didGreet := f.greet(greeted)
	var b strings.Builder

	if len(items) <= MaxItems {
		fmt.Fprintf(&b, "%sHere are the %d products I found for you:\n\n", greeting, len(items))
		for _, raw := range items {
			p := toItem(raw)
			fmt.Fprintf(&b, "• **%s** - %s %s\n", p.Name, FormatPrice(p.Price), p.Currency)
			fmt.Fprintf(&b, "  %s\n\n", truncate(p.Description, 100))
		}
	} else {
		fmt.Fprintf(&b, "%sI found %d wonderful products for you! Here are the top %d:\n\n", greeting, len(items), MaxItems)
		for _, raw := range items[:MaxItems] {
			p := toItem(raw)
			fmt.Fprintf(&b, "• **%s** - %s %s\n", p.Name, FormatPrice(p.Price), p.Currency)
		}
		b.WriteString("\nWould you like me to show you more options or help you narrow down your search?")
	}

	return Reply{Text: b.String(), Greeted: didGreet}
}

// suggestions point an empty stock answer at the closest product family.
var suggestions = []struct {
	triggers []string
	text     string
}{
	{[]string{"fouta", "towel"}, " Did you mean to ask about our **fouta towels**? They're one of our most popular traditional Tunisian items!"},
	{[]string{"robe"}, " Did you mean to ask about our **Carthagean Robe** or **Tunisian Kaftan**? Both are beautiful traditional robes!"},
	{[]string{"carpet", "rug"}, " Did you mean to ask about our **traditional carpets**?"},
	{[]string{"bag"}, " Did you mean to ask about our **traditional bags**?"},
}

// Stock answers an availability question about term. best and partial come
// from resolver.BestMatch.
func (f Formatter) Stock(best *entity.Product, partial []*entity.Product, term string, anyItems bool) Reply {
	if !anyItems {
		text := fmt.Sprintf("I'm sorry, but we don't currently have any '%s' in stock.", term)
		lower := strings.ToLower(term)
		suggestion := " Would you like me to suggest some similar items or show you our available products?"
	search:
		for _, s := range suggestions {
			for _, t := range s.triggers {
				if strings.Contains(lower, t) {
					suggestion = s.text
					break search
				}
			}
		}
		return Reply{Text: text + suggestion}
	}

	if best != nil {
		p := toItem(best)
		switch StockStatus(p.Stock) {
		case StatusOutOfStock:
			var b strings.Builder
			fmt.Fprintf(&b, "I'm sorry, but we're currently out of stock for the **%s**. ", p.Name)
			if len(partial) > 0 {
				b.WriteString("However, you might be interested in these similar items:\n\n")
				for _, raw := range partial[:min(2, len(partial))] {
					alt := toItem(raw)
					fmt.Fprintf(&b, "• **%s** - %s %s (Stock: %d)\n", alt.Name, FormatPrice(alt.Price), alt.Currency, alt.Stock)
				}
			} else {
				b.WriteString("Would you like me to show you our other available products?")
			}
			return Reply{Text: b.String()}
		case StatusLimited:
			return Reply{Text: fmt.Sprintf(
				"We have the **%s** for %s %s, but not many left - only **%d remaining** in stock! I'd recommend ordering soon if you're interested. 😊",
				p.Name, FormatPrice(p.Price), p.Currency, p.Stock,
			)}
		default:
			return Reply{Text: fmt.Sprintf(
				"Good news! We have **%d %s** in stock for %s %s each. Plenty available for your order! 🎉",
				p.Stock, p.Name, FormatPrice(p.Price), p.Currency,
			)}
		}
	}

	if len(partial) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "I found these products related to '%s':\n\n", term)
		for _, raw := range partial[:min(MaxItems, len(partial))] {
			p := toItem(raw)
			label := "In Stock"
			switch StockStatus(p.Stock) {
			case StatusOutOfStock:
				label = "Out of Stock"
			case StatusLimited:
				label = fmt.Sprintf("Only %d left!", p.Stock)
			}
			fmt.Fprintf(&b, "• **%s** - %s %s (%s)\n", p.Name, FormatPrice(p.Price), p.Currency, label)
		}
		return Reply{Text: b.String()}
	}

	return Reply{Text: fmt.Sprintf("I couldn't find any products matching '%s'. Would you like me to show you our full collection instead?", term)}
}

// Details describes a single product.
func (f Formatter) Details(product *entity.Product) Reply {
	p := toItem(product)
	var b strings.Builder

	fmt.Fprintf(&b, "## **%s** ✨\n", p.Name)
	fmt.Fprintf(&b, "💰 **Price:** %s %s\n", FormatPrice(p.Price), p.Currency)
	fmt.Fprintf(&b, "📦 **Stock:** %d units available\n", p.Stock)
	if p.Category != "" {
		fmt.Fprintf(&b, "🏷️ **Category:** %s\n", p.Category)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n📝 **Description:**\n%s\n", p.Description)
	}

	lower := strings.ToLower(p.Name)
	if strings.Contains(lower, "robe") || strings.Contains(lower, "kaftan") {
		b.WriteString("\n✨ **Perfect for:**\n")
		b.WriteString("• Special occasions and celebrations\n")
		b.WriteString("• Traditional Tunisian events\n")
		b.WriteString("• Elegant evening wear\n")
		b.WriteString("• Cultural appreciation\n")
		b.WriteString("\n🎨 **Craftsmanship:**\n")
		b.WriteString("• Handcrafted by skilled Tunisian artisans\n")
		b.WriteString("• Traditional embroidery techniques\n")
		b.WriteString("• Authentic Tunisian heritage\n")
		b.WriteString("• High-quality materials and attention to detail\n")
	}

	switch StockStatus(p.Stock) {
	case StatusOutOfStock:
		b.WriteString("\n❌ **Currently out of stock** - but we're expecting new inventory soon!")
	case StatusLimited:
		fmt.Fprintf(&b, "\n⚠️ **Limited stock!** Only %d left - order soon!", p.Stock)
		fmt.Fprintf(&b, "\n💝 Would you like to know more about sizing, shipping, or have any other questions about the **%s**?", p.Name)
	default:
		b.WriteString("\n✅ **In stock and ready to ship!**")
		fmt.Fprintf(&b, "\n💝 Would you like to know more about sizing, shipping, or have any other questions about the **%s**?", p.Name)
	}

	return Reply{Text: b.String()}
}

// Stats summarises the catalog.
func (f Formatter) Stats(stats *entity.CatalogStats, greeted bool) Reply {
	greeting, didGreet := f.greet(greeted)
	var b strings.Builder

	fmt.Fprintf(&b, "%sHere's what we offer:\n\n", greeting)
	fmt.Fprintf(&b, "📦 **%d unique products** across %d categories\n", stats.TotalProducts, stats.TotalCategories)
	fmt.Fprintf(&b, "💰 **Price range**: %.0f - %.0f %s\n", stats.MinPrice, stats.MaxPrice, DefaultCurrency)
	fmt.Fprintf(&b, "📊 **Average price**: %.0f %s\n\n", stats.AvgPrice, DefaultCurrency)
	b.WriteString("**Our categories:**\n")
	for _, c := range stats.Categories {
		fmt.Fprintf(&b, "• %s (%d items, avg %.0f %s)\n", c.Category, c.Count, c.AvgPrice, DefaultCurrency)
	}
	b.WriteString("\nWhat specific type of Tunisian artisanat interests you today?")

	return Reply{Text: b.String(), Greeted: didGreet}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
