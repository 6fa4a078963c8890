// Package grounding turns resolved catalog items into the context block
// handed to the response generator, and into direct customer-facing replies.
package grounding

import (
	"fmt"
	"strconv"
	"strings"

	"cloess-chatbot-be/internal/entity"
)

type Kind string

const (
	KindProductList Kind = "product_list"
	KindStock       Kind = "stock"
	KindDetails     Kind = "details"
	KindNone        Kind = "none"
)

const (
	StatusOutOfStock = "OUT OF STOCK"
	StatusLimited    = "LIMITED STOCK"
	StatusGood       = "GOOD AVAILABILITY"

	// LimitedStockMax is the highest quantity still reported as limited.
	LimitedStockMax = 5
	// MaxItems bounds how many items a context references.
	MaxItems = 3

	DefaultCurrency = "TND"
)

var directives = map[Kind]string{
	KindProductList: "Use this product information to provide a helpful, natural response about our available items.",
	KindStock:       "Use this stock information to provide accurate availability details.",
	KindDetails:     "Use this detailed information to answer questions about suitability, features, or characteristics.",
	KindNone:        "Ask the customer which product they have in mind instead of guessing.",
}

type Item struct {
	Id          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status,omitempty"`
}

type Context struct {
	Kind           Kind     `json:"kind"`
	Term           string   `json:"term,omitempty"`
	Items          []Item   `json:"items"`
	RemainingCount int      `json:"remaining_count,omitempty"`
	Note           string   `json:"note,omitempty"`
	Suitability    []string `json:"suitability,omitempty"`
	Directive      string   `json:"directive"`
}

// StockStatus labels a stock quantity.
func StockStatus(quantity int) string {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= LimitedStockMax:
		return StatusLimited
	default:
		return StatusGood
	}
}

// Build assembles the grounding context for items resolved from term.
// Details keeps only the first item. Build never fails.
func Build(items []*entity.Product, term string, kind Kind) Context {
	c := Context{Kind: kind, Term: term, Items: []Item{}, Directive: directives[kind]}

	limit := MaxItems
	if kind == KindDetails {
		limit = 1
	}

	for _, p := range items {
		if p == nil {
			continue
		}
		if len(c.Items) == limit {
			c.RemainingCount++
			continue
		}
		item := toItem(p)
		if kind == KindStock {
			item.Status = StockStatus(item.Stock)
		}
		c.Items = append(c.Items, item)
	}

	if kind == KindDetails {
		// Only the best match matters.
		c.RemainingCount = 0
		if len(c.Items) > 0 {
			c.Suitability = suitability(c.Items[0].Name)
		}
	}

	if len(c.Items) == 0 {
		c.Note = emptyNote(kind, term)
	}
	return c
}

// BuildNone is used for product intents that named no product.
func BuildNone(note string) Context {
	return Context{Kind: KindNone, Items: []Item{}, Note: note, Directive: directives[KindNone]}
}

func toItem(p *entity.Product) Item {
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return Item{
		Id:          p.Id,
		Name:        p.Name,
		Price:       p.Price,
		Currency:    currency,
		Stock:       p.StockQuantity,
		Description: p.Description,
		Category:    p.Category,
	}
}

func emptyNote(kind Kind, term string) string {
	switch kind {
	case KindStock:
		return fmt.Sprintf("No stock information found for '%s'. Product may not exist or be out of stock.", term)
	case KindDetails:
		return fmt.Sprintf("No detailed information found for '%s'.", term)
	default:
		return fmt.Sprintf("No products found for '%s'. We have other traditional Tunisian items available.", term)
	}
}

func suitability(name string) []string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "robe") || strings.Contains(lower, "carthagean"):
		return []string{
			"PERFECT FOR: Weddings, formal events, special occasions, cultural celebrations",
			"STYLE: Traditional formal wear with intricate embroidery",
			"OCCASION_LEVEL: Very formal and elegant",
			"CULTURAL_SIGNIFICANCE: Traditional Tunisian formal attire",
		}
	case strings.Contains(lower, "kaftan"):
		return []string{
			"PERFECT FOR: Both formal and casual occasions, very versatile",
			"STYLE: Comfortable yet elegant flowing design",
			"OCCASION_LEVEL: Can be dressed up or down",
		}
	}
	return nil
}

// Empty reports whether the context references no items.
func (c Context) Empty() bool {
	return len(c.Items) == 0
}

// Text renders the context in the tagged form the generator is prompted with.
func (c Context) Text() string {
	var b strings.Builder

	switch c.Kind {
	case KindProductList:
		if c.Empty() {
			b.WriteString("PRODUCT_CONTEXT: " + c.Note + "\n")
			break
		}
		fmt.Fprintf(&b, "PRODUCT_CONTEXT: Found %d product(s) for '%s':\n", len(c.Items)+c.RemainingCount, c.Term)
		for i, item := range c.Items {
			fmt.Fprintf(&b, "\n%d. **%s**\n", i+1, item.Name)
			fmt.Fprintf(&b, "   - Price: %s %s\n", FormatPrice(item.Price), item.Currency)
			fmt.Fprintf(&b, "   - Stock: %d units\n", item.Stock)
			fmt.Fprintf(&b, "   - Description: %s\n", orDefault(item.Description, "No description"))
			fmt.Fprintf(&b, "   - Category: %s\n", orDefault(item.Category, "Uncategorized"))
		}
		if c.RemainingCount > 0 {
			fmt.Fprintf(&b, "\n(And %d more products available)\n", c.RemainingCount)
		}

	case KindStock:
		if c.Empty() {
			b.WriteString("STOCK_CONTEXT: " + c.Note + "\n")
			break
		}
		fmt.Fprintf(&b, "STOCK_CONTEXT: Stock information for '%s':\n", c.Term)
		for _, item := range c.Items {
			fmt.Fprintf(&b, "\n- **%s**: %d units in stock (Price: %s %s)\n", item.Name, item.Stock, FormatPrice(item.Price), item.Currency)
			status := item.Status
			if status == "" {
				status = StockStatus(item.Stock)
			}
			switch status {
			case StatusLimited:
				b.WriteString("  Status: LIMITED STOCK - recommend ordering soon\n")
			default:
				b.WriteString("  Status: " + status + "\n")
			}
		}

	case KindDetails:
		if c.Empty() {
			b.WriteString("PRODUCT_DETAILS: " + c.Note + "\n")
			break
		}
		item := c.Items[0]
		fmt.Fprintf(&b, "PRODUCT_DETAILS: Detailed information for %s:\n", item.Name)
		fmt.Fprintf(&b, "- Price: %s %s\n", FormatPrice(item.Price), item.Currency)
		fmt.Fprintf(&b, "- Stock: %d units available\n", item.Stock)
		fmt.Fprintf(&b, "- Category: %s\n", orDefault(item.Category, "Traditional Wear"))
		fmt.Fprintf(&b, "- Description: %s\n", orDefault(item.Description, "Traditional Tunisian artisanat piece"))
		if len(c.Suitability) > 0 {
			b.WriteString("\nSUITABILITY_INFO:\n")
			for _, line := range c.Suitability {
				b.WriteString("- " + line + "\n")
			}
		}

	default:
		b.WriteString(c.Note + "\n")
	}

	b.WriteString("\nUSE_THIS_INFO: " + c.Directive)
	return b.String()
}

// FormatPrice drops a zero fraction: 45 -> "45", 45.5 -> "45.50".
func FormatPrice(price float64) string {
	if price == float64(int64(price)) {
		return strconv.FormatInt(int64(price), 10)
	}
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
