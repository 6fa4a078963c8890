package grounding

import (
	"strings"
	"testing"

	"cloess-chatbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestProductsGreetsOnce(t *testing.T) {
	f := NewFormatter()
	items := []*entity.Product{product(1, "Fouta Towel", 9), product(2, "Berber Carpet", 3)}

	first := f.Products(items, false)
	assert.True(t, first.Greeted)
	assert.True(t, strings.HasPrefix(first.Text, DefaultGreeting+"Here are the 2 products I found for you:"))

	again := f.Products(items, true)
	assert.False(t, again.Greeted)
	assert.NotContains(t, again.Text, "Welcome")
}

func TestProductsShapes(t *testing.T) {
	f := NewFormatter()

	empty := f.Products(nil, false)
	assert.False(t, empty.Greeted)
	assert.Contains(t, empty.Text, "couldn't find any products")

	single := f.Products([]*entity.Product{product(1, "Fouta Towel", 9)}, false)
	assert.False(t, single.Greeted)
	assert.Equal(t, "I found exactly what you're looking for! We have the **Fouta Towel** for 45 TND. Fouta Towel handmade in Tunisia We currently have 9 in stock.", single.Text)

	many := f.Products([]*entity.Product{
		product(1, "A", 1), product(2, "B", 1), product(3, "C", 1), product(4, "D", 1),
	}, true)
	assert.Contains(t, many.Text, "I found 4 wonderful products for you! Here are the top 3:")
	assert.NotContains(t, many.Text, "**D**")
}

func TestProductsTruncatesDescription(t *testing.T) {
	a := product(1, "A", 1)
	a.Description = strings.Repeat("x", 120)
	text := NewFormatter().Products([]*entity.Product{a, product(2, "B", 1)}, true).Text
	assert.Contains(t, text, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, text, strings.Repeat("x", 101))
}

func TestStockReplies(t *testing.T) {
	f := NewFormatter()

	limited := f.Stock(product(1, "Fouta Towel", 2), nil, "fouta towels", true)
	assert.Contains(t, limited.Text, "only **2 remaining** in stock")

	plenty := f.Stock(product(1, "Fouta Towel", 12), nil, "fouta towels", true)
	assert.Contains(t, plenty.Text, "Good news! We have **12 Fouta Towel** in stock for 45 TND each.")

	out := f.Stock(product(1, "Fouta Towel", 0), []*entity.Product{
		product(2, "Large Striped Cotton Fouta Towel", 4),
	}, "towel", true)
	assert.Contains(t, out.Text, "out of stock for the **Fouta Towel**")
	assert.Contains(t, out.Text, "• **Large Striped Cotton Fouta Towel** - 45 TND (Stock: 4)")

	partial := f.Stock(nil, []*entity.Product{
		product(2, "Large Striped Cotton Fouta Towel", 4),
		product(3, "Extra Large Beach Fouta Towel", 0),
	}, "towel", true)
	assert.Contains(t, partial.Text, "(Only 4 left!)")
	assert.Contains(t, partial.Text, "(Out of Stock)")

	none := f.Stock(nil, nil, "towel", true)
	assert.Contains(t, none.Text, "I couldn't find any products matching 'towel'.")
}

func TestStockSuggestions(t *testing.T) {
	f := NewFormatter()
	assert.Contains(t, f.Stock(nil, nil, "towels", false).Text, "**fouta towels**")
	assert.Contains(t, f.Stock(nil, nil, "robe", false).Text, "**Carthagean Robe**")
	assert.Contains(t, f.Stock(nil, nil, "rugs", false).Text, "**traditional carpets**")
	assert.Contains(t, f.Stock(nil, nil, "bag", false).Text, "**traditional bags**")
	assert.Contains(t, f.Stock(nil, nil, "spaceship", false).Text, "suggest some similar items")
}

func TestDetailsReply(t *testing.T) {
	f := NewFormatter()

	robe := f.Details(product(1, "Carthagean Robe", 2)).Text
	assert.Contains(t, robe, "## **Carthagean Robe** ✨")
	assert.Contains(t, robe, "**Perfect for:**")
	assert.Contains(t, robe, "**Limited stock!** Only 2 left")

	towel := f.Details(product(2, "Fouta Towel", 0)).Text
	assert.NotContains(t, towel, "Perfect for")
	assert.Contains(t, towel, "Currently out of stock")
}

func TestStatsReply(t *testing.T) {
	stats := &entity.CatalogStats{
		TotalProducts:   8,
		TotalCategories: 2,
		MinPrice:        25,
		MaxPrice:        450,
		AvgPrice:        120.4,
		Categories: []entity.CategoryStats{
			{Category: "Traditional Wear", Count: 3, AvgPrice: 300},
			{Category: "Home Decor", Count: 5, AvgPrice: 60},
		},
	}

	r := NewFormatter().Stats(stats, false)
	assert.True(t, r.Greeted)
	assert.Contains(t, r.Text, "Welcome to CLOESS! Here's what we offer:")
	assert.Contains(t, r.Text, "**8 unique products** across 2 categories")
	assert.Contains(t, r.Text, "**Price range**: 25 - 450 TND")
	assert.Contains(t, r.Text, "• Home Decor (5 items, avg 60 TND)")

	assert.NotContains(t, NewFormatter().Stats(stats, true).Text, "Welcome")
}
