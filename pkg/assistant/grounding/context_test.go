package grounding

import (
	"encoding/json"
	"strings"
	"testing"

	"cloess-chatbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, name string, stock int) *entity.Product {
	return &entity.Product{
		Id:            id,
		Name:          name,
		Price:         45,
		Currency:      "TND",
		Description:   name + " handmade in Tunisia",
		Category:      "Home Decor",
		StockQuantity: stock,
	}
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		qty  int
		want string
	}{
		{0, StatusOutOfStock},
		{-1, StatusOutOfStock},
		{1, StatusLimited},
		{3, StatusLimited},
		{5, StatusLimited},
		{6, StatusGood},
		{20, StatusGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatus(tt.qty), "qty %d", tt.qty)
	}
}

func TestBuildStockThresholds(t *testing.T) {
	items := []*entity.Product{
		product(1, "Berber Carpet", 0),
		product(2, "Olive Wood Bowl", 3),
		product(3, "Fouta Towel", 20),
	}

	c := Build(items, "home", KindStock)
	require.Len(t, c.Items, 3)
	assert.Equal(t, StatusOutOfStock, c.Items[0].Status)
	assert.Equal(t, StatusLimited, c.Items[1].Status)
	assert.Equal(t, StatusGood, c.Items[2].Status)

	text := c.Text()
	assert.Contains(t, text, "STOCK_CONTEXT: Stock information for 'home':")
	assert.Contains(t, text, "- **Berber Carpet**: 0 units in stock (Price: 45 TND)\n  Status: OUT OF STOCK")
	assert.Contains(t, text, "- **Olive Wood Bowl**: 3 units in stock (Price: 45 TND)\n  Status: LIMITED STOCK - recommend ordering soon")
	assert.Contains(t, text, "- **Fouta Towel**: 20 units in stock (Price: 45 TND)\n  Status: GOOD AVAILABILITY")
	assert.True(t, strings.HasSuffix(text, "USE_THIS_INFO: Use this stock information to provide accurate availability details."))
}

func TestBuildDirectMatchLimitedStock(t *testing.T) {
	c := Build([]*entity.Product{product(7, "Fouta Towel", 2)}, "fouta towel", KindStock)

	require.Len(t, c.Items, 1)
	assert.Equal(t, StatusLimited, c.Items[0].Status)
	assert.Contains(t, c.Text(), "LIMITED STOCK")
}

func TestBuildProductListCapsAtThree(t *testing.T) {
	items := []*entity.Product{
		product(1, "A", 1), product(2, "B", 1), product(3, "C", 1), product(4, "D", 1), product(5, "E", 1),
	}
	c := Build(items, "things", KindProductList)

	assert.Len(t, c.Items, MaxItems)
	assert.Equal(t, 2, c.RemainingCount)

	text := c.Text()
	assert.True(t, strings.HasPrefix(text, "PRODUCT_CONTEXT: Found 5 product(s) for 'things':"))
	assert.Contains(t, text, "\n1. **A**\n   - Price: 45 TND\n   - Stock: 1 units\n")
	assert.Contains(t, text, "(And 2 more products available)")
	assert.NotContains(t, text, "**D**")
}

func TestBuildEmptyNotices(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindProductList, "PRODUCT_CONTEXT: No products found for 'spaceship'. We have other traditional Tunisian items available."},
		{KindStock, "STOCK_CONTEXT: No stock information found for 'spaceship'. Product may not exist or be out of stock."},
		{KindDetails, "PRODUCT_DETAILS: No detailed information found for 'spaceship'."},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c := Build(nil, "spaceship", tt.kind)
			assert.True(t, c.Empty())
			text := c.Text()
			assert.True(t, strings.HasPrefix(text, tt.want), text)
			assert.Contains(t, text, "USE_THIS_INFO: ")
		})
	}
}

func TestBuildDetailsSuitability(t *testing.T) {
	robe := product(1, "Carthagean Robe", 4)
	robe.Category = ""
	c := Build([]*entity.Product{robe, product(2, "Silk Kaftan", 3)}, "robe", KindDetails)

	require.Len(t, c.Items, 1)
	assert.Zero(t, c.RemainingCount)
	require.Len(t, c.Suitability, 4)

	text := c.Text()
	assert.Contains(t, text, "PRODUCT_DETAILS: Detailed information for Carthagean Robe:")
	assert.Contains(t, text, "- Category: Traditional Wear")
	assert.Contains(t, text, "SUITABILITY_INFO:\n- PERFECT FOR: Weddings")
	assert.NotContains(t, text, "Silk Kaftan")

	kaftan := Build([]*entity.Product{product(2, "Silk Kaftan", 3)}, "kaftan", KindDetails)
	assert.Len(t, kaftan.Suitability, 3)

	towel := Build([]*entity.Product{product(3, "Fouta Towel", 3)}, "towel", KindDetails)
	assert.Empty(t, towel.Suitability)
	assert.NotContains(t, towel.Text(), "SUITABILITY_INFO")
}

func TestBuildNone(t *testing.T) {
	c := BuildNone("No specific product mentioned for stock check.")
	assert.Equal(t, KindNone, c.Kind)
	text := c.Text()
	assert.True(t, strings.HasPrefix(text, "No specific product mentioned for stock check."))
	assert.Contains(t, text, "USE_THIS_INFO: ")
}

func TestContextJSON(t *testing.T) {
	c := Build([]*entity.Product{product(1, "Fouta Towel", 9)}, "towel", KindProductList)
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "product_list", decoded["kind"])
	assert.Len(t, decoded["items"], 1)
	assert.NotContains(t, decoded, "remaining_count")
	assert.NotEmpty(t, decoded["directive"])
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "45", FormatPrice(45))
	assert.Equal(t, "45.50", FormatPrice(45.5))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestBuildDefaultsCurrency(t *testing.T) {
	p := product(1, "Bag", 1)
	p.Currency = ""
	c := Build([]*entity.Product{p}, "bag", KindProductList)
	assert.Equal(t, DefaultCurrency, c.Items[0].Currency)
}
