package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/model"
	"cloess-chatbot-be/internal/repository/specification"
	"cloess-chatbot-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB runs inside a transaction that is rolled back on cleanup.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.VisitorSession{}, &model.ProductInteraction{}))

	tx := db.Begin()
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func TestProductRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)

	towel := &entity.Product{Name: "Integration Fouta Towel", Price: 45, Category: "Integration Textiles", StockQuantity: 2, IsActive: true}
	robe := &entity.Product{Name: "Integration Robe", Price: 320, Description: "pairs with a fouta towel", Category: "Integration Clothing", StockQuantity: 5, IsActive: true}
	hidden := &entity.Product{Name: "Integration Fouta Hidden", Price: 10, Category: "Integration Textiles", IsActive: false}
	for _, p := range []*entity.Product{towel, robe, hidden} {
		require.NoError(t, repo.Create(ctx, p))
	}
	require.NotZero(t, towel.Id)
	assert.Equal(t, "TND", towel.Currency)

	found, err := repo.FindOne(ctx, specification.ByID{ID: towel.Id})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Integration Fouta Towel", found.Name)

	missing, err := repo.FindOne(ctx, specification.ByID{ID: -1})
	require.NoError(t, err)
	assert.Nil(t, missing)

	hits, err := repo.FindAll(ctx, specification.ActiveProducts{}, specification.ProductSearchQuery{Query: "fouta"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, towel.Id, hits[0].Id, "name matches rank before description matches")
	assert.Equal(t, robe.Id, hits[1].Id)

	lo, hi := 40.0, 50.0
	ranged, err := repo.FindByPriceRange(ctx, &lo, &hi, 50)
	require.NoError(t, err)
	for _, p := range ranged {
		assert.GreaterOrEqual(t, p.Price, lo)
		assert.LessOrEqual(t, p.Price, hi)
		assert.True(t, p.IsActive)
	}

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Contains(t, categories, "Integration Textiles")
	assert.Contains(t, categories, "Integration Clothing")
}

func TestVisitorRepositoriesIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	products := NewProductRepository(db)
	visitors := NewVisitorSessionRepository(db)
	interactions := NewProductInteractionRepository(db)

	product := &entity.Product{Name: "Integration Shawl", Price: 95, Category: "Integration Accessories", IsActive: true}
	require.NoError(t, products.Create(ctx, product))

	now := time.Now().UTC()
	visitor := &entity.VisitorSession{IPAddress: "203.0.113.77", Country: "Tunisia", City: "Tunis", FirstSeen: now, LastSeen: now, VisitCount: 1}
	require.NoError(t, visitors.Create(ctx, visitor))

	got, err := visitors.FindOne(ctx, specification.ByIPAddress{IP: "203.0.113.77"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tunis", got.City)

	got.VisitCount++
	require.NoError(t, visitors.Update(ctx, got))

	interaction := &entity.ProductInteraction{VisitorSessionId: got.Id, ProductId: product.Id}
	interaction.Record(entity.InteractionClick, 0, now)
	interaction.Record(entity.InteractionHover, 1500, now)
	require.NoError(t, interactions.Create(ctx, interaction))

	stored, err := interactions.FindOne(ctx, specification.ByVisitorAndProduct{VisitorSessionId: got.Id, ProductId: product.Id})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.TotalClicks)
	assert.Equal(t, int64(1500), stored.TotalHoverTimeMs)

	report, err := interactions.EngagementReport(ctx, &product.Id)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, product.Id, report[0].ProductId)

	countries, err := visitors.CountryReport(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, countries)
}
