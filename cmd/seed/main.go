package main

import (
	"context"
	"log"

	"cloess-chatbot-be/internal/config"
	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/repository/unitofwork"
	"cloess-chatbot-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	count, err := uow.ProductRepository().Count(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to count products: %v", err)
	}
	if count > 0 {
		log.Printf("Catalog already has %d products, skipping...", count)
		return
	}

	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}
	defer uow.Rollback()

	for _, p := range catalog() {
		if err := uow.ProductRepository().Create(ctx, p); err != nil {
			log.Fatalf("Error creating product '%s': %v", p.Name, err)
		}
		log.Printf("Created product: %s (%.2f %s)", p.Name, p.Price, p.Currency)
	}

	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Failed to commit catalog: %v", err)
	}

	log.Println("Catalog seeding completed!")
}

func catalog() []*entity.Product {
	product := func(name, category, description string, price float64, stock int) *entity.Product {
		return &entity.Product{
			Name:          name,
			Price:         price,
			Currency:      "TND",
			Description:   description,
			Category:      category,
			StockQuantity: stock,
			IsActive:      true,
		}
	}

	return []*entity.Product{
		product("Carthagean Robe", "Traditional Clothing", "Hand-embroidered robe inspired by Carthaginian ceremonial dress. Worn for weddings and celebrations.", 320, 12),
		product("Tunisian Kaftan", "Traditional Clothing", "Silk kaftan with gold thread detailing, tailored in Sousse.", 280, 8),
		product("Fouta Towel", "Home Textiles", "Flat-woven cotton fouta, light and quick drying. Ideal for hammam and beach.", 45, 2),
		product("Berber Carpet", "Home Decor", "Hand-knotted wool carpet from the south with traditional Berber motifs.", 650, 4),
		product("Leather Bag", "Accessories", "Vegetable-tanned leather bag stitched by artisans in the Tunis medina.", 150, 15),
		product("Silver Jewelry Set", "Jewelry", "Necklace and earrings in engraved silver with the hand of Fatma pattern.", 210, 6),
		product("Olive Wood Bowl", "Home Decor", "Salad bowl carved from a single piece of Sfax olive wood.", 60, 20),
		product("Artisan Shawl", "Accessories", "Soft wool shawl woven on a traditional loom in Djerba.", 95, 10),
	}
}
