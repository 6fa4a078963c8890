package main

import (
	"log"

	"cloess-chatbot-be/internal/config"
	"cloess-chatbot-be/internal/model"
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

	log.Println("Running AutoMigrate for catalog and analytics tables...")

	models := []interface{}{
		&model.Product{},
		&model.VisitorSession{},
		&model.ProductInteraction{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Database migration completed")
}
