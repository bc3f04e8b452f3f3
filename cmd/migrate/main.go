package main

import (
	"log"
	"os"

	"media-courier-be/internal/model"
	"media-courier-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate All Models
	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Seed Plans (only on an empty table, so price edits survive re-runs)
	var planCount int64
	if err := db.Model(&model.Plan{}).Count(&planCount).Error; err != nil {
		log.Fatalf("Error: counting plans: %v", err)
	}
	if planCount == 0 {
		log.Println("Seeding default plans...")
		plans := []model.Plan{
			{Slug: "basic", Name: "Básico", PriceCents: 1000, PostsIncluded: 20},
			{Slug: "pro", Name: "Pro", PriceCents: 2500, PostsIncluded: 60},
			{Slug: "creator", Name: "Criador", PriceCents: 4500, PostsIncluded: 120},
		}
		if err := db.Create(&plans).Error; err != nil {
			log.Fatalf("Error: seeding plans: %v", err)
		}
	}

	log.Println("Migration completed successfully")
}
