package main

import (
	"context"
	"log"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/config"
	mongorepo "github.com/anunciosmz/marketplace-backend/internal/repositories/mongodb"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/anunciosmz/marketplace-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

// One-shot sweep that un-features ads whose boost window has lapsed.
// Run from cron; the API itself never expires ads.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB.Database)
	adService := services.NewAdService(mongorepo.NewAdRepository(db), mongorepo.NewPaymentRepository(db), nil)

	cleared, err := adService.ExpireFeatured(ctx)
	if err != nil {
		log.Fatalf("Failed to expire featured ads: %v", err)
	}

	log.Printf("Expired %d featured ads", cleared)
}
