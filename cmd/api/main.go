package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anunciosmz/marketplace-backend/api/routes"
	"github.com/anunciosmz/marketplace-backend/internal/boost"
	"github.com/anunciosmz/marketplace-backend/internal/config"
	"github.com/anunciosmz/marketplace-backend/internal/handlers"
	"github.com/anunciosmz/marketplace-backend/internal/repositories"
	mongorepo "github.com/anunciosmz/marketplace-backend/internal/repositories/mongodb"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/anunciosmz/marketplace-backend/pkg/mongodb"
	"github.com/anunciosmz/marketplace-backend/pkg/smsgateway"
	"github.com/anunciosmz/marketplace-backend/pkg/walletapi"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// The partial unique index on referenceCode is what makes concurrent
	// duplicate claims safe; refuse to start without it.
	if err := mongorepo.EnsurePaymentIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to ensure payment indexes: %v", err)
	}

	var paymentRepo repositories.PaymentRepository = mongorepo.NewPaymentRepository(db)
	var adRepo repositories.AdRepository = mongorepo.NewAdRepository(db)

	var notifier smsgateway.Gateway
	if cfg.SMS.Enabled {
		if cfg.SMS.Mock {
			notifier = smsgateway.NewMockGateway()
		} else {
			notifier = smsgateway.NewHTTPGateway(cfg.SMS.BaseURL, cfg.SMS.APIKey)
		}
	}

	var wallet services.WalletClient
	if cfg.Payment.TrustOnSubmit {
		wallet = walletapi.NewClient(cfg.Wallet.BaseURL, cfg.Wallet.APIKey, cfg.Wallet.Mock)
	}

	paymentService := services.NewPaymentService(paymentRepo, adRepo, cfg.Payment, notifier, wallet, nil)
	adService := services.NewAdService(adRepo, paymentRepo, nil)

	adHandler := handlers.NewAdHandler(adService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	boostHandler := handlers.NewBoostHandler(boost.NewManager(30*time.Minute), paymentService, cfg.Payment.Destinations)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer rdb.Close()
	}

	router := routes.SetupRouter(cfg, rdb, routes.HandlerDependencies{
		AdHandler:      adHandler,
		PaymentHandler: paymentHandler,
		BoostHandler:   boostHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
