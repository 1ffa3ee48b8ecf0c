package main

import (
	"fmt"
	"log"

	"duka/internal/config"
	"duka/internal/handler"
	"duka/internal/matcher"
	"duka/internal/repository/postgres"
	"duka/internal/router"
	"duka/internal/service"
	"duka/internal/textnorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	storeRepo := postgres.NewStoreRepo(db)
	userRepo := postgres.NewUserRepo(db)
	productRepo := postgres.NewProductRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)

	// Initialize matching pipeline
	corrector := textnorm.NewDefaultCorrector()
	m := matcher.New(corrector, cfg.Sales.MatchThreshold)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, storeRepo, cfg.JWT)
	salesSvc := service.NewSalesService(productRepo, receiptRepo, m, cfg.Sales)
	productSvc := service.NewProductService(productRepo, m)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	salesH := handler.NewSalesHandler(salesSvc)
	productH := handler.NewProductHandler(productSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, salesH, productH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
