package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/pipecode66/kanban-api/internal/api/auth_api"
	"github.com/pipecode66/kanban-api/internal/api/export_api"
	"github.com/pipecode66/kanban-api/internal/api/kanban_api"
	"github.com/pipecode66/kanban-api/internal/api/middlewares"
	"github.com/pipecode66/kanban-api/internal/config"
	"github.com/pipecode66/kanban-api/internal/database"
	"github.com/pipecode66/kanban-api/internal/repository/auth_repository"
	"github.com/pipecode66/kanban-api/internal/repository/kanban_repository"
	"github.com/pipecode66/kanban-api/internal/services/auth_services"
	"github.com/pipecode66/kanban-api/internal/services/export_services"
	"github.com/pipecode66/kanban-api/internal/services/kanban_services"
)

func setupCORS(cfg *config.Config, router http.Handler) http.Handler {
	allowAny := false
	for _, origin := range cfg.CORSOrigins {
		if origin == "*" {
			allowAny = true
		}
	}

	options := cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
	if allowAny {
		options.AllowedOrigins = []string{"*"}
	}

	return cors.New(options).Handler(router)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: config load failed: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: database connection failed: %v", err)
	}
	defer db.Close()
	log.Println("INFO: Database connection successful")

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("FATAL: migrations failed: %v", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		log.Fatalf("FATAL: seeding failed: %v", err)
	}

	// AUTH
	userRepo := auth_repository.NewUserRepo(db)
	authSvc := auth_services.NewAuthService(userRepo, auth_services.TokenSettings{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	authHandler := auth_api.NewAuthHandler(authSvc)

	// KANBAN CARDS
	cardRepo := kanban_repository.NewCardRepo(db)
	cardSvc := kanban_services.NewCardService(cardRepo)
	cardHandler := kanban_api.NewCardHandler(cardSvc, authSvc)

	// EXPORT
	pdfSvc := export_services.NewPDFService()
	excelSvc := export_services.NewExcelService()
	exportHandler := export_api.NewExportHandler(cardSvc, pdfSvc, excelSvc, authSvc)

	r := mux.NewRouter()

	authHandler.RegisterRoutes(r)
	cardHandler.CardRoutes(r)
	exportHandler.ExportRoutes(r)

	handler := middlewares.RequestLogger(setupCORS(cfg, r))

	log.Printf("INFO: Starting HTTP server on port %s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler); err != nil {
		log.Fatalf("FATAL: failed to start HTTP server: %v", err)
	}
}
