package main

import (
	"log"

	api "github.com/thamiresml/thracker-sub002/cmd/api"
	authdomain "github.com/thamiresml/thracker-sub002/internal/auth/domain"
	authRepo "github.com/thamiresml/thracker-sub002/internal/auth/repository"
	authUsecase "github.com/thamiresml/thracker-sub002/internal/auth/usecase"
	conndomain "github.com/thamiresml/thracker-sub002/internal/connection/domain"
	connRepo "github.com/thamiresml/thracker-sub002/internal/connection/repository"
	connUsecase "github.com/thamiresml/thracker-sub002/internal/connection/usecase"
	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"
	crmRepo "github.com/thamiresml/thracker-sub002/internal/crm/repository"
	crmUsecase "github.com/thamiresml/thracker-sub002/internal/crm/usecase"
	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"
	syncRepo "github.com/thamiresml/thracker-sub002/internal/sync/repository"
	syncUsecase "github.com/thamiresml/thracker-sub002/internal/sync/usecase"
	"github.com/thamiresml/thracker-sub002/pkg/config"
	"github.com/thamiresml/thracker-sub002/pkg/database"
	"github.com/thamiresml/thracker-sub002/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&conndomain.Connection{},
		&syncdomain.SyncRun{},
		&crmdomain.Company{},
		&crmdomain.Contact{},
		&crmdomain.Interaction{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Constraints AutoMigrate cannot express (single-flight guard, dedup keys)
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	connectionRepository := connRepo.NewConnectionRepository(db)
	syncRunRepository := syncRepo.NewSyncRunRepository(db)
	companyRepository := crmRepo.NewCompanyRepository(db)
	contactRepository := crmRepo.NewContactRepository(db)
	interactionRepository := crmRepo.NewInteractionRepository(db)

	// Initialize Gmail service
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	connUsecaseInstance := connUsecase.NewConnectionUsecase(connectionRepository, gmailService, cfg)
	resolver := crmUsecase.NewEntityResolver(companyRepository, contactRepository, interactionRepository)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(connUsecaseInstance, syncRunRepository, resolver, gmailService, cfg)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, connUsecaseInstance, syncUsecaseInstance)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
