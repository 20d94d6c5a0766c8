// main.go
package main

import (
	"log"

	"github.com/qwaszxg/api-yamdb/cmd"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/wire"
	"github.com/qwaszxg/api-yamdb/pkg/database"
	"github.com/qwaszxg/api-yamdb/pkg/mailer"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Token manager refuses weak secrets, so fail fast here
	jwtManager, err := utils.NewJWTManager(config.JWT.Secret, config.JWT.ExpiryHours)
	if err != nil {
		logger.Fatal("Failed to init JWT manager", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Confirmation code delivery
	mail := mailer.NewMailer(config.Email, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, jwtManager, mail, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
