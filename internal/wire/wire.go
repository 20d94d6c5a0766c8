// internal/wire/wire.go
package wire

import (
	"net/http"

	"github.com/qwaszxg/api-yamdb/internal/adaptor"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/usecase"
	"github.com/qwaszxg/api-yamdb/pkg/mailer"
	"github.com/qwaszxg/api-yamdb/pkg/middleware"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled router
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	jwtManager *utils.JWTManager,
	mail mailer.Mailer,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, jwtManager, mail, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, jwtManager, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	jwtManager *utils.JWTManager,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, jwtManager, logger)
	wireCategory(r, handler.Category, jwtManager, logger)
	wireGenre(r, handler.Genre, jwtManager, logger)
	wireTitle(r, handler.Title, jwtManager, logger)
	wireReview(r, handler.Review, jwtManager, logger)
	wireComment(r, handler.Comment, jwtManager, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
