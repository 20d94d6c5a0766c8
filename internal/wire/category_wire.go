package wire

import (
	"github.com/qwaszxg/api-yamdb/internal/adaptor"
	"github.com/qwaszxg/api-yamdb/pkg/middleware"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCategory(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/v1/categories - List categories (public)
	r.Get("/api/v1/categories", categoryHandler.GetAllCategories)

	// The collection is list/create/delete only: no retrieve or update
	// on a single slug
	r.Get("/api/v1/categories/{slug}", categoryHandler.NotAllowed)
	r.Patch("/api/v1/categories/{slug}", categoryHandler.NotAllowed)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtManager, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/v1/categories", categoryHandler.CreateCategory)
		r.Delete("/api/v1/categories/{slug}", categoryHandler.DeleteCategory)
	})
}
