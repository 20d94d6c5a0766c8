package wire

import (
	"github.com/qwaszxg/api-yamdb/internal/adaptor"
	"github.com/qwaszxg/api-yamdb/pkg/middleware"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTitle(
	r chi.Router,
	titleHandler *adaptor.TitleHandler,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/v1/titles - List titles with filters (public)
	r.Get("/api/v1/titles", titleHandler.GetAllTitles)

	// GET /api/v1/titles/{title_id} - Title details with rating (public)
	r.Get("/api/v1/titles/{title_id}", titleHandler.GetTitle)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtManager, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/v1/titles", titleHandler.CreateTitle)
		r.Patch("/api/v1/titles/{title_id}", titleHandler.UpdateTitle)
		r.Delete("/api/v1/titles/{title_id}", titleHandler.DeleteTitle)
	})
}
