package wire

import (
	"github.com/qwaszxg/api-yamdb/internal/adaptor"
	"github.com/qwaszxg/api-yamdb/pkg/middleware"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/v1/titles/{title_id}/reviews - List reviews (public)
	r.Get("/api/v1/titles/{title_id}/reviews", reviewHandler.GetReviews)

	// GET /api/v1/titles/{title_id}/reviews/{review_id} - Review details (public)
	r.Get("/api/v1/titles/{title_id}/reviews/{review_id}", reviewHandler.GetReview)

	// ==================== PROTECTED ROUTES ====================
	// Author-or-moderator checks happen in the service layer
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtManager, log))

		r.Post("/api/v1/titles/{title_id}/reviews", reviewHandler.CreateReview)
		r.Patch("/api/v1/titles/{title_id}/reviews/{review_id}", reviewHandler.UpdateReview)
		r.Delete("/api/v1/titles/{title_id}/reviews/{review_id}", reviewHandler.DeleteReview)
	})
}
