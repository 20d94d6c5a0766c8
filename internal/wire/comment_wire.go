package wire

import (
	"github.com/qwaszxg/api-yamdb/internal/adaptor"
	"github.com/qwaszxg/api-yamdb/pkg/middleware"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireComment(
	r chi.Router,
	commentHandler *adaptor.CommentHandler,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) {
	base := "/api/v1/titles/{title_id}/reviews/{review_id}/comments"

	// ==================== PUBLIC ROUTES ====================
	r.Get(base, commentHandler.GetComments)
	r.Get(base+"/{comment_id}", commentHandler.GetComment)

	// ==================== PROTECTED ROUTES ====================
	// Author-or-moderator checks happen in the service layer
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtManager, log))

		r.Post(base, commentHandler.CreateComment)
		r.Patch(base+"/{comment_id}", commentHandler.UpdateComment)
		r.Delete(base+"/{comment_id}", commentHandler.DeleteComment)
	})
}
