package wire

import (
	"github.com/qwaszxg/api-yamdb/internal/adaptor"
	"github.com/qwaszxg/api-yamdb/pkg/middleware"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) {
	r.Route("/api/v1/users", func(r chi.Router) {
		// All user routes require authentication
		r.Use(middleware.Authenticate(jwtManager, log))

		// ==================== SELF-SERVICE ROUTES ====================
		// The static "me" segment must be declared alongside {username};
		// chi matches it before the wildcard.
		r.Get("/me", userHandler.GetMe)
		r.Patch("/me", userHandler.UpdateMe)
		r.Delete("/me", userHandler.DeleteMe) // 405, accounts are not self-deletable

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Admin(log))

			r.Get("/", userHandler.GetAllUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{username}", userHandler.GetUser)
			r.Patch("/{username}", userHandler.UpdateUser)
			r.Delete("/{username}", userHandler.DeleteUser)
		})
	})
}
