package wire

import (
	"github.com/qwaszxg/api-yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/v1/auth/signup - Request a confirmation code by email
	r.Post("/api/v1/auth/signup", authHandler.SignUp)

	// POST /api/v1/auth/token - Exchange the confirmation code for a JWT
	r.Post("/api/v1/auth/token", authHandler.GetToken)
}
