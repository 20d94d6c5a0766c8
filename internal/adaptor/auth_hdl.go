package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/internal/usecase"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// SignUp handles POST /api/v1/auth/signup (public)
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "signup")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetToken handles POST /api/v1/auth/token (public)
func (h *AuthHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	var req request.GetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.GetToken(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "get token")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// handleServiceError maps auth service errors to HTTP status codes
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already"):
		h.log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
