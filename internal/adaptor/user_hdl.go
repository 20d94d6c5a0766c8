package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/internal/dto/response"
	"github.com/qwaszxg/api-yamdb/internal/usecase"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetAllUsers handles GET /api/v1/users (admin)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	search := query.Get("search")

	users, total, err := h.service.GetAllUsers(r.Context(), search, req)
	if err != nil {
		h.handleServiceError(w, err, "get all users")
		return
	}

	page := response.NewPage(users, total, req.Page, req.Limit(), r.URL.Path)
	utils.ResponseSuccess(w, "success", page)
}

// CreateUser handles POST /api/v1/users (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create user")
		return
	}

	utils.ResponseCreated(w, "success", user)
}

// GetUser handles GET /api/v1/users/{username} (admin)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		utils.ResponseBadRequest(w, "Username is required", nil)
		return
	}

	user, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateUser handles PATCH /api/v1/users/{username} (admin)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		utils.ResponseBadRequest(w, "Username is required", nil)
		return
	}

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), username, &req)
	if err != nil {
		h.handleServiceError(w, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// DeleteUser handles DELETE /api/v1/users/{username} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		utils.ResponseBadRequest(w, "Username is required", nil)
		return
	}

	if err := h.service.DeleteUser(r.Context(), username); err != nil {
		h.handleServiceError(w, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}

// GetMe handles GET /api/v1/users/me (protected)
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get me")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateMe handles PATCH /api/v1/users/me (protected)
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update me")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// DeleteMe handles DELETE /api/v1/users/me: self-deletion is not supported
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	utils.ResponseMethodNotAllowed(w, "Method not allowed")
}

// handleServiceError maps user service errors to HTTP status codes
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
