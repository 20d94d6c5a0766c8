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

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// GetAllCategories handles GET /api/v1/categories (public)
func (h *CategoryHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	search := query.Get("search")

	categories, total, err := h.service.GetAllCategories(r.Context(), search, req)
	if err != nil {
		h.handleServiceError(w, err, "get all categories")
		return
	}

	page := response.NewPage(categories, total, req.Page, req.Limit(), r.URL.Path)
	utils.ResponseSuccess(w, "success", page)
}

// CreateCategory handles POST /api/v1/categories (admin)
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create category")
		return
	}

	utils.ResponseCreated(w, "success", category)
}

// DeleteCategory handles DELETE /api/v1/categories/{slug} (admin)
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Category slug is required", nil)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), slug); err != nil {
		h.handleServiceError(w, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}

// NotAllowed handles the retrieve and partial-update verbs the category
// collection does not support
func (h *CategoryHandler) NotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.ResponseMethodNotAllowed(w, "Method not allowed")
}

// handleServiceError maps category service errors to HTTP status codes
func (h *CategoryHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
