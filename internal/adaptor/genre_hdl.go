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

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// GetAllGenres handles GET /api/v1/genres (public)
func (h *GenreHandler) GetAllGenres(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	search := query.Get("search")

	genres, total, err := h.service.GetAllGenres(r.Context(), search, req)
	if err != nil {
		h.handleServiceError(w, err, "get all genres")
		return
	}

	page := response.NewPage(genres, total, req.Page, req.Limit(), r.URL.Path)
	utils.ResponseSuccess(w, "success", page)
}

// CreateGenre handles POST /api/v1/genres (admin)
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "success", genre)
}

// DeleteGenre handles DELETE /api/v1/genres/{slug} (admin)
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Genre slug is required", nil)
		return
	}

	if err := h.service.DeleteGenre(r.Context(), slug); err != nil {
		h.handleServiceError(w, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}

// NotAllowed handles the retrieve and partial-update verbs the genre
// collection does not support
func (h *GenreHandler) NotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.ResponseMethodNotAllowed(w, "Method not allowed")
}

// handleServiceError maps genre service errors to HTTP status codes
func (h *GenreHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
