package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/internal/dto/response"
	"github.com/qwaszxg/api-yamdb/internal/usecase"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetAllTitles handles GET /api/v1/titles (public)
func (h *TitleHandler) GetAllTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.TitleListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	if name := query.Get("name"); name != "" {
		req.Name = &name
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid year filter", nil)
			return
		}
		req.Year = &year
	}
	if category := query.Get("category"); category != "" {
		req.Category = &category
	}
	if genre := query.Get("genre"); genre != "" {
		req.Genre = &genre
	}

	titles, total, err := h.service.GetAllTitles(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get all titles")
		return
	}

	page := response.NewPage(titles, total, req.Page, req.Limit(), r.URL.Path)
	utils.ResponseSuccess(w, "success", page)
}

// CreateTitle handles POST /api/v1/titles (admin)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	title, err := h.service.CreateTitle(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create title")
		return
	}

	utils.ResponseCreated(w, "success", title)
}

// GetTitle handles GET /api/v1/titles/{title_id} (public)
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := utils.ParseUUID(chi.URLParam(r, "title_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	title, err := h.service.GetTitleByID(r.Context(), titleID)
	if err != nil {
		h.handleServiceError(w, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := utils.ParseUUID(chi.URLParam(r, "title_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	var req request.UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), titleID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{title_id} (admin)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := utils.ParseUUID(chi.URLParam(r, "title_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return
	}

	if err := h.service.DeleteTitle(r.Context(), titleID); err != nil {
		h.handleServiceError(w, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}

// handleServiceError maps title service errors to HTTP status codes
func (h *TitleHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
