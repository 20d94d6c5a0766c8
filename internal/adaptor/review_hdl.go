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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetReviews handles GET /api/v1/titles/{title_id}/reviews (public)
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := h.parseTitleID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reviews, total, err := h.service.GetReviewsByTitle(r.Context(), titleID, req)
	if err != nil {
		h.handleServiceError(w, err, "get reviews")
		return
	}

	page := response.NewPage(reviews, total, req.Page, req.Limit(), r.URL.Path)
	utils.ResponseSuccess(w, "success", page)
}

// CreateReview handles POST /api/v1/titles/{title_id}/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	requester, ok := usecase.RequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	titleID, ok := h.parseTitleID(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), requester, titleID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// GetReview handles GET /api/v1/titles/{title_id}/reviews/{review_id} (public)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := h.parseIDs(w, r)
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		h.handleServiceError(w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// UpdateReview handles PATCH /api/v1/titles/{title_id}/reviews/{review_id} (protected)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	requester, ok := usecase.RequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	titleID, reviewID, ok := h.parseIDs(w, r)
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), requester, titleID, reviewID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/v1/titles/{title_id}/reviews/{review_id} (protected)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	requester, ok := usecase.RequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	titleID, reviewID, ok := h.parseIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), requester, titleID, reviewID); err != nil {
		h.handleServiceError(w, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}

// ==================== HELPER METHODS ====================

func (h *ReviewHandler) parseTitleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	titleID, err := utils.ParseUUID(chi.URLParam(r, "title_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return uuid.Nil, false
	}
	return titleID, true
}

func (h *ReviewHandler) parseIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	titleID, err := utils.ParseUUID(chi.URLParam(r, "title_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid title ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	reviewID, err := utils.ParseUUID(chi.URLParam(r, "review_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid review ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return titleID, reviewID, true
}

// handleServiceError maps review service errors to HTTP status codes
func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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

	case strings.Contains(errMsg, "already reviewed"):
		h.log.Warn(operation+" failed - already reviewed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "forbidden"):
		h.log.Warn(operation+" failed - forbidden",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
