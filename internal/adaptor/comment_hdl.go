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

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// GetComments handles GET /api/v1/titles/{title_id}/reviews/{review_id}/comments (public)
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := h.parseChainIDs(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	comments, total, err := h.service.GetCommentsByReview(r.Context(), titleID, reviewID, req)
	if err != nil {
		h.handleServiceError(w, err, "get comments")
		return
	}

	page := response.NewPage(comments, total, req.Page, req.Limit(), r.URL.Path)
	utils.ResponseSuccess(w, "success", page)
}

// CreateComment handles POST /api/v1/titles/{title_id}/reviews/{review_id}/comments (protected)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	requester, ok := usecase.RequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	titleID, reviewID, ok := h.parseChainIDs(w, r)
	if !ok {
		return
	}

	var req request.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), requester, titleID, reviewID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "success", comment)
}

// GetComment handles GET .../comments/{comment_id} (public)
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := h.parseChainIDs(w, r)
	if !ok {
		return
	}

	commentID, ok := h.parseCommentID(w, r)
	if !ok {
		return
	}

	comment, err := h.service.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		h.handleServiceError(w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// UpdateComment handles PATCH .../comments/{comment_id} (protected)
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	requester, ok := usecase.RequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	titleID, reviewID, ok := h.parseChainIDs(w, r)
	if !ok {
		return
	}

	commentID, ok := h.parseCommentID(w, r)
	if !ok {
		return
	}

	var req request.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), requester, titleID, reviewID, commentID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// DeleteComment handles DELETE .../comments/{comment_id} (protected)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	requester, ok := usecase.RequesterFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	titleID, reviewID, ok := h.parseChainIDs(w, r)
	if !ok {
		return
	}

	commentID, ok := h.parseCommentID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), requester, titleID, reviewID, commentID); err != nil {
		h.handleServiceError(w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}

// ==================== HELPER METHODS ====================

func (h *CommentHandler) parseChainIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
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

func (h *CommentHandler) parseCommentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	commentID, err := utils.ParseUUID(chi.URLParam(r, "comment_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid comment ID", nil)
		return uuid.Nil, false
	}
	return commentID, true
}

// handleServiceError maps comment service errors to HTTP status codes
func (h *CommentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
