package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/internal/dto/response"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	GetCommentsByReview(ctx context.Context, titleID, reviewID uuid.UUID, req *request.PaginatedRequest) ([]response.CommentResponse, int64, error)
	CreateComment(ctx context.Context, requester Requester, titleID, reviewID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, requester Requester, titleID, reviewID, commentID uuid.UUID, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, requester Requester, titleID, reviewID, commentID uuid.UUID) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetCommentsByReview(ctx context.Context, titleID, reviewID uuid.UUID, req *request.PaginatedRequest) ([]response.CommentResponse, int64, error) {
	if _, err := s.checkReviewChain(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, reviewID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get comments", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, 0, fmt.Errorf("get comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to count comments", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	commentResponses := make([]response.CommentResponse, len(comments))
	for i, comment := range comments {
		resp, err := s.assembleComment(ctx, comment)
		if err != nil {
			return nil, 0, err
		}
		commentResponses[i] = *resp
	}

	return commentResponses, total, nil
}

func (s *commentService) CreateComment(ctx context.Context, requester Requester, titleID, reviewID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create comment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Review must exist under this title
	if _, err := s.checkReviewChain(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	// 3. Create comment
	comment := &entity.Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		AuthorID: requester.ID,
		Text:     req.Text,
		PubDate:  time.Now(),
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.log.Error("Failed to create comment", zap.Error(err),
			zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("failed to create comment")
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID.String()),
		zap.String("author", requester.Username))

	resp := response.CommentToResponse(comment, requester.Username)
	return &resp, nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*response.CommentResponse, error) {
	comment, err := s.findCommentInChain(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return s.assembleComment(ctx, comment)
}

func (s *commentService) UpdateComment(ctx context.Context, requester Requester, titleID, reviewID, commentID uuid.UUID, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update comment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find comment under this title/review pair
	comment, err := s.findCommentInChain(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	// 3. Author, moderator, admin or superuser only
	if !requester.canModify(comment.AuthorID) {
		return nil, fmt.Errorf("forbidden: not the author")
	}

	// 4. Apply partial update
	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		s.log.Error("Failed to update comment", zap.Error(err),
			zap.String("comment_id", commentID.String()))
		return nil, fmt.Errorf("failed to update comment")
	}

	s.log.Info("Comment updated", zap.String("comment_id", commentID.String()))

	return s.assembleComment(ctx, comment)
}

func (s *commentService) DeleteComment(ctx context.Context, requester Requester, titleID, reviewID, commentID uuid.UUID) error {
	comment, err := s.findCommentInChain(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !requester.canModify(comment.AuthorID) {
		return fmt.Errorf("forbidden: not the author")
	}

	if err := s.repo.Comment.Delete(ctx, commentID); err != nil {
		s.log.Error("Failed to delete comment", zap.Error(err),
			zap.String("comment_id", commentID.String()))
		return fmt.Errorf("failed to delete comment")
	}

	return nil
}

// ==================== HELPER METHODS ====================

// checkReviewChain verifies the title exists and the review belongs to it.
func (s *commentService) checkReviewChain(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
	title, err := s.repo.Title.FindByID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, fmt.Errorf("failed to find title")
	}
	if title == nil {
		return nil, fmt.Errorf("title %s not found", titleID.String())
	}

	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("failed to find review")
	}
	if review == nil || review.TitleID != titleID {
		return nil, fmt.Errorf("review %s not found", reviewID.String())
	}

	return review, nil
}

func (s *commentService) findCommentInChain(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*entity.Comment, error) {
	if _, err := s.checkReviewChain(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		s.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", commentID.String()))
		return nil, fmt.Errorf("failed to find comment")
	}
	if comment == nil || comment.ReviewID != reviewID {
		return nil, fmt.Errorf("comment %s not found", commentID.String())
	}

	return comment, nil
}

func (s *commentService) assembleComment(ctx context.Context, comment *entity.Comment) (*response.CommentResponse, error) {
	author, err := s.repo.User.FindByID(ctx, comment.AuthorID)
	if err != nil {
		s.log.Error("Failed to load comment author", zap.Error(err),
			zap.String("comment_id", comment.ID.String()))
		return nil, fmt.Errorf("failed to load comment author")
	}

	username := ""
	if author != nil {
		username = author.Username
	}

	resp := response.CommentToResponse(comment, username)
	return &resp, nil
}
