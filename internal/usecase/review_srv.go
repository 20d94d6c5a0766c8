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

type ReviewService interface {
	GetReviewsByTitle(ctx context.Context, titleID uuid.UUID, req *request.PaginatedRequest) ([]response.ReviewResponse, int64, error)
	CreateReview(ctx context.Context, requester Requester, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, requester Requester, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, requester Requester, titleID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetReviewsByTitle(ctx context.Context, titleID uuid.UUID, req *request.PaginatedRequest) ([]response.ReviewResponse, int64, error) {
	if err := s.checkTitleExists(ctx, titleID); err != nil {
		return nil, 0, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, titleID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get reviews", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, 0, fmt.Errorf("get reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to count reviews", zap.Error(err), zap.String("title_id", titleID.String()))
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		resp, err := s.assembleReview(ctx, review)
		if err != nil {
			return nil, 0, err
		}
		reviewResponses[i] = *resp
	}

	return reviewResponses, total, nil
}

func (s *reviewService) CreateReview(ctx context.Context, requester Requester, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Title must exist
	if err := s.checkTitleExists(ctx, titleID); err != nil {
		return nil, err
	}

	// 3. One review per author per title
	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, requester.ID, titleID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err),
			zap.String("title_id", titleID.String()),
			zap.String("author_id", requester.ID.String()))
		return nil, fmt.Errorf("failed to check existing review")
	}
	if existing != nil {
		return nil, fmt.Errorf("you have already reviewed this title")
	}

	// 4. Create review
	review := &entity.Review{
		ID:       uuid.New(),
		TitleID:  titleID,
		AuthorID: requester.ID,
		Text:     req.Text,
		Score:    req.Score,
		PubDate:  time.Now(),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.log.Error("Failed to create review", zap.Error(err),
			zap.String("title_id", titleID.String()))
		return nil, fmt.Errorf("failed to create review")
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID.String()),
		zap.String("author", requester.Username))

	resp := response.ReviewToResponse(review, requester.Username)
	return &resp, nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	review, err := s.findReviewInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return s.assembleReview(ctx, review)
}

func (s *reviewService) UpdateReview(ctx context.Context, requester Requester, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find review under this title
	review, err := s.findReviewInTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	// 3. Author, moderator, admin or superuser only
	if !requester.canModify(review.AuthorID) {
		return nil, fmt.Errorf("forbidden: not the author")
	}

	// 4. Apply partial update
	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err),
			zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("failed to update review")
	}

	s.log.Info("Review updated", zap.String("review_id", reviewID.String()))

	return s.assembleReview(ctx, review)
}

func (s *reviewService) DeleteReview(ctx context.Context, requester Requester, titleID, reviewID uuid.UUID) error {
	review, err := s.findReviewInTitle(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !requester.canModify(review.AuthorID) {
		return fmt.Errorf("forbidden: not the author")
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err),
			zap.String("review_id", reviewID.String()))
		return fmt.Errorf("failed to delete review")
	}

	return nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) checkTitleExists(ctx context.Context, titleID uuid.UUID) error {
	title, err := s.repo.Title.FindByID(ctx, titleID)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", titleID.String()))
		return fmt.Errorf("failed to find title")
	}
	if title == nil {
		return fmt.Errorf("title %s not found", titleID.String())
	}
	return nil
}

// findReviewInTitle loads the review and verifies it belongs to the title
// from the URL. A mismatched pair reads as not found.
func (s *reviewService) findReviewInTitle(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
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

func (s *reviewService) assembleReview(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	author, err := s.repo.User.FindByID(ctx, review.AuthorID)
	if err != nil {
		s.log.Error("Failed to load review author", zap.Error(err),
			zap.String("review_id", review.ID.String()))
		return nil, fmt.Errorf("failed to load review author")
	}

	username := ""
	if author != nil {
		username = author.Username
	}

	resp := response.ReviewToResponse(review, username)
	return &resp, nil
}
