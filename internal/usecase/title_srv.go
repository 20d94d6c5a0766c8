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

type TitleService interface {
	GetAllTitles(ctx context.Context, req *request.TitleListRequest) ([]response.TitleResponse, int64, error)
	CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error)
	GetTitleByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, req *request.UpdateTitleRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, id uuid.UUID) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetAllTitles(ctx context.Context, req *request.TitleListRequest) ([]response.TitleResponse, int64, error) {
	filter := repository.TitleFilter{
		Name:         req.Name,
		Year:         req.Year,
		CategorySlug: req.Category,
		GenreSlug:    req.Genre,
	}

	titles, err := s.repo.Title.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get all titles", zap.Error(err))
		return nil, 0, fmt.Errorf("get all titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count titles", zap.Error(err))
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	titleResponses := make([]response.TitleResponse, len(titles))
	for i, title := range titles {
		resp, err := s.assembleTitle(ctx, title)
		if err != nil {
			return nil, 0, err
		}
		titleResponses[i] = *resp
	}

	return titleResponses, total, nil
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create title validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Resolve category and genre slugs; unknown slugs are a client error
	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	// 3. Create title
	now := time.Now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}

	if err := s.repo.Title.Create(ctx, title); err != nil {
		s.log.Error("Failed to create title", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create title")
	}

	// 4. Attach genres
	if len(genres) > 0 {
		genreIDs := make([]uuid.UUID, len(genres))
		for i, genre := range genres {
			genreIDs[i] = genre.ID
		}
		if err := s.repo.TitleGenre.ReplaceForTitle(ctx, title.ID, genreIDs); err != nil {
			s.log.Error("Failed to attach genres", zap.Error(err), zap.String("title_id", title.ID.String()))
			return nil, fmt.Errorf("failed to attach genres")
		}
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name))

	return s.assembleTitle(ctx, title)
}

func (s *titleService) GetTitleByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", id.String()))
		return nil, fmt.Errorf("failed to find title")
	}
	if title == nil {
		return nil, fmt.Errorf("title %s not found", id.String())
	}

	return s.assembleTitle(ctx, title)
}

func (s *titleService) UpdateTitle(ctx context.Context, id uuid.UUID, req *request.UpdateTitleRequest) (*response.TitleResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update title validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find title
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find title", zap.Error(err), zap.String("title_id", id.String()))
		return nil, fmt.Errorf("failed to find title")
	}
	if title == nil {
		return nil, fmt.Errorf("title %s not found", id.String())
	}

	// 3. Apply partial update
	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}
	title.UpdatedAt = time.Now()

	if err := s.repo.Title.Update(ctx, title); err != nil {
		s.log.Error("Failed to update title", zap.Error(err), zap.String("title_id", id.String()))
		return nil, fmt.Errorf("failed to update title")
	}

	// 4. Replace genre set only when the field was sent
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		genreIDs := make([]uuid.UUID, len(genres))
		for i, genre := range genres {
			genreIDs[i] = genre.ID
		}
		if err := s.repo.TitleGenre.ReplaceForTitle(ctx, title.ID, genreIDs); err != nil {
			s.log.Error("Failed to replace genres", zap.Error(err), zap.String("title_id", id.String()))
			return nil, fmt.Errorf("failed to replace genres")
		}
	}

	s.log.Info("Title updated", zap.String("title_id", id.String()))

	return s.assembleTitle(ctx, title)
}

func (s *titleService) DeleteTitle(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Title.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete title", zap.Error(err), zap.String("title_id", id.String()))
		return err
	}
	return nil
}

// ==================== HELPER METHODS ====================

// assembleTitle joins in the category and genre representations.
func (s *titleService) assembleTitle(ctx context.Context, title *entity.Title) (*response.TitleResponse, error) {
	var category *entity.Category
	if title.CategoryID != nil {
		var err error
		category, err = s.repo.Category.FindByID(ctx, *title.CategoryID)
		if err != nil {
			s.log.Error("Failed to load title category",
				zap.Error(err), zap.String("title_id", title.ID.String()))
			return nil, fmt.Errorf("failed to load title category")
		}
	}

	genres, err := s.repo.TitleGenre.FindGenresByTitleID(ctx, title.ID)
	if err != nil {
		s.log.Error("Failed to load title genres",
			zap.Error(err), zap.String("title_id", title.ID.String()))
		return nil, fmt.Errorf("failed to load title genres")
	}

	resp := response.TitleToResponse(title, category, genres)
	return &resp, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*uuid.UUID, error) {
	if slug == nil {
		return nil, nil
	}

	category, err := s.repo.Category.FindBySlug(ctx, *slug)
	if err != nil {
		s.log.Error("Failed to resolve category slug", zap.Error(err), zap.String("slug", *slug))
		return nil, fmt.Errorf("failed to resolve category slug")
	}
	if category == nil {
		return nil, fmt.Errorf("invalid category slug %s", *slug)
	}

	return &category.ID, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, slugs)
	if err != nil {
		s.log.Error("Failed to resolve genre slugs", zap.Error(err), zap.Strings("slugs", slugs))
		return nil, fmt.Errorf("failed to resolve genre slugs")
	}

	found := make(map[string]bool, len(genres))
	for _, genre := range genres {
		found[genre.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, fmt.Errorf("invalid genre slug %s", slug)
		}
	}

	return genres, nil
}
