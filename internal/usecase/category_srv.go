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

type CategoryService interface {
	GetAllCategories(ctx context.Context, search string, req *request.PaginatedRequest) ([]response.CategoryResponse, int64, error)
	CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	log        *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		log:        log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context, search string, req *request.PaginatedRequest) ([]response.CategoryResponse, int64, error) {
	categories, err := s.categories.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get all categories", zap.Error(err))
		return nil, 0, fmt.Errorf("get all categories: %w", err)
	}

	total, err := s.categories.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count categories", zap.Error(err))
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	categoryResponses := make([]response.CategoryResponse, len(categories))
	for i, category := range categories {
		categoryResponses[i] = response.CategoryToResponse(category)
	}

	return categoryResponses, total, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *request.CreateCategoryRequest) (*response.CategoryResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create category validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Slug must be free
	existing, err := s.categories.FindBySlug(ctx, req.Slug)
	if err != nil {
		s.log.Error("Failed to check category slug", zap.Error(err), zap.String("slug", req.Slug))
		return nil, fmt.Errorf("failed to check category slug")
	}
	if existing != nil {
		return nil, fmt.Errorf("category slug %s already exists", req.Slug)
	}

	// 3. Create category
	category := &entity.Category{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.log.Error("Failed to create category", zap.Error(err), zap.String("slug", req.Slug))
		return nil, fmt.Errorf("failed to create category")
	}

	s.log.Info("Category created", zap.String("slug", category.Slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		s.log.Error("Failed to delete category", zap.Error(err), zap.String("slug", slug))
		return err
	}
	return nil
}
