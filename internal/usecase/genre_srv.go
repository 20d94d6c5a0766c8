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

type GenreService interface {
	GetAllGenres(ctx context.Context, search string, req *request.PaginatedRequest) ([]response.GenreResponse, int64, error)
	CreateGenre(ctx context.Context, req *request.CreateGenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	genres repository.GenreRepository
	log    *zap.Logger
}

func NewGenreService(genres repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		genres: genres,
		log:    log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) GetAllGenres(ctx context.Context, search string, req *request.PaginatedRequest) ([]response.GenreResponse, int64, error) {
	genres, err := s.genres.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get all genres", zap.Error(err))
		return nil, 0, fmt.Errorf("get all genres: %w", err)
	}

	total, err := s.genres.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count genres", zap.Error(err))
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}

	genreResponses := make([]response.GenreResponse, len(genres))
	for i, genre := range genres {
		genreResponses[i] = response.GenreToResponse(genre)
	}

	return genreResponses, total, nil
}

func (s *genreService) CreateGenre(ctx context.Context, req *request.CreateGenreRequest) (*response.GenreResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create genre validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Slug must be free
	existing, err := s.genres.FindBySlug(ctx, req.Slug)
	if err != nil {
		s.log.Error("Failed to check genre slug", zap.Error(err), zap.String("slug", req.Slug))
		return nil, fmt.Errorf("failed to check genre slug")
	}
	if existing != nil {
		return nil, fmt.Errorf("genre slug %s already exists", req.Slug)
	}

	// 3. Create genre
	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.genres.Create(ctx, genre); err != nil {
		s.log.Error("Failed to create genre", zap.Error(err), zap.String("slug", req.Slug))
		return nil, fmt.Errorf("failed to create genre")
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		s.log.Error("Failed to delete genre", zap.Error(err), zap.String("slug", slug))
		return err
	}
	return nil
}
