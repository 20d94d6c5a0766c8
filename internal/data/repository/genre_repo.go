package repository

import (
	"context"
	"fmt"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindBySlug(ctx context.Context, slug string) (*entity.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error)
	CountAll(ctx context.Context, search string) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `
		INSERT INTO genres (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		genre.ID,
		genre.Name,
		genre.Slug,
		genre.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create genre",
			zap.Error(err),
			zap.String("slug", genre.Slug),
		)
		return fmt.Errorf("create genre %s: %w", genre.Slug, err)
	}

	return nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE slug = $1
	`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Slug,
		&genre.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find genre by slug %s: %w", slug, err)
	}

	return &genre, nil
}

// FindBySlugs resolves a set of slugs in one round trip. Order of the result
// is not guaranteed; callers check the count to detect unknown slugs.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE slug = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, slugs)
	if err != nil {
		r.log.Error("Failed to find genres by slugs",
			zap.Error(err),
			zap.Strings("slugs", slugs),
		)
		return nil, fmt.Errorf("find genres by slugs: %w", err)
	}
	defer rows.Close()

	var genres []*entity.Genre
	for rows.Next() {
		var genre entity.Genre
		err := rows.Scan(
			&genre.ID,
			&genre.Name,
			&genre.Slug,
			&genre.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, &genre)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate genres rows: %w", err)
	}

	return genres, nil
}

func (r *genreRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all genres",
			zap.Error(err),
			zap.String("search", search),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all genres: %w", err)
	}
	defer rows.Close()

	var genres []*entity.Genre
	for rows.Next() {
		var genre entity.Genre
		err := rows.Scan(
			&genre.ID,
			&genre.Name,
			&genre.Slug,
			&genre.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, &genre)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate genres rows: %w", err)
	}

	return genres, nil
}

func (r *genreRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM genres WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var count int64
	err := r.db.QueryRow(ctx, query, search).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count genres", zap.Error(err))
		return 0, fmt.Errorf("count all genres: %w", err)
	}

	return count, nil
}

// DeleteBySlug removes the genre and, via cascade, its title_genres links.
func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	query := `DELETE FROM genres WHERE slug = $1`

	result, err := r.db.Exec(ctx, query, slug)
	if err != nil {
		r.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return fmt.Errorf("delete genre %s: %w", slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %s not found", slug)
	}

	r.log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}
