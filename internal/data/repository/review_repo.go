package repository

import (
	"context"
	"fmt"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error)
	FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score, pub_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.PubDate,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", review.AuthorID.String()),
			zap.String("title_id", review.TitleID.String()),
		)
		return fmt.Errorf("create review for title %s by author %s: %w",
			review.TitleID.String(), review.AuthorID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, title_id, author_id, text, score, pub_date
		FROM reviews
		WHERE id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT id, title_id, author_id, text, score, pub_date
		FROM reviews
		WHERE title_id = $1
		ORDER BY pub_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by title ID %s: %w", titleID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.TitleID,
			&review.AuthorID,
			&review.Text,
			&review.Score,
			&review.PubDate,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reviews rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE title_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, titleID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return 0, fmt.Errorf("count reviews by title ID %s: %w", titleID.String(), err)
	}

	return count, nil
}

// FindByAuthorAndTitle backs the one-review-per-title rule.
func (r *reviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, title_id, author_id, text, score, pub_date
		FROM reviews
		WHERE author_id = $1 AND title_id = $2
		LIMIT 1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, authorID, titleID).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by author and title",
			zap.Error(err),
			zap.String("author_id", authorID.String()),
			zap.String("title_id", titleID.String()),
		)
		return nil, fmt.Errorf("find review by author %s and title %s: %w",
			authorID.String(), titleID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET text = $2, score = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Text,
		review.Score,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

// Delete removes the review; its comments follow via cascade.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}
