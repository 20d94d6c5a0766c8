package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter mirrors the list query parameters. Nil fields are skipped.
type TitleFilter struct {
	Name         *string // partial match, case-insensitive
	Year         *int    // exact
	CategorySlug *string
	GenreSlug    *string
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	Update(ctx context.Context, title *entity.Title) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	query := `
		INSERT INTO titles (id, name, year, description, category_id,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	return nil
}

// FindByID annotates the title with its average review score, the same way
// every list query does. Rating stays nil when no reviews exist.
func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	query := `
		SELECT t.id, t.name, t.year, t.description, t.category_id,
		       t.created_at, t.updated_at,
		       AVG(rv.score)::float8 AS rating
		FROM titles t
		LEFT JOIN reviews rv ON rv.title_id = t.id
		WHERE t.id = $1
		GROUP BY t.id
	`

	var title entity.Title
	err := r.db.QueryRow(ctx, query, id).Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.CreatedAt,
		&title.UpdatedAt,
		&title.Rating,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title by ID %s: %w", id.String(), err)
	}

	return &title, nil
}

// buildFilterClause renders the WHERE conditions shared by FindAll and
// CountAll. Placeholder numbers continue from the args already collected.
func buildFilterClause(filter TitleFilter, args []interface{}) (string, []interface{}) {
	var clauses []string

	if filter.Name != nil && *filter.Name != "" {
		args = append(args, *filter.Name)
		clauses = append(clauses, fmt.Sprintf("t.name ILIKE '%%' || $%d || '%%'", len(args)))
	}

	if filter.Year != nil {
		args = append(args, *filter.Year)
		clauses = append(clauses, fmt.Sprintf("t.year = $%d", len(args)))
	}

	if filter.CategorySlug != nil && *filter.CategorySlug != "" {
		args = append(args, *filter.CategorySlug)
		clauses = append(clauses, fmt.Sprintf(
			"t.category_id IN (SELECT id FROM categories WHERE slug = $%d)", len(args)))
	}

	if filter.GenreSlug != nil && *filter.GenreSlug != "" {
		args = append(args, *filter.GenreSlug)
		clauses = append(clauses, fmt.Sprintf(
			`EXISTS (
				SELECT 1 FROM title_genres tg
				JOIN genres g ON g.id = tg.genre_id
				WHERE tg.title_id = t.id AND g.slug = $%d
			)`, len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT t.id, t.name, t.year, t.description, t.category_id,
		       t.created_at, t.updated_at,
		       AVG(rv.score)::float8 AS rating
		FROM titles t
		LEFT JOIN reviews rv ON rv.title_id = t.id
		WHERE TRUE
	`)

	args := []interface{}{}
	clause, args := buildFilterClause(filter, args)
	queryBuilder.WriteString(clause)

	args = append(args, limit, offset)
	queryBuilder.WriteString(fmt.Sprintf(
		" GROUP BY t.id ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d",
		len(args)-1, len(args)))

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all titles",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		var title entity.Title
		err := rows.Scan(
			&title.ID,
			&title.Name,
			&title.Year,
			&title.Description,
			&title.CategoryID,
			&title.CreatedAt,
			&title.UpdatedAt,
			&title.Rating,
		)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, &title)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate titles rows: %w", err)
	}

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM titles t WHERE TRUE`

	args := []interface{}{}
	clause, args := buildFilterClause(filter, args)
	query += clause

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count titles", zap.Error(err))
		return 0, fmt.Errorf("count all titles: %w", err)
	}

	return count, nil
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title) error {
	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("title %s not found", title.ID.String())
	}

	return nil
}

// Delete removes the title; reviews and their comments follow via cascade.
func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM titles WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("title %s not found", id.String())
	}

	r.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}
