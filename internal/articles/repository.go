package articles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

// ErrSlugTaken indicates a slug collision on create or update.
var ErrSlugTaken = errors.New("articles: slug already in use")

// Repository defines persistence operations for articles.
type Repository interface {
	Create(ctx context.Context, article *Article) (int64, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Article, error)
	List(ctx context.Context, limit, offset int) ([]Article, int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new article and returns its id.
func (r *PGRepository) Create(ctx context.Context, article *Article) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO articles (title, slug, body, status, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`,
		article.Title, article.Slug, article.Body, string(article.Status), article.AuthorID).Scan(&id)
	if err != nil {
		return 0, mapSlugError(err)
	}
	return id, nil
}

// Update overwrites an existing article.
func (r *PGRepository) Update(ctx context.Context, article *Article) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE articles SET title = $2, slug = $3, body = $4, status = $5, updated_at = NOW()
		WHERE id = $1`,
		article.ID, article.Title, article.Slug, article.Body, string(article.Status))
	if err != nil {
		return mapSlugError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an article.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GetByID fetches one article.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Article, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, slug, body, status, author_id, created_at, updated_at
		FROM articles WHERE id = $1`, id)
	var a Article
	var status string
	if err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Body, &status, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}

// List returns a page of articles newest first, plus the total count.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Article, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug, body, status, author_id, created_at, updated_at
		FROM articles ORDER BY updated_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Article
	for rows.Next() {
		var a Article
		var status string
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Body, &status, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		a.Status = Status(status)
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func mapSlugError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSlugTaken
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
