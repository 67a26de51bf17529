package assets

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Repository defines persistence operations for image assets.
type Repository interface {
	Insert(ctx context.Context, asset *Asset) error
	GetWithData(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context) ([]Asset, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert stores metadata and bytes for a new asset.
func (r *PGRepository) Insert(ctx context.Context, asset *Asset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assets (id, file_name, content_type, size_bytes, uploader_id, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		asset.ID, asset.FileName, asset.ContentType, asset.SizeBytes, asset.UploaderID, asset.Data)
	return err
}

// GetWithData fetches one asset including its bytes.
func (r *PGRepository) GetWithData(ctx context.Context, id string) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, file_name, content_type, size_bytes, uploader_id, data, created_at
		FROM assets WHERE id = $1`, id)
	var a Asset
	if err := row.Scan(&a.ID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.UploaderID, &a.Data, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns asset metadata newest first, without bytes.
func (r *PGRepository) List(ctx context.Context) ([]Asset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, file_name, content_type, size_bytes, uploader_id, created_at
		FROM assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.UploaderID, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes an asset.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
