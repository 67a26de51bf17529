package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Repository defines persistence operations for role records.
type Repository interface {
	GetRole(ctx context.Context, subjectID string) (access.Role, error)
	Insert(ctx context.Context, record Record) error
	UpdateRole(ctx context.Context, subjectID string, role access.Role) error
	List(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetRole fetches the stored role for a subject. Returns shared.ErrNotFound
// when no record exists, so the store can distinguish "missing" from a
// backend failure.
func (r *PGRepository) GetRole(ctx context.Context, subjectID string) (access.Role, error) {
	var raw string
	err := r.pool.QueryRow(ctx, `SELECT role FROM user_roles WHERE subject_id = $1`, subjectID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return access.ParseRole(raw), nil
}

// Insert creates a new role record.
func (r *PGRepository) Insert(ctx context.Context, record Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (subject_id, email, role, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`,
		record.SubjectID, record.Email, string(record.Role))
	return err
}

// UpdateRole overwrites the role for a subject. Returns shared.ErrNotFound
// when no record was updated.
func (r *PGRepository) UpdateRole(ctx context.Context, subjectID string, role access.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_roles SET role = $2, updated_at = NOW() WHERE subject_id = $1`,
		subjectID, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns all role records ordered by creation time.
func (r *PGRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subject_id, email, role, created_at, updated_at FROM user_roles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var raw string
		if err := rows.Scan(&rec.SubjectID, &rec.Email, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Role = access.ParseRole(raw)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of role records.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ Repository = (*PGRepository)(nil)
