package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/inkwell/internal/access"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all accounts with their resolved role.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.email, COALESCE(ur.role, 'viewer'), a.is_active, a.created_at, COALESCE(ur.updated_at, a.updated_at)
		FROM accounts a
		LEFT JOIN user_roles ur ON ur.subject_id = a.id
		ORDER BY a.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		var rawRole string
		if err := rows.Scan(&user.ID, &user.Email, &rawRole, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		user.Role = access.ParseRole(rawRole)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

var _ RepositoryPort = (*Repository)(nil)
