package roles

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

const uniqueViolation = "23505"

// Store resolves subjects to roles. Resolve never fails: every error path
// degrades to the viewer role so a transient backend problem can slow a
// request down but never block it, and never grant extra privilege.
type Store struct {
	repo    Repository
	logger  *slog.Logger
	timeout time.Duration
}

// NewStore constructs a Store. timeout bounds each backend round trip; zero
// means 250ms.
func NewStore(repo Repository, logger *slog.Logger, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 250 * time.Millisecond
	}
	return &Store{repo: repo, logger: logger, timeout: timeout}
}

// Resolve returns the subject's role. A missing record triggers a
// self-healing insert of a viewer record; losing the insert race to a
// concurrent first request is benign and still resolves to viewer.
func (s *Store) Resolve(ctx context.Context, subjectID, email string) access.Role {
	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	role, err := s.repo.GetRole(lookupCtx, subjectID)
	if err == nil {
		return role
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("role lookup failed, defaulting to viewer",
			slog.String("subject_id", subjectID), slog.Any("error", err))
		return access.RoleViewer
	}

	insertCtx, cancelInsert := context.WithTimeout(ctx, s.timeout)
	defer cancelInsert()

	err = s.repo.Insert(insertCtx, Record{SubjectID: subjectID, Email: email, Role: access.RoleViewer})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// A concurrent request created the record first.
			s.logger.Debug("role record already bootstrapped", slog.String("subject_id", subjectID))
		} else {
			s.logger.Warn("role record bootstrap failed",
				slog.String("subject_id", subjectID), slog.Any("error", err))
		}
		return access.RoleViewer
	}

	s.logger.Info("role record created", slog.String("subject_id", subjectID))
	return access.RoleViewer
}

// UpdateRole is the single write path for role changes, invoked from the
// admin user-management surface. Last write wins; role edits are rare and
// human-initiated.
func (s *Store) UpdateRole(ctx context.Context, subjectID string, role access.Role) error {
	if !role.Valid() {
		return shared.ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, subjectID, role)
}

// List returns all role records for the admin UI.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Count returns the number of known subjects.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

var _ access.RoleResolver = (*Store)(nil)
