package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultAuditRetention keeps roughly a quarter of audit history.
const DefaultAuditRetention = 90 * 24 * time.Hour

// SessionPurger removes expired persisted sessions.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Maintenance bundles the recurring housekeeping handlers.
type Maintenance struct {
	sessions SessionPurger
	pool     *pgxpool.Pool
	logger   *slog.Logger
}

// NewMaintenance constructs the maintenance handlers.
func NewMaintenance(sessions SessionPurger, pool *pgxpool.Pool, logger *slog.Logger) *Maintenance {
	return &Maintenance{sessions: sessions, pool: pool, logger: logger}
}

// HandleSessionPurge processes TaskSessionPurge tasks.
func (m *Maintenance) HandleSessionPurge(ctx context.Context, t *asynq.Task) error {
	removed, err := m.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		m.logger.Error("session purge", slog.Any("error", err))
		return err
	}
	m.logger.Info("session purge complete", slog.Int64("removed", removed))
	return nil
}

// HandleAuditPrune processes TaskAuditPrune tasks.
func (m *Maintenance) HandleAuditPrune(ctx context.Context, t *asynq.Task) error {
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	retention := payload.Retention
	if retention <= 0 {
		retention = DefaultAuditRetention
	}
	cutoff := time.Now().Add(-retention)
	tag, err := m.pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		m.logger.Error("audit prune", slog.Any("error", err))
		return err
	}
	m.logger.Info("audit prune complete", slog.Int64("removed", tag.RowsAffected()))
	return nil
}
