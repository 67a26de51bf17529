package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge removes expired session records from Postgres.
	TaskSessionPurge = "session:purge"
	// TaskAuditPrune trims audit log entries past their retention window.
	TaskAuditPrune = "audit:prune"
)

// AuditPrunePayload controls how much audit history a prune run keeps.
type AuditPrunePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewSessionPurgeTask constructs the session purge task.
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPurge, nil)
}

// NewAuditPruneTask constructs an audit prune task.
func NewAuditPruneTask(payload AuditPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, data), nil
}
