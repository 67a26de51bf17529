package roles

import (
	"time"

	"github.com/inkwell-cms/inkwell/internal/access"
)

// Record is one row of the role table, keyed by subject id. Every
// authenticated subject eventually has exactly one Record; the store
// creates one lazily on first lookup.
type Record struct {
	SubjectID string
	Email     string
	Role      access.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
