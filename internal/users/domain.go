package users

import (
	"time"

	"github.com/inkwell-cms/inkwell/internal/access"
)

// User is a staff account joined with its role record for the management
// surface. Accounts whose role record has not been bootstrapped yet show as
// viewer, matching what the role store would resolve.
type User struct {
	ID        string
	Email     string
	Role      access.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
