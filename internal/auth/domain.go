package auth

import "time"

// Account represents a staff login account. The ID is the opaque subject
// identifier the rest of the system keys on.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
