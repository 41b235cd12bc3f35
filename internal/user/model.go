package user

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a user account.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User represents a row in the users table. UniqueID is a derived
// fingerprint of the email, regenerated whenever the email changes.
type User struct {
	ID            uuid.UUID
	UniqueID      string
	Email         string
	Username      *string
	DisplayName   *string
	Avatar        *string
	DefaultTeamID *uuid.UUID
	PasswordHash  string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
