package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table. UniqueID is a derived fingerprint
// of the namespace, regenerated whenever the namespace changes. Namespace is
// the globally unique slug identifying the team; Name is only for display.
type Team struct {
	ID          uuid.UUID
	UniqueID    string
	Name        string
	Avatar      *string
	Namespace   string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
