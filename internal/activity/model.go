package activity

import (
	"time"

	"github.com/google/uuid"
)

// Action is what happened to the target.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionRemoved Action = "removed"
)

// TargetType is the kind of entity an entry refers to.
type TargetType string

const (
	TargetRole TargetType = "role"
	TargetTeam TargetType = "team"
	TargetUser TargetType = "user"
)

// Entry represents a row in the activity_log table.
type Entry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     Action
	TargetType TargetType
	TargetID   uuid.UUID
	Detail     *string
	CreatedAt  time.Time
}
