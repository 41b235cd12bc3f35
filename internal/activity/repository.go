package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides append and read access to the activity_log table.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	// ListForTarget returns entries for one target, newest first.
	ListForTarget(ctx context.Context, targetType TargetType, targetID uuid.UUID, limit int) ([]Entry, error)
}
