package activity

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Recorder appends activity entries best-effort: a failed write is logged and
// swallowed so it never fails the operation being recorded.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a Recorder over the given repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one entry. Safe to call on a nil Recorder.
func (r *Recorder) Record(ctx context.Context, actorID uuid.UUID, action Action, targetType TargetType, targetID uuid.UUID, detail string) {
	if r == nil {
		return
	}

	e := &Entry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if detail != "" {
		e.Detail = &detail
	}

	if err := r.repo.Insert(ctx, e); err != nil {
		slog.Error("failed to record activity", "error", err,
			"action", action, "targetType", targetType, "targetId", targetID)
	}
}

// Recent returns up to limit entries for one target, newest first. A nil
// Recorder has no entries.
func (r *Recorder) Recent(ctx context.Context, targetType TargetType, targetID uuid.UUID, limit int) ([]Entry, error) {
	if r == nil {
		return nil, nil
	}
	return r.repo.ListForTarget(ctx, targetType, targetID, limit)
}
