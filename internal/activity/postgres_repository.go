package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdeck/crewdeck/internal/db"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Insert appends an activity entry.
func (r *PostgresRepository) Insert(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO activity_log (actor_id, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING activity_id, created_at`

	ex := db.ExecutorFromContext(ctx, r.pool)
	err := ex.QueryRow(ctx, query, e.ActorID, e.Action, e.TargetType, e.TargetID, e.Detail).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting activity entry: %w", err)
	}

	return nil
}

// ListForTarget returns up to limit entries for the target, newest first.
func (r *PostgresRepository) ListForTarget(ctx context.Context, targetType TargetType, targetID uuid.UUID, limit int) ([]Entry, error) {
	query := `
		SELECT activity_id, actor_id, action, target_type, target_id, detail, created_at
		FROM activity_log
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC
		LIMIT $3`

	ex := db.ExecutorFromContext(ctx, r.pool)
	rows, err := ex.Query(ctx, query, targetType, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activity entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	return entries, nil
}
