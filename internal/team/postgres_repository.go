package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdeck/crewdeck/internal/db"
)

// PostgresRepository implements Repository using pgxpool. Queries run inside
// the transaction bound to the context when one is present.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const teamColumns = `team_id, team_unique_id, team_name, team_avatar,
	team_namespace, description, created_at, updated_at`

func scanTeam(row pgx.Row, t *Team) error {
	return row.Scan(&t.ID, &t.UniqueID, &t.Name, &t.Avatar,
		&t.Namespace, &t.Description, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (team_unique_id, team_name, team_avatar, team_namespace, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING team_id, created_at, updated_at`

	e := db.ExecutorFromContext(ctx, r.pool)
	err := e.QueryRow(ctx, query, t.UniqueID, t.Name, t.Avatar, t.Namespace, t.Description).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrNamespaceTaken
		}
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_id = $1`

	e := db.ExecutorFromContext(ctx, r.pool)
	var t Team
	if err := scanTeam(e.QueryRow(ctx, query, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// List retrieves all teams ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY created_at ASC`

	e := db.ExecutorFromContext(ctx, r.pool)
	rows, err := e.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.UniqueID, &t.Name, &t.Avatar,
			&t.Namespace, &t.Description, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

// NamespaceExists reports whether any team holds the given namespace.
func (r *PostgresRepository) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	e := db.ExecutorFromContext(ctx, r.pool)
	var exists bool
	err := e.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE team_namespace = $1)`, namespace).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking namespace existence: %w", err)
	}
	return exists, nil
}

// Update persists the mutable fields of a team.
func (r *PostgresRepository) Update(ctx context.Context, t *Team) error {
	query := `
		UPDATE teams
		SET team_unique_id = $2, team_name = $3, team_avatar = $4,
			team_namespace = $5, description = $6, updated_at = now()
		WHERE team_id = $1
		RETURNING updated_at`

	e := db.ExecutorFromContext(ctx, r.pool)
	err := e.QueryRow(ctx, query, t.ID, t.UniqueID, t.Name, t.Avatar, t.Namespace, t.Description).
		Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrNamespaceTaken
		}
		return fmt.Errorf("updating team: %w", err)
	}

	return nil
}

// Delete removes a team by its UUID. Membership rows are the caller's
// responsibility; this performs no cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	e := db.ExecutorFromContext(ctx, r.pool)
	result, err := e.Exec(ctx, `DELETE FROM teams WHERE team_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}
