package membership

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

// Insert adds a membership row for a pair that has none yet.
func (r *PostgresRepository) Insert(ctx context.Context, m *Membership) error {
	query := `
		INSERT INTO team_users (team_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at`

	e := db.ExecutorFromContext(ctx, r.pool)
	err := e.QueryRow(ctx, query, m.TeamID, m.UserID, m.Role, m.Status).Scan(&m.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyMember
		}
		return fmt.Errorf("inserting membership: %w", err)
	}

	return nil
}

// Get retrieves the membership row for the pair regardless of status.
func (r *PostgresRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*Membership, error) {
	query := `
		SELECT team_id, user_id, role, status, joined_at, left_at
		FROM team_users
		WHERE team_id = $1 AND user_id = $2`

	e := db.ExecutorFromContext(ctx, r.pool)
	var m Membership
	err := e.QueryRow(ctx, query, teamID, userID).
		Scan(&m.TeamID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt, &m.LeftAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMembership
		}
		return nil, fmt.Errorf("querying membership: %w", err)
	}

	return &m, nil
}

// Update persists role, status and timestamps for an existing row.
func (r *PostgresRepository) Update(ctx context.Context, m *Membership) error {
	query := `
		UPDATE team_users
		SET role = $3, status = $4, joined_at = $5, left_at = $6
		WHERE team_id = $1 AND user_id = $2`

	e := db.ExecutorFromContext(ctx, r.pool)
	result, err := e.Exec(ctx, query, m.TeamID, m.UserID, m.Role, m.Status, m.JoinedAt, m.LeftAt)
	if err != nil {
		return fmt.Errorf("updating membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoMembership
	}

	return nil
}

// ActiveRole returns the role of a joined member.
func (r *PostgresRepository) ActiveRole(ctx context.Context, teamID, userID uuid.UUID) (Role, error) {
	query := `
		SELECT role FROM team_users
		WHERE team_id = $1 AND user_id = $2 AND status = 'joined'`

	e := db.ExecutorFromContext(ctx, r.pool)
	var role Role
	if err := e.QueryRow(ctx, query, teamID, userID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoMembership
		}
		return "", fmt.Errorf("querying member role: %w", err)
	}

	return role, nil
}

// ListTeamsForUser returns the teams the user is an active member of.
func (r *PostgresRepository) ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]TeamSummary, error) {
	query := `
		SELECT t.team_id, t.team_unique_id, t.team_name, t.team_avatar,
			t.team_namespace, t.description, tu.role, tu.joined_at
		FROM team_users tu
		JOIN teams t ON t.team_id = tu.team_id
		WHERE tu.user_id = $1 AND tu.status = 'joined'
		ORDER BY tu.joined_at ASC`

	e := db.ExecutorFromContext(ctx, r.pool)
	rows, err := e.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams for user: %w", err)
	}
	defer rows.Close()

	teams := []TeamSummary{}
	for rows.Next() {
		var s TeamSummary
		err := rows.Scan(&s.TeamID, &s.UniqueID, &s.Name, &s.Avatar,
			&s.Namespace, &s.Description, &s.Role, &s.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team summary row: %w", err)
		}
		teams = append(teams, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team summary rows: %w", err)
	}

	return teams, nil
}

// ListMembersForTeam returns all membership rows for a team, joined members
// first.
func (r *PostgresRepository) ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]MemberSummary, error) {
	query := `
		SELECT u.user_id, u.username, u.display_name, u.email, u.avatar,
			tu.role, tu.status, tu.joined_at, tu.left_at
		FROM team_users tu
		JOIN users u ON u.user_id = tu.user_id
		WHERE tu.team_id = $1
		ORDER BY tu.status = 'joined' DESC, tu.joined_at ASC`

	e := db.ExecutorFromContext(ctx, r.pool)
	rows, err := e.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members for team: %w", err)
	}
	defer rows.Close()

	members := []MemberSummary{}
	for rows.Next() {
		var s MemberSummary
		err := rows.Scan(&s.UserID, &s.Username, &s.DisplayName, &s.Email,
			&s.Avatar, &s.Role, &s.Status, &s.JoinedAt, &s.LeftAt)
		if err != nil {
			return nil, fmt.Errorf("scanning member summary row: %w", err)
		}
		members = append(members, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member summary rows: %w", err)
	}

	return members, nil
}

// IsActiveMember reports whether a joined row exists for the pair.
func (r *PostgresRepository) IsActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM team_users
			WHERE team_id = $1 AND user_id = $2 AND status = 'joined')`

	e := db.ExecutorFromContext(ctx, r.pool)
	var exists bool
	if err := e.QueryRow(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking active membership: %w", err)
	}

	return exists, nil
}

// MarkAllLeftForUser bulk-marks every membership of a user as left.
func (r *PostgresRepository) MarkAllLeftForUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE team_users
		SET status = 'left', left_at = now()
		WHERE user_id = $1 AND status = 'joined'`

	e := db.ExecutorFromContext(ctx, r.pool)
	if _, err := e.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("marking memberships left: %w", err)
	}

	return nil
}

// DeleteAllForTeam hard-deletes every membership row of a team.
func (r *PostgresRepository) DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error {
	e := db.ExecutorFromContext(ctx, r.pool)
	if _, err := e.Exec(ctx, `DELETE FROM team_users WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("deleting team memberships: %w", err)
	}

	return nil
}
