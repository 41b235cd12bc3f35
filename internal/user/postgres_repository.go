package user

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

const userColumns = `user_id, unique_id, email, username, display_name, avatar,
	default_team_id, password_hash, status, created_at, updated_at`

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.UniqueID, &u.Email, &u.Username, &u.DisplayName,
		&u.Avatar, &u.DefaultTeamID, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts a new user record.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (unique_id, email, username, display_name, avatar, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, status, created_at, updated_at`

	e := db.ExecutorFromContext(ctx, r.pool)
	err := e.QueryRow(ctx, query, u.UniqueID, u.Email, u.Username, u.DisplayName, u.Avatar, u.PasswordHash).
		Scan(&u.ID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if conflictErr := mapUniqueViolation(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	e := db.ExecutorFromContext(ctx, r.pool)
	var u User
	if err := scanUser(e.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a single user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	e := db.ExecutorFromContext(ctx, r.pool)
	var u User
	if err := scanUser(e.QueryRow(ctx, query, email), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return &u, nil
}

// EmailExists reports whether any user holds the given email.
func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	e := db.ExecutorFromContext(ctx, r.pool)
	var exists bool
	err := e.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// UsernameExists reports whether any user holds the given username.
func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	e := db.ExecutorFromContext(ctx, r.pool)
	var exists bool
	err := e.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}
	return exists, nil
}

// List retrieves all users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	e := db.ExecutorFromContext(ctx, r.pool)
	rows, err := e.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListPage retrieves one page of users ordered by creation time and the
// total number of users.
func (r *PostgresRepository) ListPage(ctx context.Context, offset, limit int) ([]User, int, error) {
	e := db.ExecutorFromContext(ctx, r.pool)

	var total int
	if err := e.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC OFFSET $1 LIMIT $2`
	rows, err := e.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing user page: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update persists the mutable fields of a user.
func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET unique_id = $2, email = $3, username = $4, display_name = $5,
			avatar = $6, default_team_id = $7, password_hash = $8, status = $9,
			updated_at = now()
		WHERE user_id = $1
		RETURNING updated_at`

	e := db.ExecutorFromContext(ctx, r.pool)
	err := e.QueryRow(ctx, query, u.ID, u.UniqueID, u.Email, u.Username, u.DisplayName,
		u.Avatar, u.DefaultTeamID, u.PasswordHash, u.Status).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if conflictErr := mapUniqueViolation(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

// Delete removes a user by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	e := db.ExecutorFromContext(ctx, r.pool)
	result, err := e.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.UniqueID, &u.Email, &u.Username, &u.DisplayName,
			&u.Avatar, &u.DefaultTeamID, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return users, nil
}

// mapUniqueViolation translates Postgres unique-violation errors into the
// package's conflict sentinels, or returns nil for unrelated errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return ErrUsernameTaken
	default:
		return ErrEmailTaken
	}
}
