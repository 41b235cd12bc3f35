package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when another user already holds the email.
var ErrEmailTaken = errors.New("email already taken")

// ErrUsernameTaken is returned when another user already holds the username.
var ErrUsernameTaken = errors.New("username already taken")

// Repository provides CRUD operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]User, error)
	// ListPage returns one page of users ordered by creation time, plus the
	// total row count.
	ListPage(ctx context.Context, offset, limit int) ([]User, int, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
