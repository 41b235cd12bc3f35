package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrNamespaceTaken is returned when a team with the same namespace already
// exists.
var ErrNamespaceTaken = errors.New("team namespace already taken")

// Repository provides CRUD operations on the teams table.
type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	NamespaceExists(ctx context.Context, namespace string) (bool, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id uuid.UUID) error
}
