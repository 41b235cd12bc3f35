package membership

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrAlreadyMember is returned when joining a team the user is already an
// active member of.
var ErrAlreadyMember = errors.New("user is already a member of the team")

// ErrNoMembership is returned when no active membership exists for a
// (team, user) pair.
var ErrNoMembership = errors.New("no membership for team and user")

// ErrPermissionDenied is returned when the acting member's role does not
// allow the requested operation.
var ErrPermissionDenied = errors.New("role does not permit this operation")

// ErrCannotRemoveSelf is returned when a member tries to remove themself
// through the member-removal path.
var ErrCannotRemoveSelf = errors.New("cannot remove yourself from the team")

// Repository owns the team_users join table. It is the only writer of
// role and status transitions.
type Repository interface {
	Insert(ctx context.Context, m *Membership) error
	// Get returns the row for the pair regardless of status, or
	// ErrNoMembership when none exists.
	Get(ctx context.Context, teamID, userID uuid.UUID) (*Membership, error)
	Update(ctx context.Context, m *Membership) error
	// ActiveRole returns the role of a joined member; left rows do not count.
	ActiveRole(ctx context.Context, teamID, userID uuid.UUID) (Role, error)
	ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]TeamSummary, error)
	ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]MemberSummary, error)
	IsActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	MarkAllLeftForUser(ctx context.Context, userID uuid.UUID) error
	DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error
}
