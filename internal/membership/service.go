package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/activity"
	"github.com/crewdeck/crewdeck/internal/db"
)

// ErrInvalidRole is returned when a join request names an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// Service implements the membership registry: joins, leaves, role lookups and
// the role-gated member-removal flow.
type Service struct {
	repo     Repository
	tx       db.Transactor
	recorder *activity.Recorder
}

// NewService creates a new membership Service. recorder may be nil.
func NewService(repo Repository, tx db.Transactor, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, tx: tx, recorder: recorder}
}

// Join adds userID to teamID with the given role. An active membership is a
// conflict; a previously-left row is reactivated in place with the new role.
func (s *Service) Join(ctx context.Context, teamID, userID uuid.UUID, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	// Owner is granted once, to the creator, when the team is created.
	if role == RoleOwner {
		return fmt.Errorf("%w: %s is reserved for the team creator", ErrInvalidRole, RoleOwner)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Get(ctx, teamID, userID)
		if err != nil && !errors.Is(err, ErrNoMembership) {
			return err
		}

		if existing == nil {
			return s.repo.Insert(ctx, &Membership{
				TeamID: teamID,
				UserID: userID,
				Role:   role,
				Status: StatusJoined,
			})
		}

		if existing.Status == StatusJoined {
			return ErrAlreadyMember
		}

		// Reactivate the left row rather than inserting a duplicate.
		existing.Role = role
		existing.Status = StatusJoined
		existing.JoinedAt = time.Now().UTC()
		existing.LeftAt = nil
		return s.repo.Update(ctx, existing)
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, userID, activity.ActionCreated, activity.TargetRole, teamID,
		fmt.Sprintf("joined as %s", role))
	return nil
}

// Leave marks the membership of userID in teamID as left. Idempotent: a
// missing row and an already-left row both succeed silently.
func (s *Service) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	left := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		m, err := s.repo.Get(ctx, teamID, userID)
		if errors.Is(err, ErrNoMembership) {
			return nil
		}
		if err != nil {
			return err
		}
		if m.Status == StatusLeft {
			return nil
		}

		now := time.Now().UTC()
		m.Status = StatusLeft
		m.LeftAt = &now
		left = true
		return s.repo.Update(ctx, m)
	})
	if err != nil {
		return err
	}

	if left {
		s.recorder.Record(ctx, userID, activity.ActionRemoved, activity.TargetRole, teamID, "left team")
	}
	return nil
}

// RemoveMember lets actorID remove targetID from teamID. The actor must hold
// an active Owner or Admin role and cannot remove themself. The role check
// and the removal run in one transaction.
func (s *Service) RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrCannotRemoveSelf
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		role, err := s.repo.ActiveRole(ctx, teamID, actorID)
		if err != nil {
			return err
		}
		if !role.CanRemoveMember() {
			return ErrPermissionDenied
		}

		m, err := s.repo.Get(ctx, teamID, targetID)
		if errors.Is(err, ErrNoMembership) {
			return nil
		}
		if err != nil {
			return err
		}
		if m.Status == StatusLeft {
			return nil
		}

		now := time.Now().UTC()
		m.Status = StatusLeft
		m.LeftAt = &now
		return s.repo.Update(ctx, m)
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, activity.ActionRemoved, activity.TargetUser, targetID,
		"removed from team "+teamID.String())
	return nil
}

// RoleOf returns the active role userID holds in teamID. Left memberships do
// not count; absence is ErrNoMembership.
func (s *Service) RoleOf(ctx context.Context, teamID, userID uuid.UUID) (Role, error) {
	return s.repo.ActiveRole(ctx, teamID, userID)
}

// ListTeamsForUser returns the teams the user is an active member of.
func (s *Service) ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]TeamSummary, error) {
	return s.repo.ListTeamsForUser(ctx, userID)
}

// ListMembersForTeam returns every membership row of the team, joined
// members first.
func (s *Service) ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]MemberSummary, error) {
	return s.repo.ListMembersForTeam(ctx, teamID)
}

// IsActiveMember reports whether userID currently holds a joined membership
// in teamID.
func (s *Service) IsActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return s.repo.IsActiveMember(ctx, teamID, userID)
}

// ClearAllForUser marks every membership of a user as left. Used when an
// account is decommissioned.
func (s *Service) ClearAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllLeftForUser(ctx, userID)
}

// ClearAllForTeam hard-deletes every membership row of a team. Called before
// a team itself is deleted.
func (s *Service) ClearAllForTeam(ctx context.Context, teamID uuid.UUID) error {
	return s.repo.DeleteAllForTeam(ctx, teamID)
}
