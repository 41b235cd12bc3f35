package team

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/activity"
	"github.com/crewdeck/crewdeck/internal/db"
	"github.com/crewdeck/crewdeck/internal/fingerprint"
	"github.com/crewdeck/crewdeck/internal/membership"
	"github.com/crewdeck/crewdeck/internal/user"
)

// ErrInvalidInput is wrapped by validation failures on create and update.
var ErrInvalidInput = errors.New("invalid input")

// CreateInput carries the fields for creating a team.
type CreateInput struct {
	Name        string
	Namespace   string
	Avatar      *string
	Description *string
}

// UpdateInput carries a partial team update. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Namespace   *string
	Avatar      *string
	Description *string
}

// Service implements the team directory. Mutations that require a role are
// gated here, with the permission check and the write in one transaction.
type Service struct {
	repo     Repository
	members  membership.Repository
	users    user.Repository
	tx       db.Transactor
	recorder *activity.Recorder
}

// NewService creates a new team Service. recorder may be nil.
func NewService(repo Repository, members membership.Repository, users user.Repository, tx db.Transactor, recorder *activity.Recorder) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		users:    users,
		tx:       tx,
		recorder: recorder,
	}
}

// Create creates a team and joins the creator as Owner in the same
// transaction. The creator's default team is set when they have none yet.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, in CreateInput) (*Team, error) {
	if isBlank(in.Name) {
		return nil, fmt.Errorf("%w: team name cannot be empty", ErrInvalidInput)
	}
	if isBlank(in.Namespace) {
		return nil, fmt.Errorf("%w: team namespace cannot be empty", ErrInvalidInput)
	}

	t := &Team{
		UniqueID:    fingerprint.New(in.Namespace),
		Name:        in.Name,
		Avatar:      in.Avatar,
		Namespace:   in.Namespace,
		Description: in.Description,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.repo.NamespaceExists(ctx, in.Namespace)
		if err != nil {
			return err
		}
		if taken {
			return ErrNamespaceTaken
		}

		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}

		err = s.members.Insert(ctx, &membership.Membership{
			TeamID: t.ID,
			UserID: creatorID,
			Role:   membership.RoleOwner,
			Status: membership.StatusJoined,
		})
		if err != nil {
			return err
		}

		creator, err := s.users.GetByID(ctx, creatorID)
		if err != nil {
			return err
		}
		if creator.DefaultTeamID == nil {
			creator.DefaultTeamID = &t.ID
			if err := s.users.Update(ctx, creator); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, creatorID, activity.ActionCreated, activity.TargetTeam, t.ID, t.Namespace)
	return t, nil
}

// GetByID retrieves a team by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all teams.
func (s *Service) List(ctx context.Context) ([]Team, error) {
	return s.repo.List(ctx)
}

// NamespaceExists reports whether a team with the given namespace exists.
func (s *Service) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	return s.repo.NamespaceExists(ctx, namespace)
}

// activityLimit bounds a single activity read.
const activityLimit = 50

// Activity returns recent activity entries for the team, newest first. The
// actor must hold an active Owner or Admin role.
func (s *Service) Activity(ctx context.Context, teamID, actorID uuid.UUID) ([]activity.Entry, error) {
	role, err := s.members.ActiveRole(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !role.CanUpdateTeam() {
		return nil, membership.ErrPermissionDenied
	}

	return s.recorder.Recent(ctx, activity.TargetTeam, teamID, activityLimit)
}

// Update applies a partial team update on behalf of actorID, who must hold an
// active Owner or Admin role in the team. A namespace change re-derives the
// fingerprint and re-checks uniqueness.
func (s *Service) Update(ctx context.Context, teamID, actorID uuid.UUID, in UpdateInput) (*Team, error) {
	var t *Team
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		role, err := s.members.ActiveRole(ctx, teamID, actorID)
		if err != nil {
			return err
		}
		if !role.CanUpdateTeam() {
			return membership.ErrPermissionDenied
		}

		t, err = s.repo.GetByID(ctx, teamID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			if isBlank(*in.Name) {
				return fmt.Errorf("%w: team name cannot be empty", ErrInvalidInput)
			}
			t.Name = *in.Name
		}

		if in.Namespace != nil && *in.Namespace != t.Namespace {
			if isBlank(*in.Namespace) {
				return fmt.Errorf("%w: team namespace cannot be empty", ErrInvalidInput)
			}
			taken, err := s.repo.NamespaceExists(ctx, *in.Namespace)
			if err != nil {
				return err
			}
			if taken {
				return ErrNamespaceTaken
			}
			t.Namespace = *in.Namespace
			t.UniqueID = fingerprint.New(*in.Namespace)
		}

		if in.Avatar != nil {
			t.Avatar = in.Avatar
		}
		if in.Description != nil {
			t.Description = in.Description
		}

		return s.repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, actorID, activity.ActionUpdated, activity.TargetTeam, teamID, t.Namespace)
	return t, nil
}

// Delete removes a team on behalf of actorID, who must hold an active Owner
// role. Membership rows are cleared first, inside the same transaction.
func (s *Service) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		role, err := s.members.ActiveRole(ctx, teamID, actorID)
		if err != nil {
			return err
		}
		if !role.CanRemoveTeam() {
			return membership.ErrPermissionDenied
		}

		if err := s.members.DeleteAllForTeam(ctx, teamID); err != nil {
			return err
		}

		return s.repo.Delete(ctx, teamID)
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, activity.ActionRemoved, activity.TargetTeam, teamID, "")
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
