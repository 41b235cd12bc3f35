package membership_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/crewdeck/crewdeck/internal/membership"
)

// passthroughTransactor runs the function without a real transaction.
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Insert(ctx context.Context, mem *membership.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *mockRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*membership.Membership, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, mem *membership.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *mockRepository) ActiveRole(ctx context.Context, teamID, userID uuid.UUID) (membership.Role, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(membership.Role), args.Error(1)
}

func (m *mockRepository) ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]membership.TeamSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.TeamSummary), args.Error(1)
}

func (m *mockRepository) ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]membership.MemberSummary, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.MemberSummary), args.Error(1)
}

func (m *mockRepository) IsActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) MarkAllLeftForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockRepository) DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}
