package team_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/crewdeck/crewdeck/internal/activity"
	"github.com/crewdeck/crewdeck/internal/membership"
	"github.com/crewdeck/crewdeck/internal/team"
	"github.com/crewdeck/crewdeck/internal/user"
)

// passthroughTransactor runs the function without a real transaction.
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type mockTeamRepository struct {
	mock.Mock
}

func (m *mockTeamRepository) Create(ctx context.Context, t *team.Team) error {
	args := m.Called(ctx, t)
	if args.Error(0) == nil {
		t.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Team), args.Error(1)
}

func (m *mockTeamRepository) List(ctx context.Context) ([]team.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]team.Team), args.Error(1)
}

func (m *mockTeamRepository) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	args := m.Called(ctx, namespace)
	return args.Bool(0), args.Error(1)
}

func (m *mockTeamRepository) Update(ctx context.Context, t *team.Team) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMembershipRepository struct {
	mock.Mock
}

func (m *mockMembershipRepository) Insert(ctx context.Context, mem *membership.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *mockMembershipRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*membership.Membership, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *mockMembershipRepository) Update(ctx context.Context, mem *membership.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *mockMembershipRepository) ActiveRole(ctx context.Context, teamID, userID uuid.UUID) (membership.Role, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(membership.Role), args.Error(1)
}

func (m *mockMembershipRepository) ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]membership.TeamSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.TeamSummary), args.Error(1)
}

func (m *mockMembershipRepository) ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]membership.MemberSummary, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.MemberSummary), args.Error(1)
}

func (m *mockMembershipRepository) IsActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMembershipRepository) MarkAllLeftForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockMembershipRepository) DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *mockUserRepository) ListPage(ctx context.Context, offset, limit int) ([]user.User, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]user.User), args.Int(1), args.Error(2)
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubActivityRepository keeps entries in memory for activity reads.
type stubActivityRepository struct {
	entries []activity.Entry
}

func (r *stubActivityRepository) Insert(ctx context.Context, e *activity.Entry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubActivityRepository) ListForTarget(ctx context.Context, targetType activity.TargetType, targetID uuid.UUID, limit int) ([]activity.Entry, error) {
	var out []activity.Entry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i]
		if e.TargetType == targetType && e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}
