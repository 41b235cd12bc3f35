package handler_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/crewdeck/crewdeck/internal/activity"
	"github.com/crewdeck/crewdeck/internal/auth"
	"github.com/crewdeck/crewdeck/internal/membership"
	"github.com/crewdeck/crewdeck/internal/team"
	"github.com/crewdeck/crewdeck/internal/user"
)

// stubVerifier satisfies middleware.TokenVerifier for authed handler tests.
type stubVerifier struct {
	userID uuid.UUID
	err    error
}

func (s stubVerifier) VerifyToken(token string) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.userID, nil
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, in user.CreateInput) (*user.User, error) {
	args := m.Called(ctx, in)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	if s := args.Get(0); s != nil {
		return s.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) UserFromToken(ctx context.Context, token string) (*user.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, token string) (*auth.Session, error) {
	args := m.Called(ctx, token)
	if s := args.Get(0); s != nil {
		return s.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) UpdateUserByToken(ctx context.Context, token string, in user.UpdateInput) (*user.User, error) {
	args := m.Called(ctx, token, in)
	if u := args.Get(0); u != nil {
		return u.(*user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

type mockTeamService struct {
	mock.Mock
}

func (m *mockTeamService) Create(ctx context.Context, creatorID uuid.UUID, in team.CreateInput) (*team.Team, error) {
	args := m.Called(ctx, creatorID, in)
	if t := args.Get(0); t != nil {
		return t.(*team.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*team.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) Update(ctx context.Context, teamID, actorID uuid.UUID, in team.UpdateInput) (*team.Team, error) {
	args := m.Called(ctx, teamID, actorID, in)
	if t := args.Get(0); t != nil {
		return t.(*team.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, actorID)
	return args.Error(0)
}

func (m *mockTeamService) Activity(ctx context.Context, teamID, actorID uuid.UUID) ([]activity.Entry, error) {
	args := m.Called(ctx, teamID, actorID)
	if es := args.Get(0); es != nil {
		return es.([]activity.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMembershipService struct {
	mock.Mock
}

func (m *mockMembershipService) Join(ctx context.Context, teamID, userID uuid.UUID, role membership.Role) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *mockMembershipService) RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error {
	args := m.Called(ctx, teamID, actorID, targetID)
	return args.Error(0)
}

func (m *mockMembershipService) ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]membership.TeamSummary, error) {
	args := m.Called(ctx, userID)
	if ts := args.Get(0); ts != nil {
		return ts.([]membership.TeamSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMembershipService) ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]membership.MemberSummary, error) {
	args := m.Called(ctx, teamID)
	if ms := args.Get(0); ms != nil {
		return ms.([]membership.MemberSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if us := args.Get(0); us != nil {
		return us.([]user.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) ListPage(ctx context.Context, page, size int) (*user.Page, error) {
	args := m.Called(ctx, page, size)
	if p := args.Get(0); p != nil {
		return p.(*user.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMembershipCleaner struct {
	mock.Mock
}

func (m *mockMembershipCleaner) ClearAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

type badPinger struct{}

func (badPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }
