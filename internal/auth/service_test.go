package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crewdeck/crewdeck/internal/auth"
	"github.com/crewdeck/crewdeck/internal/user"
)

func newAuthService(t *testing.T, users *mockUserDirectory) *auth.Service {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)
	return auth.NewService(users, codec, 10*time.Minute)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "jo@example.com"}

	users := &mockUserDirectory{}
	users.On("VerifyCredentials", mock.Anything, "jo@example.com", "pass123").Return(u, nil)

	svc := newAuthService(t, users)
	session, err := svc.Login(context.Background(), "jo@example.com", "pass123")
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, u, session.User)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), session.ExpiresAt, 5*time.Second)

	gotID, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gotID)
}

func TestLogin_BadCredentials(t *testing.T) {
	users := &mockUserDirectory{}
	users.On("VerifyCredentials", mock.Anything, "jo@example.com", "wrong").
		Return(nil, user.ErrInvalidCredentials)

	svc := newAuthService(t, users)
	_, err := svc.Login(context.Background(), "jo@example.com", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRegister_DelegatesToDirectory(t *testing.T) {
	in := user.CreateInput{Email: "jo@example.com", Username: "jo", Password: "pass123"}
	created := &user.User{ID: uuid.New(), Email: in.Email}

	users := &mockUserDirectory{}
	users.On("Create", mock.Anything, in).Return(created, nil)

	svc := newAuthService(t, users)
	got, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUserFromToken(t *testing.T) {
	u := &user.User{ID: uuid.New()}

	users := &mockUserDirectory{}
	users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
	users.On("VerifyCredentials", mock.Anything, mock.Anything, mock.Anything).Return(u, nil)

	svc := newAuthService(t, users)
	session, err := svc.Login(context.Background(), "x", "y")
	require.NoError(t, err)

	got, err := svc.UserFromToken(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserFromToken_InvalidToken(t *testing.T) {
	svc := newAuthService(t, &mockUserDirectory{})
	_, err := svc.UserFromToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_AcceptsExpiredToken(t *testing.T) {
	u := &user.User{ID: uuid.New()}
	codec, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)

	expired, _, err := codec.Sign(u.ID, -time.Minute)
	require.NoError(t, err)

	users := &mockUserDirectory{}
	users.On("GetByID", mock.Anything, u.ID).Return(u, nil)

	svc := auth.NewService(users, codec, 10*time.Minute)
	session, err := svc.Refresh(context.Background(), expired)
	require.NoError(t, err)

	gotID, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gotID)
}

func TestRefresh_UserGone(t *testing.T) {
	userID := uuid.New()
	codec, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)

	token, _, err := codec.Sign(userID, time.Minute)
	require.NoError(t, err)

	users := &mockUserDirectory{}
	users.On("GetByID", mock.Anything, userID).Return(nil, user.ErrUserNotFound)

	svc := auth.NewService(users, codec, 10*time.Minute)
	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRefresh_RejectsForeignSignature(t *testing.T) {
	other, err := auth.NewTokenCodec("another-secret-5555555")
	require.NoError(t, err)
	token, _, err := other.Sign(uuid.New(), time.Minute)
	require.NoError(t, err)

	svc := newAuthService(t, &mockUserDirectory{})
	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestUpdateUserByToken(t *testing.T) {
	u := &user.User{ID: uuid.New()}
	name := "New Name"

	users := &mockUserDirectory{}
	users.On("VerifyCredentials", mock.Anything, mock.Anything, mock.Anything).Return(u, nil)
	users.On("Update", mock.Anything, u.ID, user.UpdateInput{DisplayName: &name}).
		Return(&user.User{ID: u.ID, DisplayName: &name}, nil)

	svc := newAuthService(t, users)
	session, err := svc.Login(context.Background(), "x", "y")
	require.NoError(t, err)

	got, err := svc.UpdateUserByToken(context.Background(), session.Token, user.UpdateInput{DisplayName: &name})
	require.NoError(t, err)
	require.NotNil(t, got.DisplayName)
	assert.Equal(t, "New Name", *got.DisplayName)
}

func TestChangePassword(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "jo@example.com"}

	users := &mockUserDirectory{}
	users.On("VerifyCredentials", mock.Anything, mock.Anything, mock.Anything).Return(u, nil)
	users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
	users.On("UpdatePasswordByEmail", mock.Anything, "jo@example.com", "newsecret").Return(nil)

	svc := newAuthService(t, users)
	session, err := svc.Login(context.Background(), "jo@example.com", "old")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), session.Token, "newsecret"))
	users.AssertExpectations(t)
}

func TestChangePassword_InvalidToken(t *testing.T) {
	users := &mockUserDirectory{}
	svc := newAuthService(t, users)

	err := svc.ChangePassword(context.Background(), "garbage", "newsecret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	users.AssertNotCalled(t, "UpdatePasswordByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_RejectsExpiredToken(t *testing.T) {
	codec, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)
	expired, _, err := codec.Sign(uuid.New(), -time.Minute)
	require.NoError(t, err)

	users := &mockUserDirectory{}
	svc := auth.NewService(users, codec, 10*time.Minute)

	err = svc.ChangePassword(context.Background(), expired, "newsecret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	users.AssertNotCalled(t, "UpdatePasswordByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_UserGone(t *testing.T) {
	userID := uuid.New()
	codec, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)
	token, _, err := codec.Sign(userID, time.Minute)
	require.NoError(t, err)

	users := &mockUserDirectory{}
	users.On("GetByID", mock.Anything, userID).Return(nil, user.ErrUserNotFound)

	svc := auth.NewService(users, codec, 10*time.Minute)
	err = svc.ChangePassword(context.Background(), token, "newsecret")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	users.AssertNotCalled(t, "UpdatePasswordByEmail", mock.Anything, mock.Anything, mock.Anything)
}
