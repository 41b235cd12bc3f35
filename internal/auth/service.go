package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/user"
)

// UserDirectory is the slice of the user service the auth flows need.
type UserDirectory interface {
	Create(ctx context.Context, in user.CreateInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Update(ctx context.Context, id uuid.UUID, in user.UpdateInput) (*user.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*user.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, newPassword string) error
}

// Session is an issued bearer token together with the user it identifies.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// Service implements login and token lifecycle on top of the user directory.
// It holds no session state: a token is valid until its natural expiry.
type Service struct {
	users UserDirectory
	codec *TokenCodec
	ttl   time.Duration
}

// NewService creates a new auth Service. ttl is the lifetime of issued tokens.
func NewService(users UserDirectory, codec *TokenCodec, ttl time.Duration) *Service {
	return &Service{
		users: users,
		codec: codec,
		ttl:   ttl,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, in user.CreateInput) (*user.User, error) {
	return s.users.Create(ctx, in)
}

// Login verifies the credentials and issues a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// VerifyToken resolves a bearer token to the id of the user it was issued to.
func (s *Service) VerifyToken(token string) (uuid.UUID, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// UserFromToken verifies a token and loads the user behind it.
func (s *Service) UserFromToken(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, claims.UserID)
}

// Refresh re-issues a token from an existing one. The old token's signature
// must verify but its expiry is not checked: holding a signed token is proof
// of a past login. The user must still exist.
func (s *Service) Refresh(ctx context.Context, token string) (*Session, error) {
	claims, err := s.codec.ExtractUnchecked(token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

// UpdateUserByToken applies a profile update to the token's user.
func (s *Service) UpdateUserByToken(ctx context.Context, token string, in user.UpdateInput) (*user.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.users.Update(ctx, claims.UserID, in)
}

// ChangePassword sets a new password for the token's user. The token must
// verify in full: a password change is never allowed on an expired token.
func (s *Service) ChangePassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordByEmail(ctx, u.Email, newPassword)
}

func (s *Service) issue(u *user.User) (*Session, error) {
	token, expiresAt, err := s.codec.Sign(u.ID, s.ttl)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u,
	}, nil
}
