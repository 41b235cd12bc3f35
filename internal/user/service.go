package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/fingerprint"
	"github.com/crewdeck/crewdeck/internal/password"
)

// ErrInvalidInput is wrapped by validation failures on create and update.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidCredentials is returned when a password does not match the stored
// hash. The API surfaces it and ErrUserNotFound identically so callers cannot
// probe which of email or password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// CreateInput carries the fields for registering a user.
type CreateInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName *string
	Avatar      *string
}

// UpdateInput carries a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Email         *string
	Username      *string
	DisplayName   *string
	Avatar        *string
	DefaultTeamID *uuid.UUID
}

// Page is one page of users plus the total page count for the same page size.
type Page struct {
	Users      []User
	TotalPages int
}

// Service implements the user directory: registration, profile updates,
// credential verification and paged listing.
type Service struct {
	repo   Repository
	hasher *password.Hasher
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher *password.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Create registers a new user. The raw password is hashed before it reaches
// the repository and is never stored or logged.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if isBlank(in.Email) {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}
	if isBlank(in.Username) {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if isBlank(in.Password) {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}

	taken, err := s.repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.repo.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	username := in.Username
	u := &User{
		UniqueID:     fingerprint.New(in.Email),
		Email:        in.Email,
		Username:     &username,
		DisplayName:  in.DisplayName,
		Avatar:       in.Avatar,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// GetByID retrieves a user by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// EmailExists reports whether a user with the given email exists.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

// List retrieves all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// ListPage retrieves one page of users. Page numbers are 1-based; page 0 and
// size 0 normalize to the defaults (1 and 10).
func (s *Service) ListPage(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}

	users, total, err := s.repo.ListPage(ctx, (page-1)*size, size)
	if err != nil {
		return nil, err
	}

	totalPages := (total + size - 1) / size
	return &Page{Users: users, TotalPages: totalPages}, nil
}

// Update applies a partial profile update. Changed emails and usernames are
// re-checked for uniqueness against all other users; an email change
// re-derives the fingerprint.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if isBlank(*in.Email) {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
		}
		if other, err := s.repo.GetByEmail(ctx, *in.Email); err == nil && other.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		u.Email = *in.Email
		u.UniqueID = fingerprint.New(*in.Email)
	}

	if in.Username != nil {
		if isBlank(*in.Username) {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
		}
		if u.Username == nil || *u.Username != *in.Username {
			taken, err := s.repo.UsernameExists(ctx, *in.Username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameTaken
			}
		}
		u.Username = in.Username
	}

	if in.DisplayName != nil {
		u.DisplayName = in.DisplayName
	}
	if in.Avatar != nil {
		u.Avatar = in.Avatar
	}
	if in.DefaultTeamID != nil {
		u.DefaultTeamID = in.DefaultTeamID
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// VerifyCredentials resolves an email/password pair to the matching user.
// Returns ErrUserNotFound for an unknown email and ErrInvalidCredentials for
// a wrong password; the distinction exists for server-side logging only.
func (s *Service) VerifyCredentials(ctx context.Context, email, pass string) (*User, error) {
	if isBlank(pass) {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(u.PasswordHash, pass); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return u, nil
}

// UpdatePasswordByEmail replaces the stored password hash for the user with
// the given email.
func (s *Service) UpdatePasswordByEmail(ctx context.Context, email, newPassword string) error {
	if isBlank(newPassword) {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
