package validation

import (
	"net/mail"
	"strings"
)

// RegisterRequest mirrors the fields needed for register validation.
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// ValidateRegisterRequest validates the fields of a registration request.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	} else if len(username) > 64 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be at most 64 characters"})
	}

	if strings.TrimSpace(req.Password) == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(req.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}

	return errs
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// UpdatePasswordRequest mirrors the fields needed for password change
// validation.
type UpdatePasswordRequest struct {
	NewPassword string
}

// ValidateUpdatePasswordRequest validates the fields of a password change
// request.
func ValidateUpdatePasswordRequest(req UpdatePasswordRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.NewPassword) == "" {
		errs = append(errs, FieldError{Field: "newPassword", Message: "newPassword is required"})
	} else if len(req.NewPassword) < 6 {
		errs = append(errs, FieldError{Field: "newPassword", Message: "newPassword must be at least 6 characters"})
	}

	return errs
}

// UpdateUserRequest mirrors the optional fields of a profile update.
type UpdateUserRequest struct {
	Email    *string
	Username *string
}

// ValidateUpdateUserRequest validates the present fields of a profile update.
func ValidateUpdateUserRequest(req UpdateUserRequest) []FieldError {
	var errs []FieldError

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			errs = append(errs, FieldError{Field: "email", Message: "email cannot be empty"})
		} else if _, err := mail.ParseAddress(email); err != nil {
			errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
		}
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username cannot be empty"})
	}

	return errs
}
