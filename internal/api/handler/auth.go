package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewdeck/crewdeck/internal/api/middleware"
	"github.com/crewdeck/crewdeck/internal/api/response"
	"github.com/crewdeck/crewdeck/internal/api/validation"
	"github.com/crewdeck/crewdeck/internal/auth"
	"github.com/crewdeck/crewdeck/internal/user"
)

// AuthService is the slice of the auth service the handlers need.
type AuthService interface {
	Register(ctx context.Context, in user.CreateInput) (*user.User, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	UserFromToken(ctx context.Context, token string) (*user.User, error)
	Refresh(ctx context.Context, token string) (*auth.Session, error)
	UpdateUserByToken(ctx context.Context, token string, in user.UpdateInput) (*user.User, error)
	ChangePassword(ctx context.Context, token, newPassword string) error
}

type registerRequest struct {
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	DisplayName *string `json:"displayName"`
	Avatar      *string `json:"avatar"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type updateInfoRequest struct {
	Email         *string `json:"email"`
	Username      *string `json:"username"`
	DisplayName   *string `json:"displayName"`
	Avatar        *string `json:"avatar"`
	DefaultTeamID *string `json:"defaultTeamId"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func toSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		User:      toUserResponse(s.User),
	}
}

// AuthHandler handles registration, login and token lifecycle endpoints.
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateRegisterRequest(validation.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	u, err := h.svc.Register(r.Context(), user.CreateInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			response.Err(w, http.StatusConflict, "email is already registered")
		case errors.Is(err, user.ErrUsernameTaken):
			response.Err(w, http.StatusConflict, "username is already taken")
		case errors.Is(err, user.ErrInvalidInput):
			response.Err(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to register user", "error", err)
			response.Err(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	response.Success(w, http.StatusCreated, "registered", toUserResponse(u))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password are reported identically.
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		slog.Error("failed to log in", "error", err)
		response.Err(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	response.OK(w, toSessionResponse(session))
}

// Logout handles GET /auth/logout. Tokens carry no server-side state, so
// logout just acknowledges; the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "logged out", nil)
}

// Info handles GET /auth/info.
func (h *AuthHandler) Info(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetBearerToken(r.Context())

	u, err := h.svc.UserFromToken(r.Context(), token)
	if err != nil {
		writeTokenUserError(w, err, "failed to load user info")
		return
	}

	response.OK(w, toUserResponse(u))
}

// ResetToken handles GET /auth/reset-token. It is served outside the auth
// middleware: an expired token is still accepted here, only its signature
// must verify.
func (h *AuthHandler) ResetToken(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		response.Err(w, http.StatusUnauthorized, "authorization token is required")
		return
	}

	session, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		writeTokenUserError(w, err, "failed to refresh token")
		return
	}

	response.OK(w, toSessionResponse(session))
}

// ForgotPassword handles POST /auth/forgot-password. The request is only
// acknowledged: with no way to prove ownership of the email, the server must
// not act on it, and the uniform response leaks nothing about which emails
// have accounts. Logged-in users change their password via update-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	response.Success(w, http.StatusOK, "password reset requested", nil)
}

// UpdatePassword handles POST /auth/update-password. It sets a new password
// for the authenticated user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateUpdatePasswordRequest(validation.UpdatePasswordRequest{
		NewPassword: req.NewPassword,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.svc.ChangePassword(r.Context(), token, req.NewPassword); err != nil {
		writeTokenUserError(w, err, "failed to update password")
		return
	}

	response.Success(w, http.StatusOK, "password updated", nil)
}

// UpdateInfo handles POST /auth/update-info.
func (h *AuthHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateUpdateUserRequest(validation.UpdateUserRequest{
		Email:    req.Email,
		Username: req.Username,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	in := user.UpdateInput{
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	}
	if req.DefaultTeamID != nil {
		teamID, err := parseUUID(*req.DefaultTeamID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "defaultTeamId must be a valid UUID")
			return
		}
		in.DefaultTeamID = &teamID
	}

	u, err := h.svc.UpdateUserByToken(r.Context(), middleware.GetBearerToken(r.Context()), in)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			response.Err(w, http.StatusUnauthorized, "invalid or expired token")
		case errors.Is(err, user.ErrEmailTaken):
			response.Err(w, http.StatusConflict, "email is already registered")
		case errors.Is(err, user.ErrUsernameTaken):
			response.Err(w, http.StatusConflict, "username is already taken")
		case errors.Is(err, user.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, "user not found")
		case errors.Is(err, user.ErrInvalidInput):
			response.Err(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to update user info", "error", err)
			response.Err(w, http.StatusInternalServerError, "failed to update user info")
		}
		return
	}

	response.OK(w, toUserResponse(u))
}

func writeTokenUserError(w http.ResponseWriter, err error, internalMsg string) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		response.Err(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, user.ErrUserNotFound):
		response.Err(w, http.StatusUnauthorized, "invalid or expired token")
	default:
		slog.Error(internalMsg, "error", err)
		response.Err(w, http.StatusInternalServerError, internalMsg)
	}
}
