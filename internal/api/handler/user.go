package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/api/middleware"
	"github.com/crewdeck/crewdeck/internal/api/response"
	"github.com/crewdeck/crewdeck/internal/user"
)

// UserService is the slice of the user service the handlers need.
type UserService interface {
	List(ctx context.Context) ([]user.User, error)
	ListPage(ctx context.Context, page, size int) (*user.Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipCleaner clears a user's memberships before account deletion.
type MembershipCleaner interface {
	ClearAllForUser(ctx context.Context, userID uuid.UUID) error
}

type userResponse struct {
	ID            string  `json:"id"`
	UniqueID      string  `json:"uniqueId"`
	Email         string  `json:"email"`
	Username      *string `json:"username,omitempty"`
	DisplayName   *string `json:"displayName,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
	DefaultTeamID *string `json:"defaultTeamId,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toUserResponse(u *user.User) userResponse {
	resp := userResponse{
		ID:          u.ID.String(),
		UniqueID:    u.UniqueID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   u.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if u.DefaultTeamID != nil {
		id := u.DefaultTeamID.String()
		resp.DefaultTeamID = &id
	}
	return resp
}

type userPageResponse struct {
	Users      []userResponse `json:"users"`
	TotalPages int            `json:"totalPages"`
}

// UserHandler handles user listing and account decommission endpoints.
type UserHandler struct {
	users   UserService
	members MembershipCleaner
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserService, members MembershipCleaner) *UserHandler {
	return &UserHandler{users: users, members: members}
}

// ListAll handles GET /users/all.
func (h *UserHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.OK(w, items)
}

// ListPage handles GET /users/list?page=&size=. Out-of-range values fall
// back to page 1 and size 10.
func (h *UserHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	result, err := h.users.ListPage(r.Context(), page, size)
	if err != nil {
		slog.Error("failed to list users page", "error", err)
		response.Err(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	items := make([]userResponse, 0, len(result.Users))
	for i := range result.Users {
		items = append(items, toUserResponse(&result.Users[i]))
	}

	response.OK(w, userPageResponse{
		Users:      items,
		TotalPages: result.TotalPages,
	})
}

// DeleteMe handles DELETE /users/me. All of the user's memberships are
// marked left before the account row is removed.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.members.ClearAllForUser(r.Context(), userID); err != nil {
		slog.Error("failed to clear memberships", "error", err, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("failed to delete user", "error", err, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	response.Success(w, http.StatusOK, "account deleted", nil)
}

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
