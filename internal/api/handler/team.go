package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/activity"
	"github.com/crewdeck/crewdeck/internal/api/middleware"
	"github.com/crewdeck/crewdeck/internal/api/response"
	"github.com/crewdeck/crewdeck/internal/api/validation"
	"github.com/crewdeck/crewdeck/internal/membership"
	"github.com/crewdeck/crewdeck/internal/team"
)

// TeamService is the slice of the team service the handlers need.
type TeamService interface {
	Create(ctx context.Context, creatorID uuid.UUID, in team.CreateInput) (*team.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error)
	Update(ctx context.Context, teamID, actorID uuid.UUID, in team.UpdateInput) (*team.Team, error)
	Delete(ctx context.Context, teamID, actorID uuid.UUID) error
	Activity(ctx context.Context, teamID, actorID uuid.UUID) ([]activity.Entry, error)
}

// MembershipService is the slice of the membership service the handlers need.
type MembershipService interface {
	Join(ctx context.Context, teamID, userID uuid.UUID, role membership.Role) error
	RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error
	ListTeamsForUser(ctx context.Context, userID uuid.UUID) ([]membership.TeamSummary, error)
	ListMembersForTeam(ctx context.Context, teamID uuid.UUID) ([]membership.MemberSummary, error)
}

type createTeamRequest struct {
	Name        string  `json:"name"`
	Namespace   string  `json:"namespace"`
	Avatar      *string `json:"avatar"`
	Description *string `json:"description"`
}

type updateTeamRequest struct {
	Name        *string `json:"name"`
	Namespace   *string `json:"namespace"`
	Avatar      *string `json:"avatar"`
	Description *string `json:"description"`
}

type joinTeamRequest struct {
	TeamID string `json:"teamId"`
	Role   string `json:"role"`
}

type leaveTeamRequest struct {
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`
}

type teamResponse struct {
	ID          string  `json:"id"`
	UniqueID    string  `json:"uniqueId"`
	Name        string  `json:"name"`
	Avatar      *string `json:"avatar,omitempty"`
	Namespace   string  `json:"namespace"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:          t.ID.String(),
		UniqueID:    t.UniqueID,
		Name:        t.Name,
		Avatar:      t.Avatar,
		Namespace:   t.Namespace,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

type teamSummaryResponse struct {
	ID          string  `json:"id"`
	UniqueID    string  `json:"uniqueId"`
	Name        string  `json:"name"`
	Avatar      *string `json:"avatar,omitempty"`
	Namespace   string  `json:"namespace"`
	Description *string `json:"description,omitempty"`
	Role        string  `json:"role"`
	JoinedAt    string  `json:"joinedAt"`
}

type activityEntryResponse struct {
	ActorID    string  `json:"actorId"`
	Action     string  `json:"action"`
	TargetType string  `json:"targetType"`
	TargetID   string  `json:"targetId"`
	Detail     *string `json:"detail,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

type memberSummaryResponse struct {
	UserID      string  `json:"userId"`
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Email       string  `json:"email"`
	Avatar      *string `json:"avatar,omitempty"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	JoinedAt    string  `json:"joinedAt"`
}

// TeamHandler handles team and membership endpoints.
type TeamHandler struct {
	teams   TeamService
	members MembershipService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams TeamService, members MembershipService) *TeamHandler {
	return &TeamHandler{teams: teams, members: members}
}

// Create handles POST /team/create.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:      req.Name,
		Namespace: req.Namespace,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	created, err := h.teams.Create(r.Context(), middleware.GetUserID(r.Context()), team.CreateInput{
		Name:        req.Name,
		Namespace:   req.Namespace,
		Avatar:      req.Avatar,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, team.ErrNamespaceTaken):
			response.Err(w, http.StatusConflict, "namespace is already taken")
		case errors.Is(err, team.ErrInvalidInput):
			response.Err(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to create team", "error", err)
			response.Err(w, http.StatusInternalServerError, "failed to create team")
		}
		return
	}

	response.Success(w, http.StatusCreated, "team created", toTeamResponse(created))
}

// List handles GET /team/list. It returns the teams the current user is an
// active member of.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	teams, err := h.members.ListTeamsForUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list teams", "error", err, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "failed to list teams")
		return
	}

	items := make([]teamSummaryResponse, 0, len(teams))
	for _, ts := range teams {
		items = append(items, teamSummaryResponse{
			ID:          ts.TeamID.String(),
			UniqueID:    ts.UniqueID,
			Name:        ts.Name,
			Avatar:      ts.Avatar,
			Namespace:   ts.Namespace,
			Description: ts.Description,
			Role:        string(ts.Role),
			JoinedAt:    ts.JoinedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	response.OK(w, items)
}

// Detail handles GET /team/detail/{id}.
func (h *TeamHandler) Detail(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	t, err := h.teams.GetByID(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "team not found")
			return
		}
		slog.Error("failed to load team", "error", err, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "failed to load team")
		return
	}

	response.OK(w, toTeamResponse(t))
}

// Members handles GET /team/users/{id}.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	members, err := h.members.ListMembersForTeam(r.Context(), teamID)
	if err != nil {
		slog.Error("failed to list team members", "error", err, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "failed to list team members")
		return
	}

	items := make([]memberSummaryResponse, 0, len(members))
	for _, m := range members {
		items = append(items, memberSummaryResponse{
			UserID:      m.UserID.String(),
			Username:    m.Username,
			DisplayName: m.DisplayName,
			Email:       m.Email,
			Avatar:      m.Avatar,
			Role:        string(m.Role),
			Status:      string(m.Status),
			JoinedAt:    m.JoinedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	response.OK(w, items)
}

// Activity handles GET /team/activity/{id}. Owner or Admin role is required.
func (h *TeamHandler) Activity(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	entries, err := h.teams.Activity(r.Context(), teamID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrPermissionDenied):
			response.Err(w, http.StatusForbidden, "role does not permit viewing team activity")
		case errors.Is(err, membership.ErrNoMembership):
			response.Err(w, http.StatusForbidden, "not a member of the team")
		default:
			slog.Error("failed to load team activity", "error", err, "teamId", teamID)
			response.Err(w, http.StatusInternalServerError, "failed to load team activity")
		}
		return
	}

	items := make([]activityEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, activityEntryResponse{
			ActorID:    e.ActorID.String(),
			Action:     string(e.Action),
			TargetType: string(e.TargetType),
			TargetID:   e.TargetID.String(),
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	response.OK(w, items)
}

// Join handles POST /team/join-team. The current user joins the named team.
func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req joinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateJoinTeamRequest(validation.JoinTeamRequest{
		TeamID: req.TeamID,
		Role:   req.Role,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	teamID := uuid.MustParse(req.TeamID)
	userID := middleware.GetUserID(r.Context())

	err := h.members.Join(r.Context(), teamID, userID, membership.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrAlreadyMember):
			response.Err(w, http.StatusConflict, "user is already a member of the team")
		case errors.Is(err, membership.ErrInvalidRole):
			response.Err(w, http.StatusBadRequest, "role is not recognized")
		default:
			slog.Error("failed to join team", "error", err, "teamId", teamID, "userId", userID)
			response.Err(w, http.StatusInternalServerError, "failed to join team")
		}
		return
	}

	response.Success(w, http.StatusOK, "joined team", nil)
}

// Leave handles POST /team/left-team. The current user removes the named
// member from the team; Owner or Admin role is required and self-removal is
// rejected.
func (h *TeamHandler) Leave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req leaveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateRemoveMemberRequest(validation.RemoveMemberRequest{
		TeamID: req.TeamID,
		UserID: req.UserID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	teamID := uuid.MustParse(req.TeamID)
	targetID := uuid.MustParse(req.UserID)
	actorID := middleware.GetUserID(r.Context())

	err := h.members.RemoveMember(r.Context(), teamID, actorID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrCannotRemoveSelf):
			response.Err(w, http.StatusBadRequest, "cannot remove yourself from the team")
		case errors.Is(err, membership.ErrPermissionDenied):
			response.Err(w, http.StatusForbidden, "role does not permit removing members")
		case errors.Is(err, membership.ErrNoMembership):
			response.Err(w, http.StatusNotFound, "no membership for team and user")
		default:
			slog.Error("failed to remove member", "error", err, "teamId", teamID, "targetId", targetID)
			response.Err(w, http.StatusInternalServerError, "failed to remove member")
		}
		return
	}

	response.Success(w, http.StatusOK, "member removed", nil)
}

// Update handles PUT /team/update/{id}. Owner or Admin role is required.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	updated, err := h.teams.Update(r.Context(), teamID, actorID, team.UpdateInput{
		Name:        req.Name,
		Namespace:   req.Namespace,
		Avatar:      req.Avatar,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrPermissionDenied):
			response.Err(w, http.StatusForbidden, "role does not permit updating the team")
		case errors.Is(err, membership.ErrNoMembership):
			response.Err(w, http.StatusForbidden, "not a member of the team")
		case errors.Is(err, team.ErrTeamNotFound):
			response.Err(w, http.StatusNotFound, "team not found")
		case errors.Is(err, team.ErrNamespaceTaken):
			response.Err(w, http.StatusConflict, "namespace is already taken")
		case errors.Is(err, team.ErrInvalidInput):
			response.Err(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to update team", "error", err, "teamId", teamID)
			response.Err(w, http.StatusInternalServerError, "failed to update team")
		}
		return
	}

	response.OK(w, toTeamResponse(updated))
}

// Delete handles DELETE /team/delete/{id}. Owner role is required.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.teams.Delete(r.Context(), teamID, actorID); err != nil {
		switch {
		case errors.Is(err, membership.ErrPermissionDenied):
			response.Err(w, http.StatusForbidden, "only the owner can delete the team")
		case errors.Is(err, membership.ErrNoMembership):
			response.Err(w, http.StatusForbidden, "not a member of the team")
		case errors.Is(err, team.ErrTeamNotFound):
			response.Err(w, http.StatusNotFound, "team not found")
		default:
			slog.Error("failed to delete team", "error", err, "teamId", teamID)
			response.Err(w, http.StatusInternalServerError, "failed to delete team")
		}
		return
	}

	response.Success(w, http.StatusOK, "team deleted", nil)
}
