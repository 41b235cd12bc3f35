package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/membership"
)

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name      string
	Namespace string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	namespace := strings.TrimSpace(req.Namespace)
	if namespace == "" {
		errs = append(errs, FieldError{Field: "namespace", Message: "namespace is required"})
	} else if strings.Contains(namespace, " ") {
		errs = append(errs, FieldError{Field: "namespace", Message: "namespace cannot contain spaces"})
	}

	return errs
}

// JoinTeamRequest mirrors the fields needed for join team validation.
type JoinTeamRequest struct {
	TeamID string
	Role   string
}

// ValidateJoinTeamRequest validates the fields of a join team request.
func ValidateJoinTeamRequest(req JoinTeamRequest) []FieldError {
	var errs []FieldError

	if req.TeamID == "" {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId is required"})
	} else if _, err := uuid.Parse(req.TeamID); err != nil {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId must be a valid UUID"})
	}

	if req.Role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if !membership.Role(req.Role).Valid() {
		errs = append(errs, FieldError{Field: "role", Message: "role is not recognized"})
	} else if membership.Role(req.Role) == membership.RoleOwner {
		errs = append(errs, FieldError{Field: "role", Message: "role Owner cannot be requested"})
	}

	return errs
}

// RemoveMemberRequest mirrors the fields needed for member removal validation.
type RemoveMemberRequest struct {
	TeamID string
	UserID string
}

// ValidateRemoveMemberRequest validates the fields of a member removal request.
func ValidateRemoveMemberRequest(req RemoveMemberRequest) []FieldError {
	var errs []FieldError

	if req.TeamID == "" {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId is required"})
	} else if _, err := uuid.Parse(req.TeamID); err != nil {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId must be a valid UUID"})
	}

	if req.UserID == "" {
		errs = append(errs, FieldError{Field: "userId", Message: "userId is required"})
	} else if _, err := uuid.Parse(req.UserID); err != nil {
		errs = append(errs, FieldError{Field: "userId", Message: "userId must be a valid UUID"})
	}

	return errs
}
