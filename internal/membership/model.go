package membership

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a membership row.
type Status string

const (
	StatusJoined Status = "joined"
	StatusLeft   Status = "left"
)

// Membership represents a row in the team_users join table. The composite key
// is (TeamID, UserID); there is at most one row per pair, and re-joining
// reactivates the existing row rather than inserting a new one.
type Membership struct {
	TeamID   uuid.UUID
	UserID   uuid.UUID
	Role     Role
	Status   Status
	JoinedAt time.Time
	LeftAt   *time.Time
}

// TeamSummary is the projection returned when listing a user's teams.
type TeamSummary struct {
	TeamID      uuid.UUID
	UniqueID    string
	Name        string
	Avatar      *string
	Namespace   string
	Description *string
	Role        Role
	JoinedAt    time.Time
}

// MemberSummary is the projection returned when listing a team's members.
// Left members are included, ordered after joined ones.
type MemberSummary struct {
	UserID      uuid.UUID
	Username    *string
	DisplayName *string
	Email       string
	Avatar      *string
	Role        Role
	Status      Status
	JoinedAt    time.Time
	LeftAt      *time.Time
}
