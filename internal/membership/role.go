package membership

// Role scopes what a user may do within one team. Owner is granted exactly
// once, to the team creator, at team-creation time.
type Role string

const (
	RoleOwner   Role = "Owner"
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleMember  Role = "Member"
	RoleGuest   Role = "Guest"
)

// Valid reports whether r is one of the five known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleMember, RoleGuest:
		return true
	}
	return false
}

// CanRemoveTeam reports whether the role may delete a team.
func (r Role) CanRemoveTeam() bool {
	return r == RoleOwner
}

// CanUpdateTeam reports whether the role may change a team's profile.
func (r Role) CanUpdateTeam() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanRemoveMember reports whether the role may remove another member from
// the team.
func (r Role) CanRemoveMember() bool {
	return r == RoleOwner || r == RoleAdmin
}
