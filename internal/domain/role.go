package domain

// Role enumerates the authority levels recognized by the portal.
type Role string

const (
	RoleEndUser    Role = "END_USER"
	RoleAgent      Role = "AGENT"
	RoleTeamLead   Role = "TEAM_LEAD"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// roleAuthority orders roles from least to most privileged. MANAGER and
// TEAM_LEAD share department scope but managers additionally hold delete
// rights, so they sit one step above.
var roleAuthority = map[Role]int{
	RoleEndUser:    0,
	RoleAgent:      1,
	RoleTeamLead:   2,
	RoleManager:    3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// Valid reports whether the role is one of the six known values.
func (r Role) Valid() bool {
	_, ok := roleAuthority[r]
	return ok
}

// Authority returns the ordinal rank of the role; unknown roles rank below
// END_USER.
func (r Role) Authority() int {
	if rank, ok := roleAuthority[r]; ok {
		return rank
	}
	return -1
}

// IsSuper reports whether the role bypasses department and ownership
// scoping entirely.
func (r Role) IsSuper() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsDepartmentScoped reports whether the role operates on every ticket of
// its own department without needing a personal relationship.
func (r Role) IsDepartmentScoped() bool {
	return r == RoleManager || r == RoleTeamLead
}

// IsStaff reports whether the role belongs to an internal operator rather
// than an end user.
func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleEndUser
}

// AllRoles lists every role in ascending authority order.
func AllRoles() []Role {
	return []Role{RoleEndUser, RoleAgent, RoleTeamLead, RoleManager, RoleAdmin, RoleSuperAdmin}
}
