package domain

// Role is the single authorization attribute of an account.
type Role string

const (
	// RoleEnvAdmin is the break-glass role. It is assigned exclusively by
	// deploy-time provisioning and can never be granted, changed, or removed
	// through any in-app operation.
	RoleEnvAdmin Role = "ENV_ADMIN"
	RoleWebAdmin Role = "WEB_ADMIN"
	RoleUser     Role = "USER"
	RoleGuest    Role = "GUEST"
)

// Roles lists every role known to the system.
var Roles = []Role{RoleEnvAdmin, RoleWebAdmin, RoleUser, RoleGuest}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleEnvAdmin, RoleWebAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// IsAdminLike reports whether r grants access to administrative operations.
func (r Role) IsAdminLike() bool {
	return r == RoleEnvAdmin || r == RoleWebAdmin
}

// IsRegistered reports whether r may use registered-only features such as
// creating meetings. GUEST can join a meeting via its link but never create one.
func (r Role) IsRegistered() bool {
	return r == RoleEnvAdmin || r == RoleWebAdmin || r == RoleUser
}
