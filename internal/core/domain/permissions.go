package domain

import "errors"

// ErrForbidden is returned whenever an actor lacks the role required for an
// operation. Callers must not attempt the mutation once this is returned.
var ErrForbidden = errors.New("access forbidden")

// CanCreateOrAssignRole reports whether an actor may create an account with,
// or assign, the requested role.
//
// ENV_ADMIN is never grantable through this path, regardless of actor: that
// role exists only via deploy-time provisioning. The guard sits first and
// independently of the hierarchy rules so a generic "admin can do anything"
// branch can never reach it.
func CanCreateOrAssignRole(actor, requested Role) bool {
	if requested == RoleEnvAdmin {
		return false
	}
	if requested == RoleWebAdmin {
		return actor == RoleEnvAdmin
	}
	if actor == RoleEnvAdmin {
		return true
	}
	if actor == RoleWebAdmin {
		return requested == RoleUser || requested == RoleGuest
	}
	return false
}

// CanDeleteAccount reports whether an actor may delete an account holding the
// target role. An ENV_ADMIN account can never be deleted through the app, not
// even by another ENV_ADMIN.
func CanDeleteAccount(actor, target Role) bool {
	if target == RoleEnvAdmin {
		return false
	}
	if actor == RoleEnvAdmin {
		return true
	}
	if actor == RoleWebAdmin {
		return target == RoleUser || target == RoleGuest
	}
	return false
}

// CanChangeRole reports whether an actor may change an account's role from
// target to newRole. An ENV_ADMIN account's role is immutable via the app;
// past that guard the answer is exactly CanCreateOrAssignRole, which already
// forbids assigning ENV_ADMIN.
func CanChangeRole(actor, target, newRole Role) bool {
	if target == RoleEnvAdmin {
		return false
	}
	return CanCreateOrAssignRole(actor, newRole)
}

// RequireAdminLike fails with ErrForbidden unless the actor is ENV_ADMIN or
// WEB_ADMIN.
func RequireAdminLike(actor Role) error {
	if !actor.IsAdminLike() {
		return ErrForbidden
	}
	return nil
}

// RequireRegistered fails with ErrForbidden unless the actor is ENV_ADMIN,
// WEB_ADMIN, or USER.
func RequireRegistered(actor Role) error {
	if !actor.IsRegistered() {
		return ErrForbidden
	}
	return nil
}

// AvailableRoles returns the roles the actor may create or assign, in catalog
// order. ENV_ADMIN is never included.
func AvailableRoles(actor Role) []Role {
	var out []Role
	for _, r := range Roles {
		if r == RoleEnvAdmin {
			continue
		}
		if CanCreateOrAssignRole(actor, r) {
			out = append(out, r)
		}
	}
	return out
}
