// Package permission maps carpool roles to permission lists and provides
// wildcard pattern matching for permission checks.
//
// Permissions use the "resource:action" format. Role lists are fixed at
// compile time; an unrecognized role falls back to the student list, the
// least-privileged role, so resolution is total and never errors.
package permission

import "github.com/ridewise/carpool-auth/identity"

// rolePermissions is the authoritative role → permission table.
// Order within each list is fixed and part of the contract: issued tokens
// embed the list as-is.
var rolePermissions = map[identity.Role][]string{
	identity.RoleSuperAdmin: {
		"*:*",
	},
	identity.RoleGroupAdmin: {
		"group:read",
		"group:write",
		"group:invite",
		"trip:read",
		"trip:write",
		"trip:assign",
		"member:read",
		"member:write",
		"preference:read",
		"notification:send",
	},
	identity.RoleParent: {
		"group:read",
		"trip:read",
		"trip:write",
		"trip:volunteer",
		"member:read",
		"preference:read",
		"preference:write",
	},
	identity.RoleStudent: {
		"trip:read",
		"preference:read",
	},
}

// PermissionsFor returns the permission list for a role. The returned
// slice is a copy; callers may hold it without aliasing the table.
// Unknown roles resolve to the student permission set.
func PermissionsFor(role identity.Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		perms = rolePermissions[identity.RoleStudent]
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
