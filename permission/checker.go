package permission

import "github.com/ridewise/carpool-auth/identity"

// Checker is the authorization check interface consumed by middleware.
type Checker interface {
	HasPermission(role identity.Role, required string) bool
}

// CheckerFunc is an adapter to use ordinary functions as Checker.
type CheckerFunc func(role identity.Role, required string) bool

// HasPermission implements Checker.
func (f CheckerFunc) HasPermission(role identity.Role, required string) bool {
	return f(role, required)
}

// RoleChecker answers permission checks from the static role table.
type RoleChecker struct{}

// NewRoleChecker creates a Checker backed by the role → permission table.
func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

// HasPermission implements Checker using wildcard pattern matching.
func (c *RoleChecker) HasPermission(role identity.Role, required string) bool {
	return MatchAny(PermissionsFor(role), required)
}
