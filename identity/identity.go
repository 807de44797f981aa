// Package identity defines the user identity model and the store contract
// the auth core reads identities through. The core never persists
// identities itself beyond the explicit password-hash updates it is asked
// to perform.
package identity

// Role is a user's role within the carpool application.
type Role string

const (
	// RoleSuperAdmin administers the whole deployment.
	RoleSuperAdmin Role = "super_admin"
	// RoleGroupAdmin administers a single carpool group.
	RoleGroupAdmin Role = "group_admin"
	// RoleParent is a parent or guardian offering and booking rides.
	RoleParent Role = "parent"
	// RoleStudent is the least-privileged role.
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the four modeled roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleGroupAdmin, RoleParent, RoleStudent:
		return true
	}
	return false
}

// AuthProvider identifies where an account's credentials live.
type AuthProvider string

const (
	// ProviderLocal accounts hold a password hash and log in with email/password.
	ProviderLocal AuthProvider = "local"
	// ProviderGoogle accounts authenticate through the federated identity
	// provider and carry no local password hash.
	ProviderGoogle AuthProvider = "google"
)

// Identity is the read-mostly view of a user account.
type Identity struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	AuthProvider AuthProvider `json:"auth_provider"`
	// PasswordHash is empty for federated-only accounts. Never serialized.
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
}

// CanAuthenticateLocally reports whether the account may log in with a
// password: it must be active and carry a hash.
func (i *Identity) CanAuthenticateLocally() bool {
	return i.IsActive && i.PasswordHash != ""
}
