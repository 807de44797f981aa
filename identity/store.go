package identity

import "context"

// UserStore is the external persistence contract for identities.
// Lookups return (nil, nil) when no identity matches; an error means the
// store itself failed and should propagate as infrastructure failure.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	GetByID(ctx context.Context, id string) (*Identity, error)
	Create(ctx context.Context, ident *Identity) (*Identity, error)
	// UpdatePasswordHash is the only write the auth core performs on an
	// existing identity.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
