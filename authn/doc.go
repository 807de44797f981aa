// Package authn composes the token, password, revocation, and rotation
// packages into the authentication use-cases the rest of the application
// calls: login, access-token validation, refresh, logout, password reset,
// registration, and password change.
//
// Every operation returns a typed *errors.AppError on expected failure.
// Credential failures are deliberately indistinguishable from the outside:
// unknown email, wrong password, deactivated account, and federated-only
// account all surface the same INVALID_CREDENTIALS error.
package authn
