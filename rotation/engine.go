package rotation

import (
	"context"
	"time"

	"github.com/ridewise/carpool-auth/errors"
	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/logger"
	"github.com/ridewise/carpool-auth/password"
	"github.com/ridewise/carpool-auth/token"
)

// Pair is a freshly issued access and refresh token.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Engine performs single-use refresh rotation.
type Engine struct {
	verifier *token.Verifier
	issuer   *token.Issuer
	users    identity.UserStore
	used     UsedTokenStore
	log      *logger.Logger
	now      func() time.Time
}

// NewEngine creates a rotation engine.
func NewEngine(verifier *token.Verifier, issuer *token.Issuer, users identity.UserStore, used UsedTokenStore, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		verifier: verifier,
		issuer:   issuer,
		users:    users,
		used:     used,
		log:      log.WithComponent("rotation"),
		now:      time.Now,
	}
}

// Rotate exchanges a valid refresh token for a new pair, at most once per
// token. The replay pre-check runs after decode but before signature work,
// so malformed input still reports malformed rather than replayed; the
// authoritative check is the atomic mark in the used set after
// verification, which guarantees exactly one winner under concurrency.
func (e *Engine) Rotate(ctx context.Context, refreshToken string) (*Pair, *identity.Identity, error) {
	decoded, err := token.DecodeUnverified(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	digest := password.HashSHA256(refreshToken)
	used, err := e.used.IsUsed(ctx, digest)
	if err != nil {
		return nil, nil, errors.StoreError("used-token", err)
	}
	if used {
		e.log.Warn("refresh token replay detected", logger.Fields(logger.FieldUserID, decoded.Subject))
		return nil, nil, errors.RefreshReplayed()
	}

	claims, err := e.verifier.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	// Refresh claims are a point-in-time snapshot; re-validate against live
	// account state on every rotation.
	ident, err := e.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, errors.StoreError("user", err)
	}
	if ident == nil {
		return nil, nil, errors.UserNotFound()
	}
	if !ident.IsActive {
		return nil, nil, errors.AccountInactive()
	}

	remaining := claims.RemainingLifetime(e.now())
	ok, err := e.used.MarkUsed(ctx, digest, remaining)
	if err != nil {
		return nil, nil, errors.StoreError("used-token", err)
	}
	if !ok {
		e.log.Warn("refresh token lost rotation race", logger.Fields(logger.FieldUserID, claims.Subject))
		return nil, nil, errors.RefreshReplayed()
	}

	access, err := e.issuer.IssueAccess(ident)
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	refresh, err := e.issuer.IssueRefresh(ident)
	if err != nil {
		return nil, nil, errors.Internal(err)
	}

	e.log.Debug("refresh token rotated", logger.Fields(logger.FieldUserID, ident.ID))
	return &Pair{AccessToken: access, RefreshToken: refresh}, ident, nil
}
