package token

import (
	"context"
	"crypto"
	stderrors "errors"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/ridewise/carpool-auth/errors"
	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/permission"
)

// KeyResolver resolves a federated signing key by its key ID.
// Implementations fail closed: an unresolvable key is an error, never a
// silent skip of signature verification.
type KeyResolver interface {
	Key(ctx context.Context, kid string) (crypto.PublicKey, error)
}

// RevocationChecker answers whether a token was explicitly revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// Verifier performs dual-path token verification. A presented token is
// decoded, routed on its unverified issuer claim, verified on the local or
// federated path, and — for access tokens — checked against the revocation
// registry. Success returns normalized *Claims on either path.
type Verifier struct {
	cfg     Config
	keys    KeyResolver
	revoked RevocationChecker
}

// VerifierOption configures the Verifier.
type VerifierOption func(*Verifier)

// WithKeyResolver wires the federated signing-key resolver.
func WithKeyResolver(r KeyResolver) VerifierOption {
	return func(v *Verifier) { v.keys = r }
}

// WithRevocationChecker wires the revocation registry.
func WithRevocationChecker(r RevocationChecker) VerifierOption {
	return func(v *Verifier) { v.revoked = r }
}

// NewVerifier creates a token verifier from configuration.
func NewVerifier(cfg *Config, opts ...VerifierOption) (*Verifier, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &Verifier{cfg: *cfg}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// VerifyAccess verifies a token expected to be an access token, on either
// path, including the revocation check.
func (v *Verifier) VerifyAccess(ctx context.Context, tokenString string) (*Claims, error) {
	return v.verify(ctx, tokenString, TypeAccess)
}

// VerifyRefresh verifies a token expected to be a locally-issued refresh token.
func (v *Verifier) VerifyRefresh(ctx context.Context, tokenString string) (*Claims, error) {
	return v.verify(ctx, tokenString, TypeRefresh)
}

// VerifyReset verifies a token expected to be a password-reset token.
func (v *Verifier) VerifyReset(ctx context.Context, tokenString string) (*Claims, error) {
	return v.verify(ctx, tokenString, TypeReset)
}

func (v *Verifier) verify(ctx context.Context, tokenString string, expected Type) (*Claims, error) {
	decoded, err := DecodeUnverified(tokenString)
	if err != nil {
		return nil, err
	}

	var claims *Claims
	switch v.cfg.RouteFor(decoded) {
	case RouteFederated:
		// Refresh and reset tokens are always locally issued; a federated
		// token presented in their place is a type mismatch, not a
		// verification candidate.
		if expected != TypeAccess {
			return nil, errors.TokenTypeMismatch()
		}
		claims, err = v.verifyFederated(ctx, tokenString)
	default:
		claims, err = v.verifyLocal(tokenString, decoded.TokenType, expected)
	}
	if err != nil {
		return nil, err
	}

	if expected == TypeAccess && v.revoked != nil {
		revoked, rerr := v.revoked.IsRevoked(ctx, tokenString)
		if rerr != nil {
			return nil, errors.StoreError("revocation", rerr)
		}
		if revoked {
			return nil, errors.TokenRevoked()
		}
	}

	return claims, nil
}

// verifyLocal checks a locally-issued token. The HMAC secret is chosen by
// the token's claimed type, so a token signed with one secret can never
// pass verification under another even if its claims are altered.
func (v *Verifier) verifyLocal(tokenString string, claimed, expected Type) (*Claims, error) {
	claims := &Claims{}
	keyfunc := func(t *gojwt.Token) (interface{}, error) {
		return v.cfg.secretFor(claimed), nil
	}

	_, err := gojwt.ParseWithClaims(tokenString, claims, keyfunc, v.parserOptions(
		[]string{gojwt.SigningMethodHS256.Alg()}, v.cfg.Issuer, v.cfg.Audience)...)
	if err != nil {
		return nil, mapParseError(err)
	}

	if claims.TokenType != expected {
		return nil, errors.TokenTypeMismatch()
	}
	return claims, nil
}

// verifyFederated checks a token issued by the external identity provider.
// The signing key comes from the key resolver by the token's kid header;
// an unresolvable key fails the verification closed.
func (v *Verifier) verifyFederated(ctx context.Context, tokenString string) (*Claims, error) {
	if v.keys == nil {
		return nil, errors.KeyResolutionFailed(stderrors.New("no key resolver configured"))
	}

	claims := &Claims{}
	keyfunc := func(t *gojwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		key, err := v.keys.Key(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key, nil
	}

	_, err := gojwt.ParseWithClaims(tokenString, claims, keyfunc, v.parserOptions(
		v.cfg.FederatedAlgs, v.cfg.FederatedIssuer, v.cfg.FederatedClientID)...)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeKeyResolutionFailed {
			return nil, appErr
		}
		return nil, mapParseError(err)
	}

	normalizeFederated(claims)
	return claims, nil
}

// normalizeFederated fills the claim fields federated tokens lack so both
// paths return the same shape. A federated token without a role claim gets
// the least-privileged role.
func normalizeFederated(claims *Claims) {
	claims.TokenType = TypeAccess
	claims.Provider = identity.ProviderGoogle
	if claims.Role == "" {
		claims.Role = identity.RoleStudent
	}
	if len(claims.Permissions) == 0 {
		claims.Permissions = permission.PermissionsFor(claims.Role)
	}
}

func (v *Verifier) parserOptions(algs []string, issuer, audience string) []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods(algs),
		gojwt.WithIssuer(issuer),
		gojwt.WithAudience(audience),
		gojwt.WithExpirationRequired(),
	}
	if v.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(v.cfg.Leeway))
	}
	return opts
}

// mapParseError folds golang-jwt parse failures into the error taxonomy.
func mapParseError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, gojwt.ErrTokenMalformed):
		return errors.TokenMalformed().WithCause(err)
	case stderrors.Is(err, gojwt.ErrTokenExpired):
		return errors.TokenExpired().WithCause(err)
	default:
		return errors.TokenInvalid().WithCause(err)
	}
}
