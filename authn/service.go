package authn

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/ridewise/carpool-auth/errors"
	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/logger"
	"github.com/ridewise/carpool-auth/password"
	"github.com/ridewise/carpool-auth/revocation"
	"github.com/ridewise/carpool-auth/rotation"
	"github.com/ridewise/carpool-auth/token"
	"github.com/ridewise/carpool-auth/validation"
)

// dummyHash keeps credential checks for unknown accounts on the same bcrypt
// cost path as real mismatches.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Deps are the collaborators a Service is built from. Users, Hasher,
// Issuer, Verifier, and Rotator are required.
type Deps struct {
	Users       identity.UserStore
	Hasher      password.Hasher
	Policy      *password.Policy
	Issuer      *token.Issuer
	Verifier    *token.Verifier
	Revocations *revocation.Registry
	Rotator     *rotation.Engine
	// UsedResets remembers consumed password-reset tokens. Without it reset
	// tokens stay valid for their full lifetime.
	UsedResets rotation.UsedTokenStore
	Logger     *logger.Logger
	Metrics    *Metrics
}

// Service is the authentication facade.
type Service struct {
	users       identity.UserStore
	hasher      password.Hasher
	policy      *password.Policy
	issuer      *token.Issuer
	verifier    *token.Verifier
	revocations *revocation.Registry
	rotator     *rotation.Engine
	usedResets  rotation.UsedTokenStore
	log         *logger.Logger
	metrics     *Metrics
}

// NewService creates the authentication facade.
func NewService(deps Deps) (*Service, error) {
	if deps.Users == nil || deps.Hasher == nil || deps.Issuer == nil || deps.Verifier == nil || deps.Rotator == nil {
		return nil, stderrors.New("authn: Users, Hasher, Issuer, Verifier, and Rotator are required")
	}
	if deps.Policy == nil {
		deps.Policy = password.NewPolicy()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Service{
		users:       deps.Users,
		hasher:      deps.Hasher,
		policy:      deps.Policy,
		issuer:      deps.Issuer,
		verifier:    deps.Verifier,
		revocations: deps.Revocations,
		rotator:     deps.Rotator,
		usedResets:  deps.UsedResets,
		log:         deps.Logger.WithComponent("authn"),
		metrics:     deps.Metrics,
	}, nil
}

// Login verifies the credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, pass string) (*TokenPair, *identity.Identity, error) {
	ident, err := s.authenticate(ctx, email, pass)
	s.metrics.RecordLogin(ctx, resultOf(err))
	if err != nil {
		s.log.Info("login failed", logger.Fields(logger.FieldEmail, email))
		return nil, nil, err
	}

	pair, err := s.issuePair(ident)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("login succeeded", logger.Fields(
		logger.FieldUserID, ident.ID,
		logger.FieldRole, string(ident.Role),
	))
	return pair, ident, nil
}

// authenticate looks up the account and verifies the password. Every
// failure mode maps to the same INVALID_CREDENTIALS error.
func (s *Service) authenticate(ctx context.Context, email, pass string) (*identity.Identity, error) {
	ident, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.StoreError("user", err)
	}
	if ident == nil || !ident.CanAuthenticateLocally() {
		// Burn the same bcrypt work as a real mismatch.
		_ = s.hasher.Verify(pass, dummyHash)
		return nil, errors.InvalidCredentials()
	}
	if err := s.hasher.Verify(pass, ident.PasswordHash); err != nil {
		if stderrors.Is(err, password.ErrMismatch) {
			return nil, errors.InvalidCredentials()
		}
		return nil, errors.Internal(err)
	}
	return ident, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
func (s *Service) ValidateAccessToken(ctx context.Context, tok string) (*token.Claims, error) {
	claims, err := s.verifier.VerifyAccess(ctx, tok)
	s.metrics.RecordValidate(ctx, resultOf(err))
	return claims, err
}

// Refresh rotates a refresh token into a new pair.
func (s *Service) Refresh(ctx context.Context, tok string) (*TokenPair, error) {
	pair, _, err := s.rotator.Rotate(ctx, tok)
	s.metrics.RecordRefresh(ctx, resultOf(err))
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(s.issuer.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout revokes the access token for its remaining lifetime. An already
// expired token is a no-op success.
func (s *Service) Logout(ctx context.Context, tok string) error {
	claims, err := s.verifier.VerifyAccess(ctx, tok)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeTokenExpired) {
			return nil
		}
		s.metrics.RecordLogout(ctx, "failure")
		return err
	}
	if s.revocations == nil {
		s.metrics.RecordLogout(ctx, "failure")
		return errors.ServiceUnavailable("revocation store")
	}
	if err := s.revocations.Revoke(ctx, tok); err != nil {
		s.metrics.RecordLogout(ctx, "failure")
		return errors.StoreError("revocation", err)
	}
	s.metrics.RecordLogout(ctx, "success")
	s.log.Info("logout", logger.Fields(logger.FieldUserID, claims.Subject))
	return nil
}

// RequestPasswordReset issues a password-reset token for the account. For
// unknown, deactivated, or federated-only accounts it returns an empty
// token and no error, so callers cannot probe which emails exist.
// Delivering the token to the user is the caller's concern.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	ident, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", errors.StoreError("user", err)
	}
	if ident == nil || !ident.CanAuthenticateLocally() {
		s.log.Debug("password reset requested for non-resettable account")
		s.metrics.RecordReset(ctx, "suppressed")
		return "", nil
	}

	reset, err := s.issuer.IssueReset(ident)
	if err != nil {
		return "", errors.Internal(err)
	}
	s.metrics.RecordReset(ctx, "issued")
	s.log.Info("password reset token issued", logger.Fields(logger.FieldUserID, ident.ID))
	return reset, nil
}

// ResetPassword consumes a reset token and sets a new password. Each token
// works at most once; strength validation happens before the token is
// consumed so a weak password does not burn it.
func (s *Service) ResetPassword(ctx context.Context, tok, newPassword string) error {
	claims, err := s.verifier.VerifyReset(ctx, tok)
	if err != nil {
		return err
	}

	digest := password.HashSHA256(tok)
	if s.usedResets != nil {
		used, err := s.usedResets.IsUsed(ctx, digest)
		if err != nil {
			return errors.StoreError("used-token", err)
		}
		if used {
			return errors.TokenRevoked()
		}
	}

	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	ident, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return errors.StoreError("user", err)
	}
	if ident == nil {
		return errors.UserNotFound()
	}
	if !ident.IsActive {
		return errors.AccountInactive()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errors.Internal(err)
	}

	if s.usedResets != nil {
		ok, err := s.usedResets.MarkUsed(ctx, digest, claims.RemainingLifetime(time.Now()))
		if err != nil {
			return errors.StoreError("used-token", err)
		}
		if !ok {
			return errors.TokenRevoked()
		}
	}

	if err := s.users.UpdatePasswordHash(ctx, ident.ID, hash); err != nil {
		return errors.StoreError("user", err)
	}
	s.metrics.RecordReset(ctx, "completed")
	s.log.Info("password reset completed", logger.Fields(logger.FieldUserID, ident.ID))
	return nil
}

// Register creates a local account after input validation, strength
// checking, and a duplicate-email check.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*identity.Identity, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := s.policy.Validate(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.StoreError("user", err)
	}
	if existing != nil {
		s.metrics.RecordRegister(ctx, "failure")
		return nil, errors.EmailTaken()
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(err)
	}

	ident, err := s.users.Create(ctx, &identity.Identity{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Role:         identity.Role(req.Role),
		AuthProvider: identity.ProviderLocal,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		return nil, errors.StoreError("user", err)
	}
	s.metrics.RecordRegister(ctx, "success")
	s.log.Info("account registered", logger.Fields(
		logger.FieldUserID, ident.ID,
		logger.FieldRole, req.Role,
	))
	return ident, nil
}

// ChangePassword re-verifies the old password and sets a new one. Both the
// old-password check and the strength check must pass.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	ident, err := s.users.GetByID(ctx, id)
	if err != nil {
		return errors.StoreError("user", err)
	}
	if ident == nil {
		return errors.UserNotFound()
	}
	if !ident.CanAuthenticateLocally() {
		return errors.InvalidCredentials()
	}
	if err := s.hasher.Verify(oldPassword, ident.PasswordHash); err != nil {
		if stderrors.Is(err, password.ErrMismatch) {
			return errors.InvalidCredentials()
		}
		return errors.Internal(err)
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errors.Internal(err)
	}
	if err := s.users.UpdatePasswordHash(ctx, ident.ID, hash); err != nil {
		return errors.StoreError("user", err)
	}
	s.log.Info("password changed", logger.Fields(logger.FieldUserID, ident.ID))
	return nil
}

func (s *Service) issuePair(ident *identity.Identity) (*TokenPair, error) {
	access, err := s.issuer.IssueAccess(ident)
	if err != nil {
		return nil, errors.Internal(err)
	}
	refresh, err := s.issuer.IssueRefresh(ident)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.issuer.AccessTokenTTL().Seconds()),
	}, nil
}
