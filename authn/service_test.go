package authn

import (
	"context"
	"sync"
	"testing"

	"github.com/ridewise/carpool-auth/errors"
	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/password"
	"github.com/ridewise/carpool-auth/revocation"
	"github.com/ridewise/carpool-auth/rotation"
	"github.com/ridewise/carpool-auth/token"
)

const (
	testEmail    = "parent@example.com"
	testPassword = "Sunny-Carpool-99"
)

type fakeUserStore struct {
	mu   sync.Mutex
	byID map[string]*identity.Identity
}

func newFakeUserStore(idents ...*identity.Identity) *fakeUserStore {
	s := &fakeUserStore{byID: make(map[string]*identity.Identity)}
	for _, i := range idents {
		s.byID[i.ID] = i
	}
	return s
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.byID {
		if i.Email == email {
			return i, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id], nil
}

func (s *fakeUserStore) Create(_ context.Context, ident *identity.Identity) (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[ident.ID] = ident
	return ident, nil
}

func (s *fakeUserStore) UpdatePasswordHash(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.byID[id]; ok {
		i.PasswordHash = hash
	}
	return nil
}

// newTestService builds a Service over in-memory stores with a fast bcrypt
// cost and one active local parent account.
func newTestService(t *testing.T) (*Service, *fakeUserStore, *identity.Identity) {
	t.Helper()
	hasher := password.NewBcryptHasher(password.WithCost(4))
	hash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ident := &identity.Identity{
		ID:           "parent-1",
		Email:        testEmail,
		Role:         identity.RoleParent,
		AuthProvider: identity.ProviderLocal,
		PasswordHash: hash,
		IsActive:     true,
	}
	users := newFakeUserStore(ident)

	cfg := &token.Config{
		AccessSecret:  "authn-access-secret",
		RefreshSecret: "authn-refresh-secret",
		Issuer:        "https://auth.ridewise.app",
		Audience:      "ridewise-web",
	}
	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	registry := revocation.NewRegistry(revocation.NewMemoryStore())
	verifier, err := token.NewVerifier(cfg, token.WithRevocationChecker(registry))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	rotator := rotation.NewEngine(verifier, issuer, users, rotation.NewMemoryStore(), nil)

	svc, err := NewService(Deps{
		Users:       users,
		Hasher:      hasher,
		Issuer:      issuer,
		Verifier:    verifier,
		Revocations: registry,
		Rotator:     rotator,
		UsedResets:  rotation.NewMemoryStore(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, users, ident
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !errors.HasCode(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, _, ident := newTestService(t)

	pair, got, err := svc.Login(context.Background(), testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != ident.ID {
		t.Fatalf("identity = %q, want %q", got.ID, ident.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.ExpiresIn <= 0 {
		t.Fatalf("ExpiresIn = %d, want positive", pair.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Subject != ident.ID || claims.Email != testEmail {
		t.Fatalf("claims subject/email = %q/%q", claims.Subject, claims.Email)
	}
}

// Unknown email, wrong password, deactivated account, and federated-only
// account must be indistinguishable from the caller's side.
func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users, ident := newTestService(t)
	ctx := context.Background()

	users.byID["fed-1"] = &identity.Identity{
		ID:           "fed-1",
		Email:        "google-only@example.com",
		Role:         identity.RoleParent,
		AuthProvider: identity.ProviderGoogle,
		IsActive:     true,
	}
	users.byID["off-1"] = &identity.Identity{
		ID:           "off-1",
		Email:        "deactivated@example.com",
		Role:         identity.RoleParent,
		AuthProvider: identity.ProviderLocal,
		PasswordHash: ident.PasswordHash,
		IsActive:     false,
	}

	attempts := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@example.com", testPassword},
		{"wrong password", testEmail, "Wrong-Password-1"},
		{"deactivated account", "deactivated@example.com", testPassword},
		{"federated-only account", "google-only@example.com", testPassword},
	}

	var messages []string
	for _, tt := range attempts {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.email, tt.pass)
			requireCode(t, err, errors.ErrCodeInvalidCredentials)
			appErr, _ := errors.AsAppError(err)
			messages = append(messages, appErr.Message)
		})
	}
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Fatalf("failure messages differ: %q vs %q", messages[0], messages[i])
		}
	}
}

func TestRefreshRotatesAndDetectsReplay(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh must rotate the refresh token")
	}

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	requireCode(t, err, errors.ErrCodeRefreshReplayed)

	// The rotated token still works.
	if _, err := svc.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("rotated token must be usable once: %v", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, pair.AccessToken); err != nil {
		t.Fatalf("pre-logout validate: %v", err)
	}

	if err := svc.Logout(ctx, pair.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	requireCode(t, err, errors.ErrCodeTokenRevoked)
}

func TestLogoutWrongTokenType(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	err = svc.Logout(ctx, pair.RefreshToken)
	requireCode(t, err, errors.ErrCodeTokenTypeMismatch)
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, _ := newTestService(t)

	tok, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("expected success-shaped output, got %v", err)
	}
	if tok != "" {
		t.Fatal("expected no token for unknown email")
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	const newPassword = "Rainy-Carpool-42"

	reset, err := svc.RequestPasswordReset(ctx, testEmail)
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if reset == "" {
		t.Fatal("expected a reset token for a known local account")
	}

	if err := svc.ResetPassword(ctx, reset, newPassword); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Old password no longer works, new one does.
	_, _, err = svc.Login(ctx, testEmail, testPassword)
	requireCode(t, err, errors.ErrCodeInvalidCredentials)
	if _, _, err := svc.Login(ctx, testEmail, newPassword); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// The consumed token is single-use.
	err = svc.ResetPassword(ctx, reset, "Another-Password-7")
	requireCode(t, err, errors.ErrCodeTokenRevoked)
}

func TestResetPasswordWeakPasswordDoesNotConsumeToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reset, err := svc.RequestPasswordReset(ctx, testEmail)
	if err != nil || reset == "" {
		t.Fatalf("RequestPasswordReset = (%q, %v)", reset, err)
	}

	err = svc.ResetPassword(ctx, reset, "weak")
	requireCode(t, err, errors.ErrCodeWeakPassword)

	// The token survives the failed attempt.
	if err := svc.ResetPassword(ctx, reset, "Rainy-Carpool-42"); err != nil {
		t.Fatalf("reset after weak attempt: %v", err)
	}
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, testEmail, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	err = svc.ResetPassword(ctx, pair.AccessToken, "Rainy-Carpool-42")
	requireCode(t, err, errors.ErrCodeTokenTypeMismatch)
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	ident, err := svc.Register(ctx, RegisterRequest{
		Email:    "student@example.com",
		Password: "Backpack-Rides-3",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if ident.ID == "" {
		t.Fatal("expected generated ID")
	}
	if ident.AuthProvider != identity.ProviderLocal || !ident.IsActive {
		t.Fatalf("unexpected identity: %+v", ident)
	}

	if _, _, err := svc.Login(ctx, "student@example.com", "Backpack-Rides-3"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
		code errors.ErrorCode
	}{
		{
			name: "bad email",
			req:  RegisterRequest{Email: "not-an-email", Password: "Backpack-Rides-3", Role: "parent"},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "unknown role",
			req:  RegisterRequest{Email: "a@example.com", Password: "Backpack-Rides-3", Role: "driver"},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "weak password",
			req:  RegisterRequest{Email: "a@example.com", Password: "alllowercase99!", Role: "parent"},
			code: errors.ErrCodeWeakPassword,
		},
		{
			name: "duplicate email",
			req:  RegisterRequest{Email: testEmail, Password: "Backpack-Rides-3", Role: "parent"},
			code: errors.ErrCodeEmailTaken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			requireCode(t, err, tt.code)
		})
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, ident := newTestService(t)
	ctx := context.Background()
	const newPassword = "Rainy-Carpool-42"

	if err := svc.ChangePassword(ctx, ident.ID, testPassword, newPassword); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, testEmail, newPassword); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePasswordWrongOld(t *testing.T) {
	svc, _, ident := newTestService(t)

	err := svc.ChangePassword(context.Background(), ident.ID, "Wrong-Old-Pass-1", "Rainy-Carpool-42")
	requireCode(t, err, errors.ErrCodeInvalidCredentials)
}

func TestChangePasswordWeakNew(t *testing.T) {
	svc, _, ident := newTestService(t)

	err := svc.ChangePassword(context.Background(), ident.ID, testPassword, "weak")
	requireCode(t, err, errors.ErrCodeWeakPassword)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ChangePassword(context.Background(), "ghost", testPassword, "Rainy-Carpool-42")
	requireCode(t, err, errors.ErrCodeUserNotFound)
}
