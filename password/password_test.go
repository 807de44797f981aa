package password

import (
	"testing"

	"github.com/ridewise/carpool-auth/errors"
)

func TestBcryptHashVerify(t *testing.T) {
	// Low cost keeps the test fast; the algorithm is the same.
	h := NewBcryptHasher(WithCost(4))

	hash, err := h.Hash("Correct-Horse1!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "Correct-Horse1!" {
		t.Fatal("hash must not equal plaintext")
	}

	if err := h.Verify("Correct-Horse1!", hash); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Verify("wrong-password", hash); err != ErrMismatch {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestBcryptHashIsSalted(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	h1, _ := h.Hash("Same-Input1!")
	h2, _ := h.Hash("Same-Input1!")
	if h1 == h2 {
		t.Error("two hashes of the same input must differ (random salt)")
	}
}

func TestBcryptRejectsOverlongPassword(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := h.Hash(string(long)); err == nil {
		t.Error("expected error for password over bcrypt's 72-byte limit")
	}
}

func TestWithCostIgnoresOutOfRange(t *testing.T) {
	h := NewBcryptHasher(WithCost(99))
	if h.cost != DefaultBcryptCost {
		t.Errorf("expected default cost %d, got %d", DefaultBcryptCost, h.cost)
	}
}

func TestArgon2HashVerify(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Memory(8*1024), WithArgon2Time(1))

	hash, err := h.Hash("Correct-Horse1!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if err := h.Verify("Correct-Horse1!", hash); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Verify("wrong-password", hash); err != ErrMismatch {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestArgon2VerifyMalformedHash(t *testing.T) {
	h := NewArgon2Hasher()
	if err := h.Verify("anything", "$not$a$real$hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestPolicyValidate(t *testing.T) {
	policy := NewPolicy()

	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"too short", "abc", false},
		{"exactly eight all classes", "Abcdef1!", true},
		{"no lowercase", "ABCDEF1!", false},
		{"no uppercase", "abcdef1!", false},
		{"no digit", "Abcdefg!", false},
		{"no symbol", "Abcdefg1", false},
		{"long valid", "Sup3r-Secret-Passw0rd!", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Validate(tc.password)
			if tc.wantOK && err != nil {
				t.Errorf("expected pass, got %v", err)
			}
			if !tc.wantOK {
				if err == nil {
					t.Fatal("expected failure")
				}
				if !errors.HasCode(err, errors.ErrCodeWeakPassword) {
					t.Errorf("expected WEAK_PASSWORD, got %v", err)
				}
			}
		})
	}
}

func TestPolicyFirstFailureWins(t *testing.T) {
	policy := NewPolicy()
	// Both length and class rules fail; length is checked first.
	err := policy.Validate("a")
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatal("expected AppError")
	}
	if appErr.Message != "Password must be at least 8 characters long." {
		t.Errorf("expected length rule to be reported first, got %q", appErr.Message)
	}
}

func TestNewHasherFromConfig(t *testing.T) {
	h := NewHasher(Config{Algorithm: AlgorithmBcrypt, BcryptCost: 4})
	if _, ok := h.(*BcryptHasher); !ok {
		t.Errorf("expected *BcryptHasher, got %T", h)
	}

	h = NewHasher(Config{Algorithm: AlgorithmArgon2id})
	if _, ok := h.(*Argon2Hasher); !ok {
		t.Errorf("expected *Argon2Hasher, got %T", h)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	cfg = Config{Algorithm: "scrypt", BcryptCost: 12, MinLength: 8}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestGenerateToken(t *testing.T) {
	tok1, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if len(tok1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(tok1))
	}
	tok2, _ := GenerateToken(32)
	if tok1 == tok2 {
		t.Error("two generated tokens must differ")
	}
}

func TestHashSHA256(t *testing.T) {
	a := HashSHA256("token-one")
	b := HashSHA256("token-one")
	c := HashSHA256("token-two")
	if a != b {
		t.Error("digest must be deterministic")
	}
	if a == c {
		t.Error("different inputs must produce different digests")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
