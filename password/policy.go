package password

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ridewise/carpool-auth/errors"
)

// AllowedSymbols is the fixed set of symbol characters the policy accepts.
const AllowedSymbols = `!@#$%^&*()-_=+[]{};:'",.<>/?\|~` + "`"

// Policy enforces password-strength rules on registration and resets.
// Rules run in a fixed order and the first failure is reported; the
// policy does not enumerate every violation.
type Policy struct {
	// MinLength is the minimum password length (default: 8).
	MinLength int
}

// NewPolicy creates a Policy with default rules.
func NewPolicy() *Policy {
	return &Policy{MinLength: 8}
}

// Validate checks the password against the strength rules.
// Returns a *errors.AppError with code WEAK_PASSWORD naming the first
// failed rule, or nil when all rules pass.
func (p *Policy) Validate(password string) error {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(password) < minLen {
		return errors.WeakPassword(fmt.Sprintf("Password must be at least %d characters long.", minLen))
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(AllowedSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return errors.WeakPassword("Password must contain a lowercase letter.")
	case !hasUpper:
		return errors.WeakPassword("Password must contain an uppercase letter.")
	case !hasDigit:
		return errors.WeakPassword("Password must contain a digit.")
	case !hasSymbol:
		return errors.WeakPassword("Password must contain a symbol.")
	}
	return nil
}
