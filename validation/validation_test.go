package validation

import (
	"strings"
	"testing"

	"github.com/ridewise/carpool-auth/errors"
)

func TestValidatorCollectsErrors(t *testing.T) {
	v := New().
		Required("email", "").
		MinLength("password", "short", 8)

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrCodeInvalidInput)
	}
	if len(v.Errors()) != 2 {
		t.Fatalf("errors = %d, want 2", len(v.Errors()))
	}
}

func TestValidatorPasses(t *testing.T) {
	v := New().
		Required("email", "parent@example.com").
		Email("email", "parent@example.com").
		MinLength("password", "long-enough-pw", 8)

	if v.HasErrors() {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
	if appErr := v.Validate(); appErr != nil {
		t.Fatalf("unexpected AppError: %v", appErr)
	}
}

func TestValidatorEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"parent@example.com", true},
		{"not-an-email", false},
		{"@missing-local.com", false},
		{"", true}, // empty passes, Required catches it
	}
	for _, tt := range tests {
		v := New().Email("email", tt.value)
		if got := !v.HasErrors(); got != tt.valid {
			t.Errorf("Email(%q) valid = %v, want %v", tt.value, got, tt.valid)
		}
	}
}

func TestValidatorRequiredUUID(t *testing.T) {
	if v := New().RequiredUUID("id", "b2bbbd1c-82c2-4d38-9db5-3b2a4eac2a9c"); v.HasErrors() {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
	if v := New().RequiredUUID("id", "nope"); !v.HasErrors() {
		t.Fatal("expected error for malformed UUID")
	}
	if v := New().RequiredUUID("id", "00000000-0000-0000-0000-000000000000"); !v.HasErrors() {
		t.Fatal("expected error for nil UUID")
	}
}

func TestValidatorOneOf(t *testing.T) {
	roles := []string{"parent", "student", "group_admin"}
	if v := New().OneOf("role", "parent", roles); v.HasErrors() {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
	if v := New().OneOf("role", "driver", roles); !v.HasErrors() {
		t.Fatal("expected error for unknown role")
	}
}

func TestValidateStruct(t *testing.T) {
	type signupForm struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := Validate(signupForm{Email: "parent@example.com", Password: "long-enough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Validate(signupForm{Email: "bad", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrCodeInvalidInput)
	}
	if !strings.Contains(appErr.Message, "email") || !strings.Contains(appErr.Message, "password") {
		t.Fatalf("message should name both fields: %q", appErr.Message)
	}
}

func TestValidateStructUsesJSONTagNames(t *testing.T) {
	type form struct {
		DisplayName string `json:"display_name" validate:"required"`
	}
	err := Validate(form{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "display_name") {
		t.Fatalf("expected json tag name in message: %q", err.Error())
	}
}
