package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestInvalidCredentialsIsGeneric(t *testing.T) {
	// Every credential failure must produce the same caller-visible error.
	a := InvalidCredentials()
	b := InvalidCredentials()
	if a.Message != b.Message || a.Code != b.Code {
		t.Error("InvalidCredentials must be identical regardless of cause")
	}
	if a.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", a.HTTPStatus)
	}
}

func TestTokenErrorsShareGenericMessage(t *testing.T) {
	errs := []*AppError{
		TokenMalformed(), TokenExpired(), TokenInvalid(),
		TokenRevoked(), TokenTypeMismatch(), RefreshReplayed(),
		KeyResolutionFailed(nil),
	}
	for _, e := range errs {
		if e.Message != genericTokenMessage {
			t.Errorf("%s leaks its cause via message %q", e.Code, e.Message)
		}
	}
}

func TestErrorString(t *testing.T) {
	e := New(ErrCodeInternal, "boom", http.StatusInternalServerError)
	if e.Error() != "INTERNAL_ERROR: boom" {
		t.Errorf("unexpected error string: %s", e.Error())
	}

	e = e.WithCause(stderrors.New("db down"))
	if e.Error() != "INTERNAL_ERROR: boom (cause: db down)" {
		t.Errorf("unexpected error string with cause: %s", e.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("network")
	e := StoreError("redis", cause)
	if !stderrors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAsAppError(t *testing.T) {
	e := WeakPassword("too short")
	wrapped := fmt.Errorf("register: %w", e)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed on wrapped error")
	}
	if appErr.Code != ErrCodeWeakPassword {
		t.Errorf("expected WEAK_PASSWORD, got %s", appErr.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected AsAppError to fail on plain error")
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(RefreshReplayed(), ErrCodeRefreshReplayed) {
		t.Error("expected HasCode to match")
	}
	if HasCode(RefreshReplayed(), ErrCodeTokenExpired) {
		t.Error("expected HasCode to reject different code")
	}
	if HasCode(stderrors.New("x"), ErrCodeInternal) {
		t.Error("expected HasCode to reject non-AppError")
	}
}

func TestRetryable(t *testing.T) {
	if InvalidCredentials().Retryable {
		t.Error("credential errors are not retryable")
	}
	if !StoreError("redis", nil).Retryable {
		t.Error("store errors are retryable")
	}
}

func TestToResponse(t *testing.T) {
	e := MissingField("email")
	resp := e.ToResponse()
	if resp.Error.Code != ErrCodeMissingField {
		t.Errorf("unexpected code: %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "email" {
		t.Error("expected field detail to survive conversion")
	}
}
