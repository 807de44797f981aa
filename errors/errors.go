// Package errors provides the typed error taxonomy for the auth core.
// Expected authentication failures (bad credentials, expired or revoked
// tokens) are returned as *AppError values so callers handle every branch
// explicitly; only infrastructure failures carry a wrapped cause.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Authentication Error Constructors ---

// InvalidCredentials creates the single generic credential error.
// The message never varies with the internal cause.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "Invalid credentials.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// AccountInactive creates an error for a deactivated account.
func AccountInactive() *AppError {
	return &AppError{
		Code: ErrCodeAccountInactive, Message: "This account has been deactivated.",
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// WeakPassword creates an error carrying the first failed strength rule.
func WeakPassword(reason string) *AppError {
	return &AppError{
		Code: ErrCodeWeakPassword, Message: reason,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// UserNotFound creates an error for an identity that no longer exists.
func UserNotFound() *AppError {
	return &AppError{
		Code: ErrCodeUserNotFound, Message: "User not found.",
		HTTPStatus: http.StatusNotFound, Retryable: false,
	}
}

// EmailTaken creates an error for a duplicate registration email.
func EmailTaken() *AppError {
	return &AppError{
		Code: ErrCodeEmailTaken, Message: "An account with this email already exists.",
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// PermissionDenied creates an error for an authenticated caller whose role
// does not grant the required permission.
func PermissionDenied(required string) *AppError {
	return &AppError{
		Code: ErrCodePermissionDenied, Message: "You do not have permission to perform this action.",
		HTTPStatus: http.StatusForbidden, Retryable: false,
		Details: map[string]any{"required": required},
	}
}

// --- Token Error Constructors ---
// Token failures all surface the same user-visible message so a caller
// cannot tell which verification step failed.

const genericTokenMessage = "Invalid or expired token."

// TokenMalformed creates an error for undecodable token input.
func TokenMalformed() *AppError {
	return &AppError{
		Code: ErrCodeTokenMalformed, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenExpired creates an error for a token past its exp claim.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenInvalid creates an error for a failed signature or claim check.
func TokenInvalid() *AppError {
	return &AppError{
		Code: ErrCodeTokenInvalid, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenRevoked creates an error for an explicitly revoked token.
func TokenRevoked() *AppError {
	return &AppError{
		Code: ErrCodeTokenRevoked, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenTypeMismatch creates an error for a token of the wrong type.
func TokenTypeMismatch() *AppError {
	return &AppError{
		Code: ErrCodeTokenTypeMismatch, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// RefreshReplayed creates an error for a second use of a rotated refresh token.
func RefreshReplayed() *AppError {
	return &AppError{
		Code: ErrCodeRefreshReplayed, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// KeyResolutionFailed creates an error for an unresolvable federated signing key.
func KeyResolutionFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeKeyResolutionFailed, Message: genericTokenMessage,
		HTTPStatus: http.StatusUnauthorized, Retryable: false, Cause: cause,
	}
}

// --- Input Error Constructors ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// --- Infrastructure Error Constructors ---

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// StoreError creates a new AppError for a failed store operation.
func StoreError(store string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStoreError, Message: "A storage error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"store": store}, Cause: cause,
	}
}

// ServiceUnavailable creates a new AppError for an unreachable backing service.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}
