package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Authentication errors (never retryable — the caller must change its input).
const (
	// ErrCodeInvalidCredentials covers every credential failure: unknown
	// email, wrong password, inactive or federated-only account. The causes
	// are deliberately indistinguishable to the caller.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeAccountInactive indicates the account exists but is deactivated.
	ErrCodeAccountInactive ErrorCode = "ACCOUNT_INACTIVE"
	// ErrCodeWeakPassword indicates the password failed the strength policy.
	ErrCodeWeakPassword ErrorCode = "WEAK_PASSWORD"
	// ErrCodeUserNotFound indicates the identity no longer exists.
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	// ErrCodeEmailTaken indicates an account with the email already exists.
	ErrCodeEmailTaken ErrorCode = "EMAIL_TAKEN"
	// ErrCodePermissionDenied indicates the caller is authenticated but the
	// role's permissions do not cover the operation.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// Token errors.
const (
	// ErrCodeTokenMalformed indicates the token string could not be decoded.
	ErrCodeTokenMalformed ErrorCode = "TOKEN_MALFORMED"
	// ErrCodeTokenExpired indicates the token's exp claim has passed.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid indicates a signature or claim check failed.
	ErrCodeTokenInvalid ErrorCode = "TOKEN_INVALID"
	// ErrCodeTokenRevoked indicates the token was explicitly revoked (logout).
	ErrCodeTokenRevoked ErrorCode = "TOKEN_REVOKED"
	// ErrCodeTokenTypeMismatch indicates a well-formed token of the wrong type
	// (e.g. a refresh token presented where an access token is expected).
	ErrCodeTokenTypeMismatch ErrorCode = "TOKEN_TYPE_MISMATCH"
	// ErrCodeRefreshReplayed indicates a refresh token was presented again
	// after it was already exchanged once.
	ErrCodeRefreshReplayed ErrorCode = "REFRESH_REPLAYED"
	// ErrCodeKeyResolutionFailed indicates the federated signing key could not
	// be resolved. Verification fails closed.
	ErrCodeKeyResolutionFailed ErrorCode = "KEY_RESOLUTION_FAILED"
)

// Input errors.
const (
	// ErrCodeInvalidInput indicates request validation failed.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field was absent.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Infrastructure errors (potentially retryable).
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates a backing service is unreachable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeStoreError indicates the user or token store failed.
	ErrCodeStoreError ErrorCode = "STORE_ERROR"
)

// retryableCodes lists codes where retrying the same request may succeed.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeStoreError:         true,
}

// IsRetryableCode reports whether the code represents a transient failure.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
