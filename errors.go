package authgate

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes carried by structured errors. They are stable identifiers for
// logs and API consumers; the transport layer never leaks them for
// authentication failures.
const (
	TextCodeInvalidUsername = "INVALID_USERNAME"
	TextCodeInvalidPassword = "INVALID_PASSWORD"
	TextCodeAccountDisabled = "ACCOUNT_DISABLED"
	TextCodeUserDisabled    = "USER_DISABLED"
	TextCodeNoCredential    = "NO_CREDENTIAL"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeMalformedClaims = "MALFORMED_CLAIMS"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeUserNotFound    = "USER_NOT_FOUND"
	TextCodeUsernameTaken   = "USERNAME_TAKEN"
	TextCodeForbidden       = "FORBIDDEN"
)

// ErrInvalidUsername is the login failure for an unknown username
var ErrInvalidUsername = errors.New("invalid username", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidUsername)

// ErrInvalidPassword is the login failure for a password hash mismatch
var ErrInvalidPassword = errors.New("invalid password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidPassword)

// ErrAccountDisabled is the login failure for a disabled account
var ErrAccountDisabled = errors.New("account disabled", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled)

// ErrUserDisabled is the per-request liveness failure: the account behind a
// still-valid token is missing or no longer enabled
var ErrUserDisabled = errors.New("user disabled", errors.CategoryAuth).
	WithTextCode(TextCodeUserDisabled)

// ErrMissingCredential is the failure for a protected request with no usable
// Authorization header
var ErrMissingCredential = errors.New("missing or malformed authorization header", errors.CategoryAuth).
	WithTextCode(TextCodeNoCredential)

// ErrTokenExpired is the failure for a validly signed token past its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is the failure for an unparseable token or a signature
// mismatch
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrMalformedClaims is the failure for verified claims missing required
// fields
var ErrMalformedClaims = errors.New("claims missing required fields", errors.CategoryAuth).
	WithTextCode(TextCodeMalformedClaims)

// ErrNoEmptyPassword rejects hashing an empty password
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrForbidden is the authorization failure for an authenticated principal
// lacking the required role
var ErrForbidden = errors.New("insufficient role", errors.CategoryAuth).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// NewUserNotFound builds the store-level not found error. Callers detect it
// with errors.IsNotFound.
func NewUserNotFound(metadata map[string]any) *errors.Error {
	return errors.New("user not found", errors.CategoryNotFound).
		WithTextCode(TextCodeUserNotFound).
		WithMetadata(metadata)
}

// NewUsernameTaken builds the registration conflict error for a duplicate
// username.
func NewUsernameTaken(username string) *errors.Error {
	return errors.New("username already taken", errors.CategoryConflict).
		WithTextCode(TextCodeUsernameTaken).
		WithMetadata(map[string]any{"username": username})
}

// IsAuthError reports whether err belongs to the authentication taxonomy,
// i.e. should surface as a generic 401.
func IsAuthError(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuth
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}
