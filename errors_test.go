package authgate_test

import (
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvelichkov/authgate"
)

func TestAuthErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		textCode string
	}{
		{"invalid username", authgate.ErrInvalidUsername, authgate.TextCodeInvalidUsername},
		{"invalid password", authgate.ErrInvalidPassword, authgate.TextCodeInvalidPassword},
		{"account disabled", authgate.ErrAccountDisabled, authgate.TextCodeAccountDisabled},
		{"user disabled", authgate.ErrUserDisabled, authgate.TextCodeUserDisabled},
		{"missing credential", authgate.ErrMissingCredential, authgate.TextCodeNoCredential},
		{"token expired", authgate.ErrTokenExpired, authgate.TextCodeTokenExpired},
		{"token malformed", authgate.ErrTokenMalformed, authgate.TextCodeTokenMalformed},
		{"malformed claims", authgate.ErrMalformedClaims, authgate.TextCodeMalformedClaims},
		{"forbidden", authgate.ErrForbidden, authgate.TextCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, goerrors.CategoryAuth, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.True(t, authgate.IsAuthError(tt.err))
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.False(t, authgate.IsAuthError(nil))
	assert.False(t, authgate.IsAuthError(fmt.Errorf("boom")))
	assert.False(t, authgate.IsAuthError(authgate.ErrNoEmptyPassword))
	assert.False(t, authgate.IsAuthError(authgate.NewUserNotFound(nil)))
	assert.True(t, authgate.IsAuthError(authgate.ErrInvalidPassword))

	wrapped := fmt.Errorf("during login: %w", authgate.ErrAccountDisabled)
	assert.True(t, authgate.IsAuthError(wrapped))
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, authgate.IsTokenExpiredError(nil))
	assert.False(t, authgate.IsTokenExpiredError(authgate.ErrTokenMalformed))
	assert.True(t, authgate.IsTokenExpiredError(authgate.ErrTokenExpired))
	assert.True(t, authgate.IsTokenExpiredError(fmt.Errorf("verify: %w", authgate.ErrTokenExpired)))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, authgate.IsMalformedError(nil))
	assert.False(t, authgate.IsMalformedError(authgate.ErrTokenExpired))
	assert.True(t, authgate.IsMalformedError(authgate.ErrTokenMalformed))
	assert.True(t, authgate.IsMalformedError(authgate.ErrMissingCredential))
}

func TestNewUserNotFound(t *testing.T) {
	err := authgate.NewUserNotFound(map[string]any{"id": int64(9)})
	require.NotNil(t, err)

	assert.True(t, goerrors.IsNotFound(err))
	assert.Equal(t, authgate.TextCodeUserNotFound, err.TextCode)
	assert.Equal(t, int64(9), err.Metadata["id"])
	assert.False(t, authgate.IsAuthError(err))
}

func TestNewUsernameTaken(t *testing.T) {
	err := authgate.NewUsernameTaken("alice")
	require.NotNil(t, err)

	assert.Equal(t, goerrors.CategoryConflict, err.Category)
	assert.Equal(t, authgate.TextCodeUsernameTaken, err.TextCode)
	assert.Equal(t, "alice", err.Metadata["username"])
}

// The constructors must return fresh values so per-call metadata never
// bleeds between requests.
func TestErrorConstructorsReturnFreshValues(t *testing.T) {
	first := authgate.NewUserNotFound(map[string]any{"id": int64(1)})
	second := authgate.NewUserNotFound(map[string]any{"id": int64(2)})

	assert.NotSame(t, first, second)
	assert.Equal(t, int64(1), first.Metadata["id"])
	assert.Equal(t, int64(2), second.Metadata["id"])
}
