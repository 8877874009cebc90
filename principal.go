package authgate

import (
	"strconv"

	"github.com/goliatone/go-errors"
)

// Principal identifies the authenticated actor for the remainder of a
// request's lifecycle. Immutable, request scoped.
type Principal struct {
	ID   int64
	Name string
}

// PrincipalFromVerification converts verified claims into a typed principal
// plus the granted roles. The subject must parse as an integer id and the
// role claim must be present; anything else is a malformed claim set and
// never yields a principal.
func PrincipalFromVerification(result *VerificationResult) (Principal, []UserRole, error) {
	if result == nil || result.Claims == nil {
		return Principal{}, nil, ErrMalformedClaims
	}

	claims := result.Claims

	subject := claims.RegisteredClaims.Subject
	if subject == "" {
		return Principal{}, nil, errors.New(ErrMalformedClaims.Message, ErrMalformedClaims.Category).
			WithTextCode(ErrMalformedClaims.TextCode).
			WithMetadata(map[string]any{"claim": "sub"})
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return Principal{}, nil, errors.Wrap(err, ErrMalformedClaims.Category, ErrMalformedClaims.Message).
			WithTextCode(ErrMalformedClaims.TextCode)
	}

	if claims.Role == "" {
		return Principal{}, nil, errors.New(ErrMalformedClaims.Message, ErrMalformedClaims.Category).
			WithTextCode(ErrMalformedClaims.TextCode).
			WithMetadata(map[string]any{"claim": "role"})
	}

	// single role per token today; one grant per role value present
	roles := []UserRole{UserRole(claims.Role)}

	return Principal{ID: id, Name: claims.Username}, roles, nil
}
