package authgate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set the gateway embeds in every token: the
// registered issuer/subject/iat/exp/jti fields plus the account role and
// username. Claims are produced once at issuance and never mutated on
// verification.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role,omitempty"`
	Username string `json:"username,omitempty"`
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *AccessClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// VerificationResult pairs verified claims with the raw compact token. It
// only lives for the duration of one conversion step.
type VerificationResult struct {
	Claims *AccessClaims
	Token  string
}
