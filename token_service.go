package authgate

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService issues and verifies the gateway's bearer tokens. The signing
// key is the base64 encoding of the configured secret; issuance and
// verification share this derivation, so both sides must be built from the
// same Config or every token fails verification.
type TokenService struct {
	signingKey []byte
	expiration time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
	newTokenID func() string
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config) *TokenService {
	return &TokenService{
		signingKey: EncodeSigningKey(cfg.GetTokenSecret()),
		expiration: time.Duration(cfg.GetTokenExpiration()) * time.Second,
		issuer:     cfg.GetIssuer(),
		logger:     defLogger{},
		now:        time.Now,
		newTokenID: uuid.NewString,
	}
}

// EncodeSigningKey derives the HMAC key from the raw secret.
func EncodeSigningKey(secret string) []byte {
	return []byte(base64.StdEncoding.EncodeToString([]byte(secret)))
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// WithClock overrides the time source, mostly for tests.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// WithTokenIDSource overrides the jti generator, mostly for tests.
func (ts *TokenService) WithTokenIDSource(source func() string) *TokenService {
	if source != nil {
		ts.newTokenID = source
	}
	return ts
}

// Generate mints a signed token for the account: subject is the stringified
// user id, role and username travel as application claims, and every token
// gets a fresh jti.
func (ts *TokenService) Generate(user *User) (*TokenDetails, error) {
	if user == nil {
		return nil, errors.New("user must not be nil", errors.CategoryInternal)
	}

	now := ts.now()
	expiresAt := now.Add(ts.expiration)

	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        ts.newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:     string(user.Role),
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return &TokenDetails{
		UserID:    user.ID,
		Token:     signed,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify parses and validates a compact token string. Signature and expiry
// fail with distinguishable causes: a tampered or unparseable token yields
// ErrTokenMalformed, a validly signed token past its expiry yields
// ErrTokenExpired.
func (ts *TokenService) Verify(tokenString string) (*VerificationResult, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.now))
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	return &VerificationResult{Claims: claims, Token: tokenString}, nil
}

var (
	_ TokenIssuer   = (*TokenService)(nil)
	_ TokenVerifier = (*TokenService)(nil)
)
