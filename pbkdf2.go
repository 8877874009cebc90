package authgate

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2Encoder derives password hashes with PBKDF2-HMAC-SHA512. Secret,
// iteration count, and key length must stay stable for the life of an
// account or stored hashes stop matching; they come from the immutable
// startup Config.
type PBKDF2Encoder struct {
	secret     []byte
	iterations int
	keyLength  int
}

// NewPBKDF2Encoder builds the encoder from configuration.
func NewPBKDF2Encoder(cfg Config) *PBKDF2Encoder {
	return &PBKDF2Encoder{
		secret:     []byte(cfg.GetPasswordSecret()),
		iterations: cfg.GetPasswordIterations(),
		keyLength:  cfg.GetPasswordKeyLength(),
	}
}

// Encode hashes a raw password. Pure: same input and configuration always
// produce the same output.
func (e *PBKDF2Encoder) Encode(rawPassword string) (string, error) {
	if rawPassword == "" {
		return "", ErrNoEmptyPassword
	}

	key := pbkdf2.Key([]byte(rawPassword), e.secret, e.iterations, e.keyLength, sha512.New)
	return base64.StdEncoding.EncodeToString(key), nil
}

// Matches recomputes the hash for the raw password and compares it to the
// stored hash in constant time.
func (e *PBKDF2Encoder) Matches(rawPassword, encodedPassword string) bool {
	encoded, err := e.Encode(rawPassword)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(encodedPassword)) == 1
}

var _ PasswordEncoder = (*PBKDF2Encoder)(nil)
