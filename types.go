package authgate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
}

// Config holds auth options. Implementations are built once at startup and
// never mutated afterwards; every component takes its own copy of the values
// it needs.
type Config interface {
	GetTokenSecret() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAuthScheme() string
	GetContextKey() string
	GetPublicRoutes() []string
	GetPasswordSecret() string
	GetPasswordIterations() int
	GetPasswordKeyLength() int
}

// UserStore is the external persistence contract the core depends on.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)
}

// PasswordEncoder hashes passwords for storage and verifies raw passwords
// against stored hashes.
type PasswordEncoder interface {
	Encode(rawPassword string) (string, error)
	Matches(rawPassword, encodedPassword string) bool
}

// TokenIssuer mints a signed bearer token for an account.
type TokenIssuer interface {
	Generate(user *User) (*TokenDetails, error)
}

// TokenVerifier validates a compact token string and extracts claims without
// tying callers to a specific signing implementation.
type TokenVerifier interface {
	Verify(tokenString string) (*VerificationResult, error)
}

// Authenticator holds methods to deal with login
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*TokenDetails, error)
}

// Reauthenticator re-validates an already-authenticated principal against
// current account state. Tokens can outlive an account being disabled; this
// is the per-request liveness check.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, principal Principal) (Principal, error)
}

// Registrar handles new account registration.
type Registrar interface {
	Execute(ctx context.Context, msg RegisterUserMessage) (*User, error)
}

// TokenDetails is the issuance result handed back to the login caller. It is
// transient; nothing in the core persists it.
type TokenDetails struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DefaultLogger returns the stdout fallback logger components use until a
// real one is injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(message string, args ...any) {
	fmt.Println(logLine("ERR", message, args...))
}

func (d defLogger) Warn(message string, args ...any) {
	fmt.Println(logLine("WRN", message, args...))
}

func (d defLogger) Info(message string, args ...any) {
	fmt.Println(logLine("INF", message, args...))
}

func (d defLogger) Debug(message string, args ...any) {
	fmt.Println(logLine("DBG", message, args...))
}

// logLine renders the message followed by the trailing args as key=value
// pairs. An odd trailing argument prints on its own.
func logLine(level, message string, args ...any) string {
	var b strings.Builder
	b.WriteString("[" + level + "] AUTH " + message)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		fmt.Fprintf(&b, " %v", args[len(args)-1])
	}
	return b.String()
}
