package authgate

import (
	"os"
	"strconv"
	"strings"
)

// SimpleConfig is an immutable snapshot of the gateway configuration. Build
// it once at startup and inject it; nothing mutates it afterwards.
type SimpleConfig struct {
	ListenAddr         string
	DatabaseDSN        string
	TokenSecret        string
	TokenExpiration    int
	Issuer             string
	AuthScheme         string
	ContextKey         string
	PublicRoutes       []string
	PasswordSecret     string
	PasswordIterations int
	PasswordKeyLength  int
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetTokenSecret() string     { return c.TokenSecret }
func (c *SimpleConfig) GetTokenExpiration() int    { return c.TokenExpiration }
func (c *SimpleConfig) GetIssuer() string          { return c.Issuer }
func (c *SimpleConfig) GetAuthScheme() string      { return c.AuthScheme }
func (c *SimpleConfig) GetContextKey() string      { return c.ContextKey }
func (c *SimpleConfig) GetPasswordSecret() string  { return c.PasswordSecret }
func (c *SimpleConfig) GetPasswordIterations() int { return c.PasswordIterations }
func (c *SimpleConfig) GetPasswordKeyLength() int  { return c.PasswordKeyLength }

// GetPublicRoutes returns a copy so callers cannot mutate the allow-list.
func (c *SimpleConfig) GetPublicRoutes() []string {
	return append([]string(nil), c.PublicRoutes...)
}

// LoadDefaults populates the config with development defaults.
// NOTE: the secrets are insecure and must be overridden outside of dev.
func (c *SimpleConfig) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = "file:authgate.db?cache=shared"
	c.TokenSecret = "authgateTokenSecret"
	c.TokenExpiration = 3600
	c.Issuer = "authgate"
	c.AuthScheme = "Bearer"
	c.ContextKey = "user"
	c.PublicRoutes = []string{"/api/v1/auth/register", "/api/v1/auth/login"}
	c.PasswordSecret = "authgatePasswordSecret"
	c.PasswordIterations = 4096
	// derived key length in bytes
	c.PasswordKeyLength = 32
}

// NewConfigFromEnv builds a config by applying defaults and overlaying
// AUTHGATE_* environment variables.
func NewConfigFromEnv() *SimpleConfig {
	cfg := &SimpleConfig{}
	cfg.LoadDefaults()

	overlayString(&cfg.ListenAddr, "AUTHGATE_LISTEN_ADDR")
	overlayString(&cfg.DatabaseDSN, "AUTHGATE_DATABASE_DSN")
	overlayString(&cfg.TokenSecret, "AUTHGATE_TOKEN_SECRET")
	overlayInt(&cfg.TokenExpiration, "AUTHGATE_TOKEN_EXPIRATION")
	overlayString(&cfg.Issuer, "AUTHGATE_TOKEN_ISSUER")
	overlayString(&cfg.AuthScheme, "AUTHGATE_AUTH_SCHEME")
	overlayString(&cfg.ContextKey, "AUTHGATE_CONTEXT_KEY")
	overlayStrings(&cfg.PublicRoutes, "AUTHGATE_PUBLIC_ROUTES")
	overlayString(&cfg.PasswordSecret, "AUTHGATE_PASSWORD_SECRET")
	overlayInt(&cfg.PasswordIterations, "AUTHGATE_PASSWORD_ITERATIONS")
	overlayInt(&cfg.PasswordKeyLength, "AUTHGATE_PASSWORD_KEY_LENGTH")

	return cfg
}

func overlayString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func overlayInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func overlayStrings(target *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		routes := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				routes = append(routes, p)
			}
		}
		if len(routes) > 0 {
			*target = routes
		}
	}
}
