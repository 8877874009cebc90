// Package bearerware is the request filter pipeline: it classifies routes
// as public or protected, extracts the bearer credential, verifies it,
// converts the claims into a principal, re-checks account liveness, and
// either attaches the identity to the request or short-circuits with a
// generic unauthorized response.
package bearerware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dvelichkov/authgate"
)

// Config holds the pipeline wiring. Verifier and Reauthenticator are
// required; everything else has defaults.
type Config struct {
	// Filter skips the middleware when it returns true, on top of the
	// built-in OPTIONS and public-route bypasses.
	Filter func(*fiber.Ctx) bool

	// PublicRoutes is the exact-match set of paths that never need a
	// credential.
	PublicRoutes []string

	// AuthScheme is the expected Authorization scheme prefix. Default
	// "Bearer".
	AuthScheme string

	// ContextKey is the fiber locals key for the verified claims. Default
	// "user".
	ContextKey string

	Verifier        authgate.TokenVerifier
	Reauthenticator authgate.Reauthenticator

	// SuccessHandler runs for admitted requests. Default passes through.
	SuccessHandler fiber.Handler

	// ErrorHandler runs for every rejection. The default logs the failure
	// kind and writes the generic 401 body.
	ErrorHandler fiber.ErrorHandler

	Logger authgate.Logger

	publicRoutes map[string]struct{}
}

// PrincipalContextKey is the fiber locals key for the admitted principal.
const PrincipalContextKey = "principal"

// New returns the pipeline middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		// pre-flight bypass: OPTIONS on any path is always permitted
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		if _, ok := cfg.publicRoutes[c.Path()]; ok {
			return c.Next()
		}

		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := extractBearer(c, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		result, err := cfg.Verifier.Verify(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		principal, roles, err := authgate.PrincipalFromVerification(result)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		principal, err = cfg.Reauthenticator.Reauthenticate(c.UserContext(), principal)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, result.Claims)
		c.Locals(PrincipalContextKey, principal)

		ctx := authgate.WithPrincipal(c.UserContext(), principal)
		ctx = authgate.WithClaims(ctx, result.Claims)
		ctx = authgate.WithRoles(ctx, roles)
		c.SetUserContext(ctx)

		return cfg.SuccessHandler(c)
	}
}

// RequireRole guards a route behind a minimum role. It runs after the
// pipeline: no granted roles in the context reads as unauthenticated, an
// insufficient role as forbidden.
func RequireRole(minRole authgate.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := authgate.RolesFromContext(c.UserContext()); !ok {
			return authgate.RenderUnauthorized(c)
		}

		if !authgate.HasRoleAtLeast(c.UserContext(), minRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  fiber.StatusForbidden,
				"code":    authgate.TextCodeForbidden,
				"message": "Forbidden",
			})
		}

		return c.Next()
	}
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("bearerware: Verifier is required")
	}

	if cfg.Reauthenticator == nil {
		panic("bearerware: Reauthenticator is required")
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.Logger == nil {
		cfg.Logger = authgate.DefaultLogger()
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			logger.Info("request rejected", "path", c.Path(), "error", err)
			return authgate.RenderUnauthorized(c)
		}
	}

	cfg.publicRoutes = make(map[string]struct{}, len(cfg.PublicRoutes))
	for _, route := range cfg.PublicRoutes {
		cfg.publicRoutes[route] = struct{}{}
	}

	return cfg
}

// extractBearer pulls the credential out of the Authorization header.
// Missing header or wrong scheme both reject with the no-credential error.
func extractBearer(c *fiber.Ctx, scheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", authgate.ErrMissingCredential
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", authgate.ErrMissingCredential
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", authgate.ErrMissingCredential
	}

	return token, nil
}
