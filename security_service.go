package authgate

import (
	"context"

	"github.com/goliatone/go-errors"
)

// SecurityService orchestrates login: store lookup, account status check,
// password verification, token issuance.
type SecurityService struct {
	store   UserStore
	encoder PasswordEncoder
	tokens  TokenIssuer
	logger  Logger
}

// NewSecurityService returns a new SecurityService
func NewSecurityService(store UserStore, encoder PasswordEncoder, tokens TokenIssuer) *SecurityService {
	return &SecurityService{
		store:   store,
		encoder: encoder,
		tokens:  tokens,
		logger:  defLogger{},
	}
}

func (s *SecurityService) WithLogger(logger Logger) *SecurityService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Authenticate verifies the credentials and returns the issuance result with
// the account id attached. Unknown username, disabled account, and password
// mismatch stay distinct kinds here; the transport layer collapses them into
// one generic unauthorized response.
func (s *SecurityService) Authenticate(ctx context.Context, username, password string) (*TokenDetails, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Info("login for unknown username", "username", username)
			return nil, ErrInvalidUsername
		}
		s.logger.Error("login user lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if user == nil {
		return nil, ErrInvalidUsername
	}

	if !user.Enabled {
		s.logger.Info("login blocked for disabled account", "user_id", user.ID)
		return nil, ErrAccountDisabled
	}

	if !s.encoder.Matches(password, user.PasswordHash) {
		s.logger.Info("login password mismatch", "user_id", user.ID)
		return nil, ErrInvalidPassword
	}

	details, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("login token generation failed", "error", err)
		return nil, err
	}

	return details, nil
}

var _ Authenticator = (*SecurityService)(nil)
