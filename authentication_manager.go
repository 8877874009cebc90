package authgate

import (
	"context"
)

// AuthenticationManager re-validates a converted principal on every
// protected request. A token's validity window can outlive an account being
// disabled, so the account record is re-fetched and its enabled flag checked
// at admission time instead of trusting the embedded claims.
type AuthenticationManager struct {
	store  UserStore
	logger Logger
}

// NewAuthenticationManager returns a new AuthenticationManager
func NewAuthenticationManager(store UserStore) *AuthenticationManager {
	return &AuthenticationManager{
		store:  store,
		logger: defLogger{},
	}
}

func (m *AuthenticationManager) WithLogger(logger Logger) *AuthenticationManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Reauthenticate returns the principal unchanged when the referenced account
// exists and is enabled. Missing accounts, disabled accounts, and store
// failures all fail closed as ErrUserDisabled.
func (m *AuthenticationManager) Reauthenticate(ctx context.Context, principal Principal) (Principal, error) {
	user, err := m.store.FindByID(ctx, principal.ID)
	if err != nil {
		m.logger.Error("reauthenticate lookup failed", "user_id", principal.ID, "error", err)
		return Principal{}, ErrUserDisabled
	}

	if user == nil || !user.Enabled {
		m.logger.Info("reauthenticate rejected disabled account", "user_id", principal.ID)
		return Principal{}, ErrUserDisabled
	}

	return principal, nil
}

var _ Reauthenticator = (*AuthenticationManager)(nil)
