package authgate_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dvelichkov/authgate"
)

// MockUserStore implements authgate.Users for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id int64) (*authgate.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*authgate.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*authgate.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*authgate.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) Save(ctx context.Context, user *authgate.User) (*authgate.User, error) {
	args := m.Called(ctx, user)
	if saved, ok := args.Get(0).(*authgate.User); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *authgate.User) (*authgate.User, error) {
	args := m.Called(ctx, user)
	if saved, ok := args.Get(0).(*authgate.User); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAuthenticator implements authgate.Authenticator for testing
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, username, password string) (*authgate.TokenDetails, error) {
	args := m.Called(ctx, username, password)
	if details, ok := args.Get(0).(*authgate.TokenDetails); ok {
		return details, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRegistrar implements authgate.Registrar for testing
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Execute(ctx context.Context, msg authgate.RegisterUserMessage) (*authgate.User, error) {
	args := m.Called(ctx, msg)
	if user, ok := args.Get(0).(*authgate.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

type logCall struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

// testConfig keeps the PBKDF2 parameters small so hashing stays fast in
// tests.
func testConfig() *authgate.SimpleConfig {
	cfg := &authgate.SimpleConfig{}
	cfg.LoadDefaults()
	cfg.TokenSecret = "test-token-secret"
	cfg.PasswordSecret = "test-password-secret"
	cfg.PasswordIterations = 64
	cfg.PasswordKeyLength = 32
	return cfg
}
