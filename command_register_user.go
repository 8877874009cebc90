package authgate

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterUserMessage carries the fields accepted at registration. The
// plaintext password never reaches the store; it is hashed inside the
// handler.
type RegisterUserMessage struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler registers new accounts with the default role and an
// enabled status.
type RegisterUserHandler struct {
	store   Users
	encoder PasswordEncoder
	logger  Logger
}

// NewRegisterUserHandler returns a new RegisterUserHandler
func NewRegisterUserHandler(store Users, encoder PasswordEncoder) *RegisterUserHandler {
	return &RegisterUserHandler{
		store:   store,
		encoder: encoder,
		logger:  defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	hash, err := h.encoder.Encode(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     event.Username,
		PasswordHash: hash,
		FirstName:    event.FirstName,
		LastName:     event.LastName,
	}

	user, err = h.store.Register(ctx, user)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	h.logger.Info("registered user", "user_id", user.ID, "username", user.Username)

	return user, nil
}

var _ Registrar = (*RegisterUserHandler)(nil)
