package authgate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthController exposes the register, login, and info endpoints. Everything
// else in the gateway is reached through the bearerware pipeline.
type AuthController struct {
	Debug     bool
	Logger    Logger
	Auth      Authenticator
	Registrar Registrar
	Store     UserStore
}

// NewAuthController wires the controller with a default logger.
func NewAuthController(auth Authenticator, registrar Registrar, store UserStore) *AuthController {
	return &AuthController{
		Logger:    defLogger{},
		Auth:      auth,
		Registrar: registrar,
		Store:     store,
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterAuthRoutes mounts the auth endpoints on the given router group.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post("/auth/register", controller.RegisterPost)
	app.Post("/auth/login", controller.LoginPost)
	app.Get("/auth/info", controller.UserInfo)
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.renderError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("register payload rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":     fiber.StatusBadRequest,
			"code":       "VALIDATION_FAILED",
			"message":    "invalid registration payload",
			"validation": err,
		})
	}

	user, err := a.Registrar.Execute(c.UserContext(), RegisterUserMessage{
		Username:  payload.Username,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		a.Logger.Error("register execute", "error", err)
		return a.renderError(c, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(user))
		fmt.Println("============================")
	}

	return c.JSON(user)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.renderError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("login payload rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":     fiber.StatusBadRequest,
			"code":       "VALIDATION_FAILED",
			"message":    "invalid login payload",
			"validation": err,
		})
	}

	details, err := a.Auth.Authenticate(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(details)
}

// UserInfo returns the account behind the admitted request's principal. The
// route sits behind the bearerware pipeline, so the principal is always in
// the request context here.
func (a *AuthController) UserInfo(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c.UserContext())
	if !ok {
		return a.renderError(c, ErrMissingCredential)
	}

	user, err := a.Store.FindByID(c.UserContext(), principal.ID)
	if err != nil {
		a.Logger.Error("user info lookup", "user_id", principal.ID, "error", err)
		return a.renderError(c, err)
	}

	return c.JSON(user)
}

// renderError maps structured errors to HTTP responses. Authentication
// failures collapse into one generic unauthorized body; the precise kind
// stays in the server logs only.
func (a *AuthController) renderError(c *fiber.Ctx, err error) error {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		rich = errors.Wrap(err, errors.CategoryInternal, "internal server error")
	}

	if rich.Category == errors.CategoryAuth {
		a.Logger.Info("authentication failure", "code", rich.TextCode, "error", rich.Message)
		return RenderUnauthorized(c)
	}

	status := StatusForCategory(rich.Category)
	message := rich.Message
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  status,
		"code":    rich.TextCode,
		"message": message,
	})
}

// RenderUnauthorized writes the single generic 401 body used for every
// authentication failure.
func RenderUnauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  fiber.StatusUnauthorized,
		"code":    "UNAUTHORIZED",
		"message": "Unauthorized",
	})
}

// StatusForCategory translates error categories into HTTP status codes.
func StatusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
