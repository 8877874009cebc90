package authgate_test

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/dvelichkov/authgate"
	"github.com/dvelichkov/authgate/middleware/bearerware"
)

type gatewayFixture struct {
	app   *fiber.App
	store authgate.Users
}

// newGatewayFixture wires the full stack against an in-memory database, the
// same shape the server entrypoint builds.
func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	cfg := testConfig()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "_gw?mode=memory&cache=shared"

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*authgate.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	logger := &captureLogger{}

	store := authgate.NewUsersRepository(db)
	encoder := authgate.NewPBKDF2Encoder(cfg)
	tokens := authgate.NewTokenService(cfg).WithLogger(logger)
	security := authgate.NewSecurityService(store, encoder, tokens).WithLogger(logger)
	manager := authgate.NewAuthenticationManager(store).WithLogger(logger)
	registrar := authgate.NewRegisterUserHandler(store, encoder).WithLogger(logger)

	controller := authgate.NewAuthController(security, registrar, store).WithLogger(logger)

	app := fiber.New()
	app.Use(bearerware.New(bearerware.Config{
		PublicRoutes:    cfg.GetPublicRoutes(),
		AuthScheme:      cfg.GetAuthScheme(),
		ContextKey:      cfg.GetContextKey(),
		Verifier:        tokens,
		Reauthenticator: manager,
		Logger:          logger,
	}))

	api := app.Group("/api/v1")
	authgate.RegisterAuthRoutes(api, controller)

	return &gatewayFixture{app: app, store: store}
}

func (f *gatewayFixture) register(t *testing.T, username, password string) map[string]any {
	t.Helper()

	resp, err := f.app.Test(jsonRequest(fiber.MethodPost, "/api/v1/auth/register", fiber.Map{
		"username":   username,
		"password":   password,
		"first_name": "Test",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	return decodeBody(t, resp)
}

func (f *gatewayFixture) login(t *testing.T, username, password string) *http.Response {
	t.Helper()

	resp, err := f.app.Test(jsonRequest(fiber.MethodPost, "/api/v1/auth/login", fiber.Map{
		"username": username,
		"password": password,
	}))
	require.NoError(t, err)
	return resp
}

func (f *gatewayFixture) info(t *testing.T, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/auth/info", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGatewayRegisterLoginInfoFlow(t *testing.T) {
	gw := newGatewayFixture(t)

	registered := gw.register(t, "alice", "pw1")
	assert.Equal(t, "alice", registered["username"])
	assert.Equal(t, "USER", registered["role"])
	assert.NotContains(t, registered, "password_hash")

	// protected route without a credential
	resp := gw.info(t, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// wrong password rejects with the generic body
	resp = gw.login(t, "alice", "wrong")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	resp = gw.login(t, "alice", "pw1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	loginBody := decodeBody(t, resp)

	token, _ := loginBody["token"].(string)
	require.NotEmpty(t, token)

	resp = gw.info(t, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	infoBody := decodeBody(t, resp)
	assert.Equal(t, "alice", infoBody["username"])
	assert.NotContains(t, infoBody, "password_hash")
}

// A token issued before the account was disabled stops working immediately,
// and a disabled account can no longer log in.
func TestGatewayDisabledAccountLosesAccess(t *testing.T) {
	gw := newGatewayFixture(t)

	gw.register(t, "alice", "pw1")

	resp := gw.login(t, "alice", "pw1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	resp = gw.info(t, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	io.Copy(io.Discard, resp.Body)

	user, err := gw.store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	user.Enabled = false
	_, err = gw.store.Save(context.Background(), user)
	require.NoError(t, err)

	// the still-valid token no longer admits the request
	resp = gw.info(t, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// and the disabled account cannot log in again
	resp = gw.login(t, "alice", "pw1")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeBody(t, resp)["code"])
}

func TestGatewayRejectsTamperedToken(t *testing.T) {
	gw := newGatewayFixture(t)

	gw.register(t, "alice", "pw1")

	resp := gw.login(t, "alice", "pw1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	resp = gw.info(t, tamperToken(token))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGatewayDuplicateRegistration(t *testing.T) {
	gw := newGatewayFixture(t)

	gw.register(t, "alice", "pw1")

	resp, err := gw.app.Test(jsonRequest(fiber.MethodPost, "/api/v1/auth/register", fiber.Map{
		"username": "alice",
		"password": "pw2",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, authgate.TextCodeUsernameTaken, body["code"])
}
