// Command authgate runs the authentication gateway: a fiber server exposing
// register/login/info plus the bearer token pipeline in front of every
// protected route.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/dvelichkov/authgate"
	"github.com/dvelichkov/authgate/middleware/bearerware"
)

func main() {
	cfg := authgate.NewConfigFromEnv()

	if err := run(cfg); err != nil {
		log.Fatalf("authgate: %v", err)
	}
}

func run(cfg *authgate.SimpleConfig) error {
	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	store := authgate.NewUsersRepository(db)
	encoder := authgate.NewPBKDF2Encoder(cfg)
	tokens := authgate.NewTokenService(cfg)
	service := authgate.NewSecurityService(store, encoder, tokens)
	manager := authgate.NewAuthenticationManager(store)
	registrar := authgate.NewRegisterUserHandler(store, encoder)

	app := fiber.New(fiber.Config{
		AppName:               "authgate",
		DisableStartupMessage: false,
	})

	app.Use(bearerware.New(bearerware.Config{
		PublicRoutes:    cfg.GetPublicRoutes(),
		AuthScheme:      cfg.GetAuthScheme(),
		ContextKey:      cfg.GetContextKey(),
		Verifier:        tokens,
		Reauthenticator: manager,
	}))

	api := app.Group("/api/v1")
	authgate.RegisterAuthRoutes(api, authgate.NewAuthController(service, registrar, store))

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.ListenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("authgate: received %s, shutting down", sig)
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.NewCreateTable().
		Model((*authgate.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
