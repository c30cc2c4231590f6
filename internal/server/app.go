// Package server wires configuration, the database, picture storage and the
// services into the HTTP API and the gRPC health endpoint, and runs them until
// a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/auth"
	"github.com/dmitrijs2005/dsstudio/internal/server/config"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsstudio/internal/server/rest"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"
	"github.com/dmitrijs2005/dsstudio/internal/server/storage"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/dsstudio/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *rest.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(os.Stdout, c.Env)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if c.RunMigrations {
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	st, err := storage.NewStorage(ctx, storageConfig(c))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tx := dbx.NewSQLTransactor(db)
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewTokenService(c.SecretKey, c.AccessTokenValidityDuration)

	opts := rest.Options{
		Users:          services.NewUserService(tx, rm, tokens, hasher, logger),
		Profile:        services.NewProfileService(tx, rm, hasher, st, c.ProfilePictureDir, logger),
		Visualizations: services.NewVisualizationService(tx, rm, logger),
		DB:             db,
		Logger:         logger,
		MediaURL:       c.MediaURL,
		SecureCookies:  c.SecureCookies(),
	}
	// pictures in a bucket are served by the bucket itself
	if c.StorageType == config.StorageTypeLocal {
		opts.MediaRoot = c.MediaRoot
	}

	if c.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &App{config: c, logger: logger, db: db, handler: rest.NewHandler(opts)}, nil
}

func storageConfig(c *config.Config) storage.Config {
	if c.StorageType == config.StorageTypeS3 {
		return storage.Config{
			Type:           storage.TypeS3,
			S3Bucket:       c.S3Bucket,
			S3Region:       c.S3Region,
			S3AccessKey:    c.S3RootUser,
			S3SecretKey:    c.S3RootPassword,
			S3BaseEndpoint: c.S3BaseEndpoint,
		}
	}
	return storage.Config{Type: storage.TypeLocal, LocalPath: c.MediaRoot}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.handler.Router(),
		app.config.ReadTimeout, app.config.WriteTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
