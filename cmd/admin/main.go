package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/dsstudio/internal/admin"
	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/auth"
	"github.com/dmitrijs2005/dsstudio/internal/server/config"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.Env)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(dbx.NewSQLTransactor(db), rm,
		auth.NewTokenService(cfg.SecretKey, cfg.AccessTokenValidityDuration),
		auth.NewBcryptHasher(0), logger)

	a := admin.New(func(ctx context.Context) error {
		return rm.RunMigrations(ctx, db)
	}, users, os.Stdin, os.Stdout)

	if err := a.Run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, admin.ErrUsage) {
			log.Printf("%v", err)
		}
		db.Close()
		os.Exit(1)
	}

}
