package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/auditlogs"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/users"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/visualizations"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Visualizations(db dbx.DBTX) visualizations.Repository
	AuditLogs(db dbx.DBTX) auditlogs.Repository
}
