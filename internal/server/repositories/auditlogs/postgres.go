package auditlogs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.AuditLog) (*models.AuditLog, error) {
	query :=
		`INSERT INTO audit_log (user_id, action, detail)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.Action, entry.Detail).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}
