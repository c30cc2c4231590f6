package auditlogs

import (
	"context"

	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.AuditLog) (*models.AuditLog, error)
}
