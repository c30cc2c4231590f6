package services

import (
	"context"

	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
)

// auditor appends audit rows. Failures are logged and swallowed.
type auditor struct {
	tx     dbx.Transactor
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func (a auditor) record(ctx context.Context, userID int64, action string, detail string) {
	entry := &models.AuditLog{Action: action}
	if userID != 0 {
		entry.UserID = &userID
	}
	if detail != "" {
		entry.Detail = &detail
	}
	if _, err := a.repos.AuditLogs(a.tx.Conn()).Create(ctx, entry); err != nil {
		a.logger.Warn(ctx, "audit write failed", "action", action, "user_id", userID, "error", err)
	}
}
