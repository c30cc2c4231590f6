package memory

import (
	"context"

	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

type auditRepo struct {
	s *store
}

func (r *auditRepo) Create(ctx context.Context, entry *models.AuditLog) (*models.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = r.s.id()
	entry.CreatedAt = r.s.now()
	c := *entry
	r.s.audit = append(r.s.audit, &c)
	return entry, nil
}
