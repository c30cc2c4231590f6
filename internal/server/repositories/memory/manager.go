// Package memory keeps every repository in process memory. The service and
// HTTP tests run against it.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/auditlogs"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/users"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/visualizations"
)

type store struct {
	mu sync.Mutex

	now func() time.Time

	users  map[int64]*models.User
	vis    map[int64]*models.SavedVisualization
	audit  []*models.AuditLog
	nextID int64
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

type snapshot struct {
	users  map[int64]*models.User
	vis    map[int64]*models.SavedVisualization
	audit  []*models.AuditLog
	nextID int64
}

func (s *store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		users:  make(map[int64]*models.User, len(s.users)),
		vis:    make(map[int64]*models.SavedVisualization, len(s.vis)),
		audit:  append([]*models.AuditLog(nil), s.audit...),
		nextID: s.nextID,
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.vis {
		snap.vis[k] = v
	}
	return snap
}

func (s *store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.vis, s.audit, s.nextID = snap.users, snap.vis, snap.audit, snap.nextID
}

// Manager implements repomanager.RepositoryManager and dbx.Transactor.
// The DBTX handed to the factories is ignored.
type Manager struct {
	s *store
}

func NewManager() *Manager {
	return &Manager{s: &store{
		now:   time.Now,
		users: map[int64]*models.User{},
		vis:   map[int64]*models.SavedVisualization{},
	}}
}

// SetClock replaces the clock used for generated timestamps.
func (m *Manager) SetClock(now func() time.Time) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.now = now
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository {
	return &userRepo{s: m.s}
}

func (m *Manager) Visualizations(dbx.DBTX) visualizations.Repository {
	return &visualizationRepo{s: m.s}
}

func (m *Manager) AuditLogs(dbx.DBTX) auditlogs.Repository {
	return &auditRepo{s: m.s}
}

// AuditEntries returns a copy of everything written to the audit log.
func (m *Manager) AuditEntries() []models.AuditLog {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]models.AuditLog, 0, len(m.s.audit))
	for _, a := range m.s.audit {
		out = append(out, *a)
	}
	return out
}

// Conn returns nil; the repositories never touch it.
func (m *Manager) Conn() dbx.DBTX { return nil }

// WithinTx restores the state from before fn when fn fails. Concurrent writers
// are not isolated from each other.
func (m *Manager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	snap := m.s.snapshot()
	if err := fn(ctx, nil); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}
