package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/auth"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/auditlogs"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/memory"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/users"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/visualizations"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeStorage keeps objects in a map.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	delErr  error
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Put(ctx context.Context, key string, data io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = b
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.objects))
	for k := range f.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (f *fakeStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// failingManager wraps a real manager and lets individual repositories fail.
type failingManager struct {
	*memory.Manager
	users          users.Repository
	visualizations visualizations.Repository
	audit          auditlogs.Repository
}

func (m *failingManager) Users(db dbx.DBTX) users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.Manager.Users(db)
}

func (m *failingManager) Visualizations(db dbx.DBTX) visualizations.Repository {
	if m.visualizations != nil {
		return m.visualizations
	}
	return m.Manager.Visualizations(db)
}

func (m *failingManager) AuditLogs(db dbx.DBTX) auditlogs.Repository {
	if m.audit != nil {
		return m.audit
	}
	return m.Manager.AuditLogs(db)
}

var _ repomanager.RepositoryManager = (*failingManager)(nil)

type brokenUsersRepo struct {
	users.Repository
	err error
}

func (r brokenUsersRepo) Create(context.Context, *models.User) (*models.User, error) { return nil, r.err }
func (r brokenUsersRepo) GetByID(context.Context, int64) (*models.User, error)       { return nil, r.err }
func (r brokenUsersRepo) GetByEmail(context.Context, string) (*models.User, error)   { return nil, r.err }
func (r brokenUsersRepo) Update(context.Context, *models.User) error                 { return r.err }
func (r brokenUsersRepo) Delete(context.Context, int64) error                        { return r.err }

type brokenVisualizationsRepo struct {
	visualizations.Repository
	err error
}

func (r brokenVisualizationsRepo) ListByUser(context.Context, int64) ([]*models.SavedVisualization, error) {
	return nil, r.err
}
func (r brokenVisualizationsRepo) Create(context.Context, *models.SavedVisualization) (*models.SavedVisualization, error) {
	return nil, r.err
}
func (r brokenVisualizationsRepo) GetForUser(context.Context, int64, int64) (*models.SavedVisualization, error) {
	return nil, r.err
}
func (r brokenVisualizationsRepo) DeleteForUser(context.Context, int64, int64) error { return r.err }
func (r brokenVisualizationsRepo) DeleteByUser(context.Context, int64) (int64, error) {
	return 0, r.err
}

type brokenAuditRepo struct{}

func (brokenAuditRepo) Create(context.Context, *models.AuditLog) (*models.AuditLog, error) {
	return nil, errors.New("audit table missing")
}

// countingHasher records how many comparisons ran.
type countingHasher struct {
	auth.PasswordHasher
	mu       sync.Mutex
	verifies int
}

func (h *countingHasher) Verify(password, digest string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.PasswordHasher.Verify(password, digest)
}

type fixture struct {
	mem     *memory.Manager
	storage *fakeStorage
	hasher  *countingHasher
	tokens  *auth.TokenService
	users   *UserService
	profile *ProfileService
	vis     *VisualizationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, memory.NewManager(), nil)
}

func newFixtureWith(t *testing.T, mem *memory.Manager, rm repomanager.RepositoryManager) *fixture {
	t.Helper()
	if rm == nil {
		rm = mem
	}
	st := newFakeStorage()
	h := &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	log := logging.Nop{}

	return &fixture{
		mem:     mem,
		storage: st,
		hasher:  h,
		tokens:  tokens,
		users:   NewUserService(mem, rm, tokens, h, log),
		profile: NewProfileService(mem, rm, h, st, "profile_pictures", log),
		vis:     NewVisualizationService(mem, rm, log),
	}
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Name: "Ada", Surname: "Lovelace", Email: email, Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func png(n int) []byte {
	return bytes.Repeat([]byte{0x89}, n)
}
