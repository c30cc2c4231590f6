package auditlogs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertQ = `(?s)^INSERT\s+INTO\s+audit_log\s*\(user_id,\s*action,\s*detail\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	uid := int64(4)
	now := time.Now()

	mock.ExpectQuery(insertQ).
		WithArgs(&uid, models.AuditLogin, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	got, err := repo.Create(context.Background(), &models.AuditLog{UserID: &uid, Action: models.AuditLogin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestCreate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	mock.ExpectQuery(insertQ).WillReturnError(errors.New("relation does not exist"))

	_, err = repo.Create(context.Background(), &models.AuditLog{Action: models.AuditRegister})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
