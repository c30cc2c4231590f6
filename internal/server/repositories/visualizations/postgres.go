package visualizations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisualization(s scanner) (*models.SavedVisualization, error) {
	v := &models.SavedVisualization{}
	var payload []byte
	if err := s.Scan(&v.ID, &v.UserID, &v.Kind, &v.Name, &payload, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.Payload = payload
	return v, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.SavedVisualization, error) {
	query :=
		`SELECT id, user_id, kind, name, payload, created_at, updated_at FROM saved_visualizations
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.SavedVisualization{}
	for rows.Next() {
		v, err := scanVisualization(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.SavedVisualization) (*models.SavedVisualization, error) {
	query :=
		`INSERT INTO saved_visualizations (user_id, kind, name, payload, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		v.UserID, string(v.Kind), v.Name, []byte(v.Payload), v.CreatedAt, v.UpdatedAt).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, userID, id int64) (*models.SavedVisualization, error) {
	query :=
		`SELECT id, user_id, kind, name, payload, created_at, updated_at FROM saved_visualizations
		 WHERE id = $1 AND user_id = $2
		 `

	v, err := scanVisualization(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM saved_visualizations WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// DeleteByUser removes every visualization of a user and reports how many went.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM saved_visualizations WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
