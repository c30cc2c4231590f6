package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

type visualizationRepo struct {
	s *store
}

func copyVisualization(v *models.SavedVisualization) *models.SavedVisualization {
	c := *v
	c.Payload = append([]byte(nil), v.Payload...)
	return &c
}

func (r *visualizationRepo) ListByUser(ctx context.Context, userID int64) ([]*models.SavedVisualization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []*models.SavedVisualization{}
	for _, v := range r.s.vis {
		if v.UserID == userID {
			result = append(result, copyVisualization(v))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *visualizationRepo) Create(ctx context.Context, v *models.SavedVisualization) (*models.SavedVisualization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[v.UserID]; !ok {
		return nil, common.ErrorNotFound
	}

	v.ID = r.s.id()
	r.s.vis[v.ID] = copyVisualization(v)
	return v, nil
}

func (r *visualizationRepo) GetForUser(ctx context.Context, userID, id int64) (*models.SavedVisualization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vis[id]
	if !ok || v.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return copyVisualization(v), nil
}

func (r *visualizationRepo) DeleteForUser(ctx context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vis[id]
	if !ok || v.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.vis, id)
	return nil
}

func (r *visualizationRepo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, v := range r.s.vis {
		if v.UserID == userID {
			delete(r.s.vis, id)
			n++
		}
	}
	return n, nil
}
