package visualizations

import (
	"context"

	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

// Repository is ownership-scoped: every read and delete filters by user id,
// so a foreign id is indistinguishable from a missing one.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.SavedVisualization, error)
	Create(ctx context.Context, v *models.SavedVisualization) (*models.SavedVisualization, error)
	GetForUser(ctx context.Context, userID, id int64) (*models.SavedVisualization, error)
	DeleteForUser(ctx context.Context, userID, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
