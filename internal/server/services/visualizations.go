package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/payload"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
)

// MaxPayloadSize bounds the JSON payload of a visualization.
const MaxPayloadSize = 256 << 10

// VisualizationService is ownership-scoped CRUD over saved visualizations.
type VisualizationService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewVisualizationService(tx dbx.Transactor, m repomanager.RepositoryManager, logger logging.Logger) *VisualizationService {
	return &VisualizationService{
		tx:          tx,
		repomanager: m,
		logger:      logger.With("module", "visualizations"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *VisualizationService) List(ctx context.Context, owner *models.User) ([]*models.SavedVisualization, error) {
	list, err := s.repomanager.Visualizations(s.tx.Conn()).ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing visualizations: %w", err)
	}
	return list, nil
}

// Create validates and stores a new visualization owned by owner.
func (s *VisualizationService) Create(ctx context.Context, owner *models.User, name string, kind models.Kind, raw json.RawMessage) (*models.SavedVisualization, error) {
	if err := validateName("name", name, true); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unsupported kind %q", common.ErrorValidation, kind)
	}
	if err := validatePayload(kind, raw); err != nil {
		return nil, err
	}

	now := s.now()
	v := &models.SavedVisualization{
		UserID:    owner.ID,
		Kind:      kind,
		Name:      name,
		Payload:   raw,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repomanager.Visualizations(s.tx.Conn()).Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("error creating visualization: %w", err)
	}

	s.logger.Debug(ctx, "visualization created", "user_id", owner.ID, "id", created.ID, "kind", kind)
	return created, nil
}

// Get returns common.ErrorNotFound for ids that are missing or owned by
// someone else.
func (s *VisualizationService) Get(ctx context.Context, owner *models.User, id int64) (*models.SavedVisualization, error) {
	v, err := s.repomanager.Visualizations(s.tx.Conn()).GetForUser(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: saved visualization not found", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error loading visualization: %w", err)
	}
	return v, nil
}

func (s *VisualizationService) Delete(ctx context.Context, owner *models.User, id int64) error {
	err := s.repomanager.Visualizations(s.tx.Conn()).DeleteForUser(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: saved visualization not found", common.ErrorNotFound)
		}
		return fmt.Errorf("error deleting visualization: %w", err)
	}
	return nil
}

func validatePayload(kind models.Kind, raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", common.ErrorValidation)
	}
	if len(raw) > MaxPayloadSize {
		return fmt.Errorf("%w: payload exceeds %d bytes", common.ErrorValidation, MaxPayloadSize)
	}

	v, err := payload.Decode(raw)
	if err != nil {
		return fmt.Errorf("%w: payload is not valid JSON", common.ErrorValidation)
	}
	// jsonb cannot store U+0000
	if containsNUL(v) {
		return fmt.Errorf("%w: payload must not contain \\u0000", common.ErrorValidation)
	}

	if !kind.Sequential() {
		switch v.(type) {
		case map[string]any, []any:
			return nil
		default:
			return fmt.Errorf("%w: %s payload must be a JSON object or array", common.ErrorValidation, kind)
		}
	}

	values, shape, ok := payload.Extract(v)
	if !ok || (shape == payload.TreeWrapper && !kind.Tree()) {
		return fmt.Errorf("%w: %s payload must be a list of numbers", common.ErrorValidation, kind)
	}
	for _, x := range values {
		if _, isNum := x.(json.Number); !isNum {
			return fmt.Errorf("%w: %s payload must contain only numbers", common.ErrorValidation, kind)
		}
	}
	return nil
}

func containsNUL(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.ContainsRune(t, 0)
	case []any:
		for _, x := range t {
			if containsNUL(x) {
				return true
			}
		}
	case map[string]any:
		for k, x := range t {
			if strings.ContainsRune(k, 0) || containsNUL(x) {
				return true
			}
		}
	}
	return false
}
