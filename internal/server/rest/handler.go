// Package rest exposes the DS Studio API over HTTP using gin. All routes live
// under /api/v1; the session token travels in the access_token cookie.
package rest

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"
)

// UserService is the authentication surface the handlers need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
	TokenTTL() int
}

type ProfileService interface {
	Profile(ctx context.Context, user *models.User) ([]*models.SavedVisualization, error)
	UpdateProfile(ctx context.Context, user *models.User, upd services.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, current, next string) error
	ReplacePicture(ctx context.Context, user *models.User, pic services.Picture) (*models.User, error)
	DeleteAccount(ctx context.Context, user *models.User) error
}

type VisualizationService interface {
	List(ctx context.Context, owner *models.User) ([]*models.SavedVisualization, error)
	Create(ctx context.Context, owner *models.User, name string, kind models.Kind, raw json.RawMessage) (*models.SavedVisualization, error)
	Get(ctx context.Context, owner *models.User, id int64) (*models.SavedVisualization, error)
	Delete(ctx context.Context, owner *models.User, id int64) error
}

// Pinger checks database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures a Handler.
type Options struct {
	Users          UserService
	Profile        ProfileService
	Visualizations VisualizationService
	DB             Pinger
	Logger         logging.Logger

	// MediaURL prefixes stored picture paths in responses.
	MediaURL string
	// MediaRoot, when set, is served read-only under MediaURL.
	MediaRoot     string
	SecureCookies bool
}

// Handler holds the HTTP endpoints.
type Handler struct {
	users         UserService
	profile       ProfileService
	vis           VisualizationService
	db            Pinger
	logger        logging.Logger
	mediaURL      string
	mediaRoot     string
	secureCookies bool
}

func NewHandler(o Options) *Handler {
	return &Handler{
		users:         o.Users,
		profile:       o.Profile,
		vis:           o.Visualizations,
		db:            o.DB,
		logger:        o.Logger.With("module", "http"),
		mediaURL:      o.MediaURL,
		mediaRoot:     o.MediaRoot,
		secureCookies: o.SecureCookies,
	}
}
