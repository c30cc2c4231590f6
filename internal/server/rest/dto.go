package rest

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/payload"
)

type registerRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileUpdateRequest struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type visualizationRequest struct {
	Name    string          `json:"name"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	Name              *string `json:"name"`
	Surname           *string `json:"surname"`
	ProfilePicture    *string `json:"profile_picture"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

type profileResponse struct {
	userResponse
	SavedVisualizations []visualizationResponse `json:"saved_visualizations"`
}

// visualizationResponse carries the stored payload untouched plus the
// normalized value sequence.
type visualizationResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      models.Kind     `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Values    json.RawMessage `json:"values"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func pictureURL(mediaURL string, picture *string) *string {
	if picture == nil || *picture == "" {
		return nil
	}
	u := strings.TrimRight(mediaURL, "/") + "/" + strings.TrimLeft(*picture, "/")
	return &u
}

func (h *Handler) toUser(u *models.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Surname:           u.Surname,
		ProfilePicture:    u.ProfilePicture,
		ProfilePictureURL: pictureURL(h.mediaURL, u.ProfilePicture),
	}
}

func toVisualization(v *models.SavedVisualization) visualizationResponse {
	return visualizationResponse{
		ID:        v.ID,
		Name:      v.Name,
		Kind:      v.Kind,
		Payload:   v.Payload,
		Values:    payload.Normalize(v.Payload),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toVisualizations(list []*models.SavedVisualization) []visualizationResponse {
	out := make([]visualizationResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVisualization(v))
	}
	return out
}

func (h *Handler) toProfile(u *models.User, list []*models.SavedVisualization) profileResponse {
	return profileResponse{userResponse: h.toUser(u), SavedVisualizations: toVisualizations(list)}
}
