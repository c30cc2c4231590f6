package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) respondProfile(c *gin.Context, u *models.User) {
	list, err := h.profile.Profile(c.Request.Context(), u)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.toProfile(u, list))
}

// GetProfile handles GET /profile/me.
func (h *Handler) GetProfile(c *gin.Context) {
	h.respondProfile(c, currentUser(c))
}

// UpdateProfile handles PUT /profile/me.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.profile.UpdateProfile(c.Request.Context(), currentUser(c), services.ProfileUpdate{
		Name: req.Name, Surname: req.Surname, Email: req.Email,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.respondProfile(c, u)
}

// ChangePassword handles PUT /profile/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "current_password and new_password are required")
		return
	}

	if err := h.profile.ChangePassword(c.Request.Context(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Password updated"})
}

// ReplacePicture handles PUT /profile/profile-picture with multipart field "file".
func (h *Handler) ReplacePicture(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortWithError(c, http.StatusBadRequest, "file is too large (max 5MB)")
			return
		}
		abortWithError(c, http.StatusBadRequest, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.logger, fmt.Errorf("error opening upload: %w", err))
		return
	}
	defer f.Close()

	// one byte past the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(f, services.MaxPictureSize+1))
	if err != nil {
		writeError(c, h.logger, fmt.Errorf("error reading upload: %w", err))
		return
	}

	u, err := h.profile.ReplacePicture(c.Request.Context(), currentUser(c), services.Picture{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.respondProfile(c, u)
}

// DeleteAccount handles DELETE /profile/me.
func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.profile.DeleteAccount(c.Request.Context(), currentUser(c)); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.clearAuthCookie(c)
	c.Status(http.StatusNoContent)
}
