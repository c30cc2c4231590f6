package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/gin-gonic/gin"
)

var errBadID = fmt.Errorf("%w: id must be a positive integer", common.ErrorValidation)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListVisualizations handles GET /profile/me/saved-visualizations.
func (h *Handler) ListVisualizations(c *gin.Context) {
	list, err := h.vis.List(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toVisualizations(list))
}

// CreateVisualization handles POST /profile/me/saved-visualizations.
func (h *Handler) CreateVisualization(c *gin.Context) {
	var req visualizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.vis.Create(c.Request.Context(), currentUser(c), req.Name, models.Kind(req.Kind), req.Payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toVisualization(v))
}

// GetVisualization handles GET /profile/me/saved-visualizations/:id.
func (h *Handler) GetVisualization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeError(c, h.logger, errBadID)
		return
	}

	v, err := h.vis.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toVisualization(v))
}

// DeleteVisualization handles DELETE /profile/me/saved-visualizations/:id.
func (h *Handler) DeleteVisualization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeError(c, h.logger, errBadID)
		return
	}

	if err := h.vis.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
