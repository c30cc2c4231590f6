package rest

import (
	"net/http"

	"github.com/dmitrijs2005/dsstudio/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Name: req.Name, Surname: req.Surname, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, h.toUser(u))
}

// Login handles POST /auth/login and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	_, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, messageResponse{Message: "logged in"})
}

// Logout handles POST /auth/logout. It needs no session.
func (h *Handler) Logout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.toUser(currentUser(c)))
}
