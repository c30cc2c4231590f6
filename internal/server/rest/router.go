package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	jsonBodyLimit    = services.MaxPayloadSize + 64<<10
	pictureBodyLimit = services.MaxPictureSize + 1<<20
)

// Router builds the gin engine with every route mounted under /api/v1.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(h.logger), recovery(h.logger), noSniff())
	r.MaxMultipartMemory = pictureBodyLimit

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not Found")
	})
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	if h.mediaRoot != "" && h.mediaURL != "" {
		r.Static("/"+strings.Trim(h.mediaURL, "/"), h.mediaRoot)
	}

	api := r.Group("/api/" + common.APIVersion)
	{
		api.GET("/health", h.Health)
		api.GET("/health/db", h.HealthDB)

		authGroup := api.Group("/auth", bodyLimit(jsonBodyLimit))
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", authRequired(h.users, h.logger), h.Me)

		profile := api.Group("/profile", authRequired(h.users, h.logger))
		profile.GET("/me", h.GetProfile)
		profile.PUT("/me", bodyLimit(jsonBodyLimit), h.UpdateProfile)
		profile.DELETE("/me", h.DeleteAccount)
		profile.PUT("/password", bodyLimit(jsonBodyLimit), h.ChangePassword)
		profile.PUT("/profile-picture", bodyLimit(pictureBodyLimit), h.ReplacePicture)

		saved := profile.Group("/me/saved-visualizations")
		saved.GET("", h.ListVisualizations)
		saved.POST("", bodyLimit(jsonBodyLimit), h.CreateVisualization)
		saved.GET("/:id", h.GetVisualization)
		saved.DELETE("/:id", h.DeleteVisualization)
	}

	return r
}
