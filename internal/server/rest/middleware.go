package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	userKey      = "dsstudio.user"
	requestIDKey = "dsstudio.request_id"

	requestIDHeader = "X-Request-ID"
)

// requestLogger logs one line per request and tags it with a request id.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if rnd, err := common.MakeRandHexString(8); err == nil {
				id = rnd
			}
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(ctx, "request", args...)
		case status >= http.StatusBadRequest:
			logger.Warn(ctx, "request", args...)
		default:
			logger.Info(ctx, "request", args...)
		}
	}
}

// recovery turns panics into the generic 500 body.
func recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error(requestContext(c), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		abortWithError(c, http.StatusInternalServerError, internalErrorMessage)
	})
}

// noSniff stops browsers from guessing a content type other than the one
// served, which matters for user-uploaded media.
func noSniff() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// bodyLimit caps request bodies at n bytes.
func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// authRequired resolves the session cookie to a user or aborts with 401.
func authRequired(users UserService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(common.AuthCookieName)

		u, err := users.Resolve(c.Request.Context(), token)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.Set(userKey, u)
		c.Next()
	}
}

// currentUser must only be called behind authRequired.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}
