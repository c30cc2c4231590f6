package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal Server Error"

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{common.ErrorValidation, http.StatusBadRequest},
	{common.ErrorConflict, http.StatusBadRequest},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrorNotFound, http.StatusNotFound},
}

// statusFor maps a service error to its HTTP status and client-facing
// message. Anything not wrapping a known sentinel is a 500 whose detail stays
// in the log.
func statusFor(err error) (int, string) {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status, clientMessage(err, s.err)
		}
	}
	return http.StatusInternalServerError, internalErrorMessage
}

// clientMessage strips the "<sentinel>: " prefix services put in front of the
// detail.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && detail != "" {
		return detail
	}
	return msg
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorBody{Error: msg, StatusCode: status})
}

// writeError is the single place service errors become HTTP responses.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(requestContext(c), "request failed", "path", c.FullPath(), "error", err)
	}
	abortWithError(c, status, msg)
}

func requestContext(c *gin.Context) context.Context {
	if c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
