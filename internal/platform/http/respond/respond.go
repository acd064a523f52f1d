// Package respond translates domain errors into HTTP responses.
// It is the only place where an error kind is mapped to a status code.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagely/internal/shared/apperr"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Status returns the HTTP status code for an error kind.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the status and stable message for err.
// Internal errors are logged and rendered without their cause.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		slog.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
		)
	}
	c.AbortWithStatusJSON(Status(kind), ErrorResponse{Error: apperr.PublicMessage(err)})
}

// BadRequest aborts with 400 for a request that failed binding or validation.
func BadRequest(c *gin.Context, err error) {
	slog.Warn("request validation failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestID"
