package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	apierrors "github.com/projectdesk/projectdesk/internal/errors"
)

// respondUnexpected logs an unclassified error and answers 500 without
// leaking its text.
func respondUnexpected(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method, "path", c.FullPath(), "error", err)
	apierrors.InternalError(c, "")
}
