package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/devjobs/internal/services"
)

// respondError answers the expected failures (validation, not found,
// forbidden) directly. Anything else is recorded on the context for
// ErrorHandler.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errores": verr.Messages})
	case errors.Is(err, services.ErrNotFound):
		NotFound(c)
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Error"})
	default:
		_ = c.Error(err)
	}
}

// NotFound is the generic "no such resource" response, also used for
// unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"mensaje": "No encontrado", "status": http.StatusNotFound})
}

// ErrorHandler renders unexpected errors as a generic 500 and logs them.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		logger.Error("request error",
			slog.String("path", c.FullPath()),
			slog.String("request_id", c.GetString("request_id")),
			slog.String("error", c.Errors.Last().Error()),
		)
		if c.Writer.Written() {
			return
		}
		status := http.StatusInternalServerError
		c.JSON(status, gin.H{"mensaje": "Hubo un error, intenta de nuevo", "status": status})
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
