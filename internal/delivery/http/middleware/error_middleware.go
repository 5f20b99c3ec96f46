package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

// ErrorHandler maps errors attached to the gin context onto the JSON
// envelope. Internal error details never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		var transitionErr *domain.IllegalTransitionError
		switch {
		case errors.As(err, &appErr):
			if appErr.Err != nil {
				logger.Log.Error("request failed", "path", c.FullPath(), "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
		case errors.As(err, &transitionErr):
			response.Error(c, http.StatusConflict, transitionErr.Error(), gin.H{
				"from": transitionErr.From,
				"to":   transitionErr.To,
			})
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Resource not found", nil)
		default:
			logger.Log.Error("unhandled error", "path", c.FullPath(), "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
