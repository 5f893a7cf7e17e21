package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"millstock/internal/core/apperror"
	appctx "millstock/internal/core/context"
	"millstock/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			switch {
			case appErr.HTTPStatus >= http.StatusInternalServerError:
				logger.Error(c.Request.Context(), "request failed",
					"code", appErr.Code,
					"details", appErr.Details,
					"cause", appErr.Err,
				)
			case appErr.Err != nil:
				logger.Warn(c.Request.Context(), "request rejected",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, gin.H{"error": errorBody(appErr)})
			return
		}

		// Unknown error - log and return generic message
		logger.Error(c.Request.Context(), "unhandled error", "error", err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
			"details": map[string]any{
				"request_id": appctx.GetRequestID(c.Request.Context()),
			},
		}})
	}
}

func errorBody(appErr *apperror.AppError) gin.H {
	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return body
}
