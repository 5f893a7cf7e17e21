package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"millstock/internal/core/apperror"
	appctx "millstock/internal/core/context"
	"millstock/pkg/logger"
)

// JWTValidator turns a bearer token into the operator it was issued to.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth requires "Authorization: Bearer <token>" and stores the token's
// operator in the request context. Used only when a JWT secret is configured.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			abortUnauthorized(c, apperror.NewUnauthorized("missing authorization header"))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, apperror.NewUnauthorized("invalid authorization header format"))
			return
		}

		user, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err)
			abortUnauthorized(c, apperror.NewUnauthorized("invalid token").WithCause(err))
			return
		}

		c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		c.Set("user_id", user.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err *apperror.AppError) {
	_ = c.Error(err)
	c.Abort()
}
