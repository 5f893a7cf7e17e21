package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "millstock/internal/core/context"
)

// HeaderOperator names the operator when authentication is disabled.
const HeaderOperator = "X-Operator"

// UserContext fills the operator from the X-Operator header when Auth did not
// run, so created_by / updated_by stay populated on unauthenticated deployments.
// A user set by Auth is never overridden.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if appctx.GetUser(c.Request.Context()) == nil {
			if operator := strings.TrimSpace(c.GetHeader(HeaderOperator)); operator != "" {
				ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: operator})
				c.Request = c.Request.WithContext(ctx)
				c.Set("user_id", operator)
			}
		}
		c.Next()
	}
}
