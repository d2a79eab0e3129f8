package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

// RequireRole checks the stored role only; admin handlers still confirm it with
// the backend.
func RequireRole(allowed ...models.UserRole) gin.HandlerFunc {
	allow := map[models.UserRole]struct{}{}
	for _, a := range allowed {
		allow[models.ParseRole(string(a))] = struct{}{}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("role")
		role, _ := v.(string)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "please sign in first",
			})
			return
		}

		if _, ok := allow[models.ParseRole(role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "access denied: admin privileges required",
			})
			return
		}

		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }
