package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

// SameOrigin rejects browser requests sent from other sites. Every studio route
// acts with the stored bearer token.
func SameOrigin(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.OriginAllowed(c.Request, allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{Code: utils.CodeForbidden, Message: "origin not allowed"})
			return
		}
		c.Next()
	}
}
