package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// SessionAuth loads the stored session and, when signed in, sets user_id (the
// email), user_name and role on the context. Anonymous requests pass through.
func SessionAuth(auth services.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.Current(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("failed to read session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "failed to read session",
			})
			return
		}
		if u.Authenticated {
			c.Set("user_id", u.Email)
			c.Set("user_name", u.Name)
			c.Set("role", string(u.Role))
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a signed-in session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, _ := c.Get("user_id"); v == nil || v == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "please sign in first",
			})
			return
		}
		c.Next()
	}
}
