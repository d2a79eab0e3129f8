package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login hands the browser to the backend's Google OAuth flow.
func (h *AuthHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.auth.LoginURL())
}

// Callback completes the OAuth redirect carrying token, name and email.
func (h *AuthHandler) Callback(c *gin.Context) {
	u, err := h.auth.CompleteLogin(c.Request.Context(), c.Query("token"), c.Query("name"), c.Query("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Session(c *gin.Context) {
	u, err := h.auth.Current(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
