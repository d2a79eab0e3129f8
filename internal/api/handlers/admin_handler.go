package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
)

type AdminHandler struct {
	admin services.AdminService
}

func NewAdminHandler(admin services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type usersResponse struct {
	Users []models.User    `json:"users"`
	Stats models.UserStats `json:"stats"`
}

// Users lists users filtered by ?q=. Stats always cover the full list.
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.verifiedList(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersResponse{Users: services.Search(users, c.Query("q")), Stats: services.Stats(users)})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	users, err := h.verifiedList(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.Stats(users))
}

func (h *AdminHandler) Grant(c *gin.Context) {
	h.mutate(c, h.admin.Grant)
}

func (h *AdminHandler) Revoke(c *gin.Context) {
	h.mutate(c, h.admin.Revoke)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	h.mutate(c, h.admin.Delete)
}

func (h *AdminHandler) verifiedList(c *gin.Context) ([]models.User, error) {
	if _, err := h.admin.Verify(c.Request.Context()); err != nil {
		return nil, err
	}
	return h.admin.ListUsers(c.Request.Context())
}

func (h *AdminHandler) mutate(c *gin.Context, action func(ctx context.Context, id string) ([]models.User, error)) {
	if _, err := h.admin.Verify(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	users, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersResponse{Users: users, Stats: services.Stats(users)})
}
