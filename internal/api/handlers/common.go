package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "please sign in first", nil))
	return "", false
}

// writeArtifact sends the file inline, or its metadata when it was stored.
func writeArtifact(c *gin.Context, art models.Artifact) {
	if art.Location != "" {
		c.JSON(http.StatusOK, art)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+art.FileName+`"`)
	c.Data(http.StatusOK, art.ContentType, art.Data)
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}
