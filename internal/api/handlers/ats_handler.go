package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type ATSHandler struct {
	ats services.ATSService
}

func NewATSHandler(ats services.ATSService) *ATSHandler {
	return &ATSHandler{ats: ats}
}

func (h *ATSHandler) Check(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ATSHandler.Check", "missing multipart field 'file'", err))
		return
	}
	// reject on the declared size before touching the body
	if _, err := utils.ValidateUpload(fh.Filename, fh.Size, nil); err != nil {
		writeError(c, err)
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ATSHandler.Check", "failed to open upload", err))
		return
	}
	defer file.Close()

	res, err := h.ats.Check(c.Request.Context(), fh.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
