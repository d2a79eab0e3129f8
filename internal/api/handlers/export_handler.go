package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type ExportHandler struct {
	exports services.ExportService
}

func NewExportHandler(exports services.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// exportOptions reads ?template=, ?store= and ?signed=<duration>.
func exportOptions(c *gin.Context) (services.ExportOptions, bool) {
	opts := services.ExportOptions{Template: c.Query("template"), Store: queryBool(c, "store")}
	if v := c.Query("signed"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			writeError(c, utils.E(utils.CodeInvalidArgument, "ExportHandler", "signed must be a positive duration such as 15m", err))
			return opts, false
		}
		opts.SignedTTL = ttl
	}
	return opts, true
}

func (h *ExportHandler) HTML(c *gin.Context) {
	opts, ok := exportOptions(c)
	if !ok {
		return
	}
	art, err := h.exports.HTML(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	writeArtifact(c, art)
}

func (h *ExportHandler) PDF(c *gin.Context) {
	opts, ok := exportOptions(c)
	if !ok {
		return
	}
	art, err := h.exports.PDF(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	writeArtifact(c, art)
}

type latexResponse struct {
	LatexCode    string          `json:"latexCode"`
	TemplateType string          `json:"templateType"`
	Artifact     models.Artifact `json:"artifact"`
}

func (h *ExportHandler) Latex(c *gin.Context) {
	var req struct {
		TemplateType string `json:"templateType"`
	}
	// an empty body keeps the selected template
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "ExportHandler.Latex", "invalid json body", err))
			return
		}
	}
	opts, ok := exportOptions(c)
	if !ok {
		return
	}
	if req.TemplateType != "" {
		opts.Template = req.TemplateType
	}

	doc, art, err := h.exports.LaTeX(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, latexResponse{LatexCode: doc.LatexCode, TemplateType: doc.TemplateType, Artifact: art})
}

func (h *ExportHandler) Compile(c *gin.Context) {
	var req models.LatexCompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ExportHandler.Compile", "invalid json body", err))
		return
	}
	opts, ok := exportOptions(c)
	if !ok {
		return
	}
	art, err := h.exports.Compile(c.Request.Context(), req.LatexCode, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	writeArtifact(c, art)
}

func (h *ExportHandler) Templates(c *gin.Context) {
	t, err := h.exports.Templates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": t})
}

func (h *ExportHandler) Health(c *gin.Context) {
	st, err := h.exports.Health(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
