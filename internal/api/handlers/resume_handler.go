package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

type ResumeHandler struct {
	resumes services.ResumeService
}

func NewResumeHandler(resumes services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

func (h *ResumeHandler) Generate(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Generate", "invalid json body", err))
		return
	}

	r, err := h.resumes.Generate(c.Request.Context(), req.UserResumeDescription, req.TemplateType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	r, err := h.resumes.Load(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Put saves immediately. Any resume-shaped body is accepted, including the
// wrapped and legacy forms older clients stored.
func (h *ResumeHandler) Put(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Put", "could not read body", err))
		return
	}
	r, err := h.resumes.Import(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Draft schedules a debounced autosave and answers before it runs.
func (h *ResumeHandler) Draft(c *gin.Context) {
	var r models.Resume
	if err := c.ShouldBindJSON(&r); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Draft", "invalid json body", err))
		return
	}
	seq := h.resumes.ScheduleSave(c.Request.Context(), r)
	c.JSON(http.StatusAccepted, gin.H{"seq": seq})
}
