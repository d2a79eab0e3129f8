package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/api/handlers"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/api/middleware"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/telemetry"
)

type Deps struct {
	Auth   *handlers.AuthHandler
	Resume *handlers.ResumeHandler
	ATS    *handlers.ATSHandler
	Export *handlers.ExportHandler
	Admin  *handlers.AdminHandler
	WS     *handlers.WSHandler

	// AuthService backs the session middleware.
	AuthService services.AuthService
	// AllowedOrigins are browser origins accepted besides the studio's own.
	AllowedOrigins []string
	Logger      *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.SameOrigin(d.AllowedOrigins))

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(telemetry.Handler()))

	r.GET("/login", d.Auth.Login)

	s := r.Group("/")
	s.Use(middleware.SessionAuth(d.AuthService, d.Logger))

	s.GET("/auth/callback", d.Auth.Callback)
	s.POST("/auth/logout", d.Auth.Logout)
	s.GET("/api/session", d.Auth.Session)

	s.GET("/api/export/latex/templates", d.Export.Templates)
	s.GET("/api/export/latex/health", d.Export.Health)

	// Signed-in routes
	auth := s.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.POST("/api/resume/generate", d.Resume.Generate)
	auth.GET("/api/resume", d.Resume.Get)
	auth.PUT("/api/resume", d.Resume.Put)
	auth.PATCH("/api/resume/draft", d.Resume.Draft)

	auth.POST("/api/ats", d.ATS.Check)

	auth.GET("/api/export/html", d.Export.HTML)
	auth.GET("/api/export/pdf", d.Export.PDF)
	auth.POST("/api/export/latex", d.Export.Latex)
	auth.POST("/api/export/latex/compile", d.Export.Compile)

	// Admin
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/api/admin/users", d.Admin.Users)
	admin.GET("/api/admin/stats", d.Admin.Stats)
	admin.PUT("/api/admin/users/:id/grant", d.Admin.Grant)
	admin.PUT("/api/admin/users/:id/revoke", d.Admin.Revoke)
	admin.DELETE("/api/admin/users/:id", d.Admin.Delete)

	// WebSocket
	admin.GET("/ws/admin", d.WS.AdminStream)
}
