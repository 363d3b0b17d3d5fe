// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"brainiax-backend/internal/auth"
	"brainiax-backend/internal/controller/admin"
	"brainiax-backend/internal/controller/contact"
	"brainiax-backend/internal/controller/job"
	"brainiax-backend/internal/controller/live"
	"brainiax-backend/internal/controller/resume"
	"brainiax-backend/internal/middleware"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
	}
	corsConfig.AllowOrigins = s.Cfg.AllowOrigins
	for _, origin := range s.Cfg.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowAllOrigins = true
			corsConfig.AllowCredentials = false
			break
		}
	}
	r.Use(cors.New(corsConfig))

	localAuth := auth.NewController(s.DB, s.Cfg)
	jobCtl := job.NewController(s.DB)
	contactCtl := contact.NewController(s.DB, s.Mailer)
	resumeCtl := resume.NewController(s.DB, s.Cfg, s.Mailer)
	adminCtl := admin.NewController(s.DB)
	liveCtl := live.NewController(s.Feed)

	r.GET("/", s.rootHandler)
	r.GET("/health", s.healthHandler)
	r.Static("/uploads", s.Cfg.UploadDir)

	api := r.Group("/api")
	{
		jobRoute := api.Group("/jobs")
		{
			jobRoute.GET("", jobCtl.ListPublic)
			jobRoute.GET(":id", jobCtl.GetByID)

			jobRoute.Use(middleware.RequireAdmin(s.Cfg))
			jobRoute.POST("", jobCtl.Create)
			jobRoute.PUT(":id", jobCtl.Update)
			jobRoute.DELETE(":id", jobCtl.Delete)
		}

		publicLimit := middleware.RateLimiter(s.Cfg.RateLimitPerSec)
		api.POST("/contacts", publicLimit, contactCtl.Submit)
		api.POST("/resumes", publicLimit, middleware.SizeLimit(resume.MaxResumeSize), resumeCtl.Submit)

		adminRoute := api.Group("/admin")
		{
			adminRoute.POST("login", localAuth.LoginHandler)
			adminRoute.POST("register", localAuth.RegisterHandler)
			adminRoute.GET("settings/:key", middleware.SettingsAuth(s.Cfg), adminCtl.GetSetting)

			adminRoute.Use(middleware.RequireAdmin(s.Cfg))
			adminRoute.GET("jobs", jobCtl.ListAll)
			adminRoute.GET("contacts", contactCtl.List)
			adminRoute.GET("contacts/:id", contactCtl.GetByID)
			adminRoute.PUT("contacts/:id", contactCtl.UpdateStatus)
			adminRoute.DELETE("contacts/:id", contactCtl.Delete)
			adminRoute.GET("resumes", resumeCtl.List)
			adminRoute.GET("resumes/:id", resumeCtl.GetByID)
			adminRoute.DELETE("resumes/:id", resumeCtl.Delete)
			adminRoute.GET("stats", adminCtl.Stats)
			adminRoute.PUT("settings/:key", adminCtl.PutSetting)
			adminRoute.GET("events", liveCtl.Stream)
		}
	}

	return r
}

func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Brainiax backend is running"})
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().Format(time.RFC3339),
		"environment": s.Cfg.Env,
		"version":     "1.0.0",
		"database":    s.DB.Health(),
	})
}
