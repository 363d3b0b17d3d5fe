// Package resume provides HTTP handlers for job application uploads and
// their admin-side management.
package resume

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/mailer"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// MaxResumeSize is the largest accepted resume file in bytes.
const MaxResumeSize = 5 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Controller handles resume related endpoints
type Controller struct {
	DB     *database.Service
	Cfg    *config.Config
	Mailer *mailer.Mailer
}

// NewController creates a new instance of the resume Controller
func NewController(db *database.Service, cfg *config.Config, m *mailer.Mailer) *Controller {
	return &Controller{DB: db, Cfg: cfg, Mailer: m}
}

// Submit accepts a multipart job application: applicant fields plus a resume
// file. The file lands in the upload directory and the stored record points
// at it through a relative URL.
// @Summary Submit a job application
// @Tags Resumes
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Applicant name"
// @Param email formData string true "Applicant email"
// @Param phone formData string false "Applicant phone"
// @Param position formData string false "Position applied for"
// @Param jobId formData string false "Job listing ID"
// @Param resume formData file true "Resume file (.pdf, .doc, .docx, max 5MB)"
// @Success 201 {object} map[string]string "Application submitted"
// @Failure 400 {object} utilities.MessageResponse "Invalid input"
// @Failure 500 {object} utilities.MessageResponse "Upload failed"
// @Router /resumes [post]
func (rc *Controller) Submit(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	if name == "" || email == "" {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "name and email required"})
		return
	}

	file, err := c.FormFile("resume")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "File too large. Max size is 5MB."})
			return
		}
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Resume file is required"})
		return
	}
	if file.Size > MaxResumeSize {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "File too large. Max size is 5MB."})
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Only PDF/DOC/DOCX allowed"})
		return
	}

	var jobID *uuid.UUID
	if raw := c.PostForm("jobId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid jobId"})
			return
		}
		jobID = &parsed
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), utilities.SanitizeFilename(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(rc.Cfg.UploadDir, filename)); err != nil {
		log.Printf("Failed to store resume file: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Upload failed"})
		return
	}

	resume := model.Resume{
		Name:           name,
		Email:          email,
		Phone:          c.PostForm("phone"),
		Position:       c.PostForm("position"),
		JobID:          jobID,
		ResumeURL:      "/uploads/" + filename,
		ResumeFileName: file.Filename,
		ResumeSize:     file.Size,
		CreatedAt:      time.Now(),
	}
	if err := rc.DB.Create(&resume).Error; err != nil {
		log.Printf("Failed to save resume: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	// The counter bump and the job lookup for the email are best effort;
	// the application itself has already been accepted.
	var job *model.Job
	if jobID != nil {
		if err := rc.DB.Model(&model.Job{}).Where("id = ?", jobID).
			UpdateColumn("applications_count", gorm.Expr("applications_count + 1")).Error; err != nil {
			log.Printf("Failed to bump application count for job %s: %v", jobID, err)
		}
		var found model.Job
		if err := rc.DB.Where("id = ?", jobID).First(&found).Error; err == nil {
			job = &found
		}
	}

	go func() {
		if err := rc.Mailer.NotifyNewApplication(resume, job); err != nil {
			log.Printf("Email notification failed: %v", err)
		}
	}()

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Application submitted",
		"resumeUrl": resume.ResumeURL,
	})
}

// List returns a page of applications, newest first. A jobId filter takes
// precedence over a position filter when both are present.
// @Summary List job applications
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param page query int false "Page number, default 1"
// @Param limit query int false "Page size, default 20"
// @Param jobId query string false "Filter by job listing ID"
// @Param position query string false "Filter by position"
// @Success 200 {object} map[string]interface{} "total, page, limit, items"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/resumes [get]
func (rc *Controller) List(c *gin.Context) {
	page, limit, offset := utilities.Pagination(c)

	query := rc.DB.Model(&model.Resume{})
	if jobID := c.Query("jobId"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	} else if position := c.Query("position"); position != "" {
		query = query.Where("position = ?", position)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Failed to count resumes: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	items := []model.Resume{}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		log.Printf("Failed to list resumes: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"page":  page,
		"limit": limit,
		"items": items,
	})
}

// GetByID returns one application.
// @Summary Get job application by ID
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Resume ID"
// @Success 200 {object} model.Resume
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/resumes/{id} [get]
func (rc *Controller) GetByID(c *gin.Context) {
	resume, ok := rc.findByID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resume)
}

// Delete removes an application record. The stored file stays on disk.
// @Summary Delete job application
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Resume ID"
// @Success 200 {object} utilities.MessageResponse "Deleted"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/resumes/{id} [delete]
func (rc *Controller) Delete(c *gin.Context) {
	resume, ok := rc.findByID(c)
	if !ok {
		return
	}

	if err := rc.DB.Delete(&resume).Error; err != nil {
		log.Printf("Failed to delete resume: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Deleted"})
}

func (rc *Controller) findByID(c *gin.Context) (model.Resume, bool) {
	var resume model.Resume

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Not found"})
		return resume, false
	}

	if err := rc.DB.Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Not found"})
			return resume, false
		}
		log.Printf("Failed to retrieve resume: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return resume, false
	}
	return resume, true
}
