// Package job provides HTTP handlers for job posting operations.
package job

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"brainiax-backend/internal/database"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// Controller handles job posting related endpoints
type Controller struct {
	DB *database.Service
}

// editableColumns maps the JSON keys a client may send on update to their
// database columns. Keys outside this map are ignored.
var editableColumns = map[string]string{
	"title":        "title",
	"department":   "department",
	"location":     "location",
	"type":         "type",
	"salary":       "salary",
	"description":  "description",
	"requirements": "requirements",
	"benefits":     "benefits",
	"isActive":     "is_active",
	"validityDate": "validity_date",
}

// suppliedColumns returns the database columns for the editable keys present
// in the request body.
func suppliedColumns(body []byte) []string {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	columns := make([]string, 0, len(raw))
	for key := range raw {
		if column, ok := editableColumns[key]; ok {
			columns = append(columns, column)
		}
	}
	return columns
}

// NewController creates a new instance of the job Controller
func NewController(db *database.Service) *Controller {
	return &Controller{DB: db}
}

// ListPublic returns active, non-expired job postings, newest first.
// @Summary List open job postings
// @Tags Jobs
// @Produce json
// @Success 200 {array} model.Job
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /jobs [get]
func (jc *Controller) ListPublic(c *gin.Context) {
	var jobs []model.Job
	err := jc.DB.
		Where("is_active = ?", true).
		Where("validity_date IS NULL OR validity_date > ?", time.Now()).
		Order("posted_date DESC").
		Find(&jobs).Error
	if err != nil {
		log.Printf("Failed to list jobs: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListAll returns every job posting regardless of state, for the admin
// dashboard.
// @Summary List all job postings
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/jobs [get]
func (jc *Controller) ListAll(c *gin.Context) {
	var jobs []model.Job
	if err := jc.DB.Order("posted_date DESC").Find(&jobs).Error; err != nil {
		log.Printf("Failed to list jobs: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetByID returns one job posting.
// @Summary Get job posting by ID
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 404 {object} utilities.MessageResponse "Job not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *Controller) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Job not found"})
		return
	}

	var job model.Job
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Job not found"})
			return
		}
		log.Printf("Failed to retrieve job: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// Create stores a new job posting. The applications counter always starts at
// zero and the active flag defaults to true.
// @Summary Create job posting
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body model.EditableJobInfo true "Job posting fields"
// @Success 201 {object} model.Job
// @Failure 400 {object} utilities.MessageResponse "Invalid data"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /jobs [post]
func (jc *Controller) Create(c *gin.Context) {
	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid data"})
		return
	}
	if info.Title == "" {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Title is required"})
		return
	}

	if info.IsActive == nil {
		active := true
		info.IsActive = &active
	}
	if info.Requirements == nil {
		info.Requirements = pq.StringArray{}
	}
	if info.Benefits == nil {
		info.Benefits = pq.StringArray{}
	}

	now := time.Now()
	job := model.Job{
		EditableJobInfo: info,
		PostedDate:      now,
		UpdatedDate:     now,
	}
	if err := jc.DB.Create(&job).Error; err != nil {
		log.Printf("Failed to create job: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// Update applies a partial update; fields absent from the body keep their
// value, and the updated instant is always refreshed server-side.
// @Summary Update job posting
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job ID"
// @Param job body model.EditableJobInfo true "Fields to change"
// @Success 200 {object} model.Job
// @Failure 400 {object} utilities.MessageResponse "Invalid data"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Job not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *Controller) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Job not found"})
		return
	}

	var job model.Job
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Job not found"})
			return
		}
		log.Printf("Failed to retrieve job: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid data"})
		return
	}
	var updated model.EditableJobInfo
	if err := json.Unmarshal(body, &updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid data"})
		return
	}

	// Every supplied field is written, including zero values; a struct update
	// alone would skip them. The column list comes from the raw JSON keys, so
	// omitted fields keep their stored value.
	columns := suppliedColumns(body)
	if len(columns) > 0 {
		if err := jc.DB.Model(&job).Select(columns).Updates(updated).Error; err != nil {
			log.Printf("Failed to update job: %v", err)
			c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
			return
		}
	}
	if err := jc.DB.Model(&job).UpdateColumn("updated_date", time.Now()).Error; err != nil {
		log.Printf("Failed to refresh update instant: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	// Reload so the response carries the stored state.
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		log.Printf("Failed to reload job: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Delete removes a job posting. Resumes that referenced it are left in place.
// @Summary Delete job posting
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job ID"
// @Success 200 {object} utilities.MessageResponse "Deleted"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Job not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *Controller) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Job not found"})
		return
	}

	var job model.Job
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Job not found"})
			return
		}
		log.Printf("Failed to retrieve job: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		log.Printf("Failed to delete job: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Deleted"})
}
