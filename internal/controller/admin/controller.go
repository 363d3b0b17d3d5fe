// Package admin provides the dashboard endpoints that do not belong to one
// content type: aggregate statistics and site settings.
package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brainiax-backend/internal/database"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// Controller handles dashboard statistics and settings endpoints
type Controller struct {
	DB *database.Service
}

// NewController creates a new instance of the admin Controller
func NewController(db *database.Service) *Controller {
	return &Controller{DB: db}
}

// Stats returns dashboard counters plus the five most recent applications
// and contact submissions.
// @Summary Dashboard statistics
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/stats [get]
func (ac *Controller) Stats(c *gin.Context) {
	var totalJobs, activeJobs, totalResumes, totalContacts, newContacts int64

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&totalJobs, ac.DB.Model(&model.Job{})},
		{&activeJobs, ac.DB.Model(&model.Job{}).
			Where("is_active = ? AND (validity_date IS NULL OR validity_date > ?)", true, time.Now())},
		{&totalResumes, ac.DB.Model(&model.Resume{})},
		{&totalContacts, ac.DB.Model(&model.Contact{})},
		{&newContacts, ac.DB.Model(&model.Contact{}).Where("status = ?", model.ContactStatusNew)},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			log.Printf("Failed to compute stats: %v", err)
			c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
			return
		}
	}

	recentResumes := []model.Resume{}
	if err := ac.DB.Order("created_at DESC").Limit(5).Find(&recentResumes).Error; err != nil {
		log.Printf("Failed to load recent resumes: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	recentContacts := []model.Contact{}
	if err := ac.DB.Order("created_at DESC").Limit(5).Find(&recentContacts).Error; err != nil {
		log.Printf("Failed to load recent contacts: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalJobs":      totalJobs,
		"activeJobs":     activeJobs,
		"totalResumes":   totalResumes,
		"totalContacts":  totalContacts,
		"newContacts":    newContacts,
		"recentResumes":  recentResumes,
		"recentContacts": recentContacts,
	})
}

// GetSetting returns a setting value by key. Unset keys fall back to a
// per-key default rather than 404 so clients never need to special-case a
// fresh database.
// @Summary Get site setting
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} map[string]interface{} "value"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/settings/{key} [get]
func (ac *Controller) GetSetting(c *gin.Context) {
	key := c.Param("key")

	var setting model.Setting
	if err := ac.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"value": defaultSettingValue(key)})
			return
		}
		log.Printf("Failed to load setting %q: %v", key, err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": setting.Value})
}

// PutSetting stores a setting value by key, creating or replacing it. The
// value is kept opaque.
// @Summary Update site setting
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param key path string true "Setting key"
// @Param setting body object true "New value under a \"value\" field"
// @Success 200 {object} map[string]interface{} "value"
// @Failure 400 {object} utilities.MessageResponse "Invalid data"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/settings/{key} [put]
func (ac *Controller) PutSetting(c *gin.Context) {
	var info struct {
		Value json.RawMessage `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid data"})
		return
	}

	setting := model.Setting{
		Key:       c.Param("key"),
		Value:     datatypes.JSON(info.Value),
		UpdatedAt: time.Now(),
	}
	if err := ac.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error; err != nil {
		log.Printf("Failed to store setting %q: %v", setting.Key, err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": setting.Value})
}

// defaultSettingValue is what an unset key reads as. The hiring banner flag
// defaults to off; everything else reads as null.
func defaultSettingValue(key string) interface{} {
	if key == model.SettingHiringBanner {
		return false
	}
	return nil
}
