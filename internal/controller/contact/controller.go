// Package contact provides HTTP handlers for contact form submissions and
// their admin-side management.
package contact

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"brainiax-backend/internal/database"
	"brainiax-backend/internal/mailer"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// Controller handles contact related endpoints
type Controller struct {
	DB     *database.Service
	Mailer *mailer.Mailer
}

// NewController creates a new instance of the contact Controller
func NewController(db *database.Service, m *mailer.Mailer) *Controller {
	return &Controller{DB: db, Mailer: m}
}

// Submit stores a public contact form submission and fires the owner
// notification without waiting for it.
// @Summary Submit contact form
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body model.ContactSubmission true "Contact details"
// @Success 201 {object} utilities.MessageResponse "Submitted"
// @Failure 400 {object} utilities.MessageResponse "Invalid data"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /contacts [post]
func (cc *Controller) Submit(c *gin.Context) {
	var submission model.ContactSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid data"})
		return
	}

	contact := model.Contact{
		ContactSubmission: submission,
		Status:            model.ContactStatusNew,
		CreatedAt:         time.Now(),
	}
	if err := cc.DB.Create(&contact).Error; err != nil {
		log.Printf("Failed to save contact: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	go func() {
		if err := cc.Mailer.NotifyNewContact(contact); err != nil {
			log.Printf("Email notification failed: %v", err)
		}
	}()

	c.JSON(http.StatusCreated, utilities.MessageResponse{Message: "Submitted"})
}

// List returns a page of contact submissions, newest first, optionally
// filtered by status.
// @Summary List contact submissions
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param page query int false "Page number, default 1"
// @Param limit query int false "Page size, default 20"
// @Param status query string false "Filter by status: new, contacted, or resolved"
// @Success 200 {object} map[string]interface{} "total, page, limit, items"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/contacts [get]
func (cc *Controller) List(c *gin.Context) {
	page, limit, offset := utilities.Pagination(c)

	query := cc.DB.Model(&model.Contact{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Failed to count contacts: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	items := []model.Contact{}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		log.Printf("Failed to list contacts: %v", err)
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

// GetByID returns one contact submission.
// @Summary Get contact submission by ID
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Contact ID"
// @Success 200 {object} model.Contact
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/contacts/{id} [get]
func (cc *Controller) GetByID(c *gin.Context) {
	contact, ok := cc.findByID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, contact)
}

// UpdateStatus changes a contact's status; no other field is mutable.
// @Summary Update contact status
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Contact ID"
// @Param status body object true "New status: new, contacted, or resolved"
// @Success 200 {object} model.Contact
// @Failure 400 {object} utilities.MessageResponse "Invalid status"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/contacts/{id} [put]
func (cc *Controller) UpdateStatus(c *gin.Context) {
	var info struct {
		Status string `json:"status" binding:"required,oneof=new contacted resolved"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{Message: "Invalid status"})
		return
	}

	contact, ok := cc.findByID(c)
	if !ok {
		return
	}

	if err := cc.DB.Model(&contact).UpdateColumn("status", info.Status).Error; err != nil {
		log.Printf("Failed to update contact status: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}
	contact.Status = info.Status

	c.JSON(http.StatusOK, contact)
}

// Delete removes a contact submission.
// @Summary Delete contact submission
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Contact ID"
// @Success 200 {object} utilities.MessageResponse "Deleted"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Failure 404 {object} utilities.MessageResponse "Not found"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/contacts/{id} [delete]
func (cc *Controller) Delete(c *gin.Context) {
	contact, ok := cc.findByID(c)
	if !ok {
		return
	}

	if err := cc.DB.Delete(&contact).Error; err != nil {
		log.Printf("Failed to delete contact: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Deleted"})
}

// findByID loads the contact in the path parameter, writing the error
// response itself when the lookup fails.
func (cc *Controller) findByID(c *gin.Context) (model.Contact, bool) {
	var contact model.Contact

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Not found"})
		return contact, false
	}

	if err := cc.DB.Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.MessageResponse{Message: "Not found"})
			return contact, false
		}
		log.Printf("Failed to retrieve contact: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return contact, false
	}
	return contact, true
}
