package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// ContactStatusNew indicates a submission nobody has looked at yet
	ContactStatusNew = "new"
	// ContactStatusContacted indicates the submitter has been reached out to
	ContactStatusContacted = "contacted"
	// ContactStatusResolved indicates the inquiry is closed
	ContactStatusResolved = "resolved"
)

// ContactSubmission holds the fields a public visitor supplies through the
// contact form.
type ContactSubmission struct {
	Name          string `gorm:"type:text;not null" json:"name" binding:"required"`
	Email         string `gorm:"type:text;not null" json:"email" binding:"required"`
	Company       string `gorm:"type:text" json:"company"`
	Phone         string `gorm:"type:text" json:"phone"`
	Message       string `gorm:"type:text" json:"message"`
	PreferredDate string `gorm:"type:text" json:"preferredDate"`
	PreferredTime string `gorm:"type:text" json:"preferredTime"`
}

// Contact is the gorm model for a contact form submission. Status is the only
// field an admin can change after creation.
type Contact struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ContactSubmission
	Status    string    `gorm:"type:text;not null;default:new;index:idx_contacts_status_created,priority:1" json:"status"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;index:idx_contacts_status_created,priority:2,sort:desc" json:"createdAt"`
}
