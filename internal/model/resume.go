package model

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the gorm model for a job application. JobID is a weak reference:
// deleting a job leaves its resumes in place, so no foreign key constraint is
// declared. Records are immutable after creation except for deletion.
type Resume struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name           string     `gorm:"type:text;not null" json:"name"`
	Email          string     `gorm:"type:text;not null" json:"email"`
	Phone          string     `gorm:"type:text" json:"phone"`
	Position       string     `gorm:"type:text" json:"position"`
	JobID          *uuid.UUID `gorm:"type:uuid;index" json:"jobId,omitempty"`
	ResumeURL      string     `gorm:"type:text;not null" json:"resumeUrl"`
	ResumeFileName string     `gorm:"type:text" json:"resumeFileName"`
	ResumeSize     int64      `json:"resumeSize"`
	CreatedAt      time.Time  `gorm:"type:timestamptz;not null;index:,sort:desc" json:"createdAt"`
}
