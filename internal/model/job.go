package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditableJobInfo holds the fields an admin may set when creating or updating
// a job posting. Everything outside this struct is server-managed.
type EditableJobInfo struct {
	Title        string         `gorm:"type:text;not null" json:"title"`
	Department   string         `gorm:"type:text" json:"department"`
	Location     string         `gorm:"type:text" json:"location"`
	Type         string         `gorm:"type:text" json:"type"`
	Salary       string         `gorm:"type:text" json:"salary"`
	Description  string         `gorm:"type:text" json:"description"`
	Requirements pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Benefits     pq.StringArray `gorm:"type:text[]" json:"benefits"`
	IsActive     *bool          `gorm:"not null;default:true" json:"isActive"`
	ValidityDate *time.Time     `gorm:"type:timestamptz" json:"validityDate,omitempty"`
}

// Job is the gorm model for a job posting. ApplicationsCount is only ever
// incremented server-side when an application referencing the job is
// submitted.
type Job struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EditableJobInfo
	ApplicationsCount int       `gorm:"not null;default:0" json:"applicationsCount"`
	PostedDate        time.Time `gorm:"type:timestamptz;not null;index:,sort:desc" json:"postedDate"`
	UpdatedDate       time.Time `gorm:"type:timestamptz;not null" json:"updatedDate"`
}
