package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is the gorm model for a dashboard account. The password hash is
// never serialized.
type AdminUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username     string    `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null;autoCreateTime" json:"createdAt"`
}
