package model

import (
	"time"

	"gorm.io/datatypes"
)

// SettingHiringBanner is the only setting key readable without credentials;
// the public site uses it to toggle the hiring banner.
const SettingHiringBanner = "hiringBannerEnabled"

// Setting is a generic key/value record. Values are opaque JSON so booleans,
// strings and objects all round-trip unchanged.
type Setting struct {
	Key       string         `gorm:"type:text;primaryKey" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;not null" json:"updatedAt"`
}
