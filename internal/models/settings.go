package models

import (
	"time"

	"gorm.io/datatypes"
)

// Settings holds the free-form per-tenant configuration blob edited from the
// configuration screen (business info, notification toggles, accepted payment
// methods). The security PIN is not stored here; it lives hashed on User.
type Settings struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Data      datatypes.JSON `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}
