package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps is embedded by every persisted entity.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

// Base carries the UUID primary key and timestamps shared by the UUID-keyed entities.
// IDs are assigned on the client side so that copies (forks, fixtures) can reference
// rows before they are written.
type Base struct {
	ID uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Timestamps
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
