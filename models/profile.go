package models

import (
	"gorm.io/datatypes"
)

// Profile is the public identity of an account. Handle is the global public identifier used in URLs.
type Profile struct {
	Base
	AccountID   string            `json:"-" db:"account_id" gorm:"type:varchar(128);not null;uniqueIndex:idx_profile_account"`
	Handle      string            `json:"handle" db:"handle" gorm:"type:varchar(40);not null;uniqueIndex:idx_profile_handle"`
	DisplayName string            `json:"display_name" db:"display_name" gorm:"type:varchar(120);not null"`
	Bio         string            `json:"bio" db:"bio" gorm:"type:text;not null;default:''"`
	AvatarURL   string            `json:"avatar_url" db:"avatar_url" gorm:"type:text;not null;default:''"`
	Links       datatypes.JSONMap `json:"links" db:"links" gorm:"type:jsonb;not null;default:'{}'"`
	IsCreator   bool              `json:"is_creator" db:"is_creator" gorm:"not null;default:false;index"`
}

func (Profile) TableName() string { return "profiles" }
