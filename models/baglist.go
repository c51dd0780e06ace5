package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can read a BagList.
type Visibility string

const (
	VisibilityPrivate    Visibility = "private"    // owner only
	VisibilityUnlisted   Visibility = "unlisted"   // anyone holding the share token
	VisibilityRegistered Visibility = "registered" // any signed-in account
	VisibilityPublic     Visibility = "public"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityUnlisted, VisibilityRegistered, VisibilityPublic:
		return true
	}
	return false
}

// BagList is the central aggregate: an owned, visibility-scoped collection of items.
type BagList struct {
	Base
	OwnerID       uuid.UUID  `json:"owner_id" db:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_baglist_owner_slug"`
	Title         string     `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Description   string     `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	Slug          string     `json:"slug" db:"slug" gorm:"type:varchar(100);not null;uniqueIndex:idx_baglist_owner_slug"`
	Visibility    Visibility `json:"visibility" db:"visibility" gorm:"type:varchar(12);not null;default:'private';index"`
	CoverImageURL string     `json:"cover_image_url" db:"cover_image_url" gorm:"type:text;not null;default:''"`
	AllowForks    bool       `json:"allow_forks" db:"allow_forks" gorm:"not null;default:true"`
	ShareToken    *string    `json:"-" db:"share_token" gorm:"type:varchar(64);uniqueIndex:idx_baglist_share_token"`
	PublishedAt   *time.Time `json:"published_at,omitempty" db:"published_at" gorm:"index"`
	IsDeleted     bool       `json:"is_deleted" db:"is_deleted" gorm:"not null;default:false"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	ForkedFromID  *uuid.UUID `json:"forked_from_id,omitempty" db:"forked_from_id" gorm:"type:uuid"`

	Owner       Profile             `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	Sections    []BagListSection    `json:"-" gorm:"foreignKey:BagListID;references:ID;constraint:OnDelete:CASCADE"`
	Items       []BagListItem       `json:"-" gorm:"foreignKey:BagListID;references:ID;constraint:OnDelete:CASCADE"`
	FacetValues []BagListFacetValue `json:"-" gorm:"foreignKey:BagListID;references:ID;constraint:OnDelete:CASCADE"`
}

func (BagList) TableName() string { return "baglists" }

// IsOwnedBy reports whether profileID owns the list.
func (b BagList) IsOwnedBy(profileID uuid.UUID) bool {
	return profileID != uuid.Nil && b.OwnerID == profileID
}
