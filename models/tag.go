package models

import "github.com/google/uuid"

// Tag is a user-owned label that can be applied to that user's BagLists.
type Tag struct {
	Base
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_tag_owner_slug"`
	Name    string    `json:"name" db:"name" gorm:"type:varchar(60);not null"`
	Slug    string    `json:"slug" db:"slug" gorm:"type:varchar(80);not null;uniqueIndex:idx_tag_owner_slug"`

	Owner Profile `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Tag) TableName() string { return "tags" }

// BagListTag joins a BagList to a Tag. The pair is the primary key.
type BagListTag struct {
	BagListID uuid.UUID `json:"baglist_id" db:"baglist_id" gorm:"column:baglist_id;type:uuid;primaryKey"`
	TagID     uuid.UUID `json:"tag_id" db:"tag_id" gorm:"type:uuid;primaryKey;index"`

	BagList BagList `json:"-" gorm:"foreignKey:BagListID;references:ID;constraint:OnDelete:CASCADE"`
	Tag     Tag     `json:"-" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}

func (BagListTag) TableName() string { return "baglist_tags" }
