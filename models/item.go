package models

import "github.com/google/uuid"

// BagListItem is a product-like entry positioned within a BagList and optionally placed in a section.
type BagListItem struct {
	Base
	BagListID   uuid.UUID  `json:"baglist_id" db:"baglist_id" gorm:"column:baglist_id;type:uuid;not null;uniqueIndex:idx_item_baglist_pos"`
	SectionID   *uuid.UUID `json:"section_id" db:"section_id" gorm:"type:uuid;index"`
	Position    int        `json:"position" db:"position" gorm:"not null;uniqueIndex:idx_item_baglist_pos"`
	Note        string     `json:"note" db:"note" gorm:"type:text;not null;default:''"`
	Pin         bool       `json:"pin" db:"pin" gorm:"not null;default:false"`
	CustomTitle string     `json:"custom_title" db:"custom_title" gorm:"type:varchar(200);not null;default:''"`

	Section  *BagListSection             `json:"-" gorm:"foreignKey:SectionID;references:ID;constraint:OnDelete:SET NULL"`
	Snapshot *BagListItemProductSnapshot `json:"snapshot,omitempty" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
}

func (BagListItem) TableName() string { return "baglist_items" }

// DisplayTitle prefers the custom title, then the snapshot title.
func (i BagListItem) DisplayTitle() string {
	if i.CustomTitle != "" {
		return i.CustomTitle
	}
	if i.Snapshot != nil && i.Snapshot.SnapTitle != "" {
		return i.Snapshot.SnapTitle
	}
	return "Item"
}

// InSection reports whether the item is currently assigned to sectionID.
func (i BagListItem) InSection(sectionID uuid.UUID) bool {
	return i.SectionID != nil && *i.SectionID == sectionID
}
