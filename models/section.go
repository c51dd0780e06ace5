package models

import "github.com/google/uuid"

// BagListSection is an ordered subdivision of a BagList.
type BagListSection struct {
	Base
	BagListID          uuid.UUID `json:"baglist_id" db:"baglist_id" gorm:"column:baglist_id;type:uuid;not null;uniqueIndex:idx_section_baglist_pos"`
	Title              string    `json:"title" db:"title" gorm:"type:varchar(120);not null"`
	Description        string    `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	Position           int       `json:"position" db:"position" gorm:"not null;uniqueIndex:idx_section_baglist_pos"`
	CollapsedByDefault bool      `json:"collapsed_by_default" db:"collapsed_by_default" gorm:"not null;default:false"`

	Fields []SectionFieldDef `json:"fields,omitempty" gorm:"foreignKey:SectionID;references:ID;constraint:OnDelete:CASCADE"`
}

func (BagListSection) TableName() string { return "baglist_sections" }
