package models

import (
	"slices"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FieldType is the declared type of a section's custom field.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "bool"
	FieldDate   FieldType = "date"
	FieldEnum   FieldType = "enum"
	FieldURL    FieldType = "url"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldBool, FieldDate, FieldEnum, FieldURL:
		return true
	}
	return false
}

// SectionFieldDef is a user-defined typed column scoped to a section,
// e.g. weight (number, g) or material (enum).
type SectionFieldDef struct {
	Base
	SectionID   uuid.UUID                   `json:"section_id" db:"section_id" gorm:"type:uuid;not null;uniqueIndex:idx_field_def_section_key"`
	Name        string                      `json:"name" db:"name" gorm:"type:varchar(80);not null"`
	Key         string                      `json:"key" db:"key" gorm:"type:varchar(80);not null;uniqueIndex:idx_field_def_section_key"`
	Type        FieldType                   `json:"type" db:"type" gorm:"type:varchar(10);not null"`
	Unit        string                      `json:"unit" db:"unit" gorm:"type:varchar(20);not null;default:''"`
	EnumOptions datatypes.JSONSlice[string] `json:"enum_options" db:"enum_options" gorm:"type:jsonb;not null;default:'[]'"`
	Position    int                         `json:"position" db:"position" gorm:"not null;default:0;index"`
	IsPrimary   bool                        `json:"is_primary" db:"is_primary" gorm:"not null;default:false"`
}

func (SectionFieldDef) TableName() string { return "section_field_defs" }

// AllowsOption reports whether option is one of the enum options.
func (f SectionFieldDef) AllowsOption(option string) bool {
	return slices.Contains([]string(f.EnumOptions), option)
}
