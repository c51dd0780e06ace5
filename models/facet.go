package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// FacetKey names one of the system-defined classification axes.
type FacetKey string

const (
	FacetCountry  FacetKey = "country"
	FacetSeason   FacetKey = "season"
	FacetDuration FacetKey = "duration"
	FacetUse      FacetKey = "use"
)

func (k FacetKey) Valid() bool {
	switch k {
	case FacetCountry, FacetSeason, FacetDuration, FacetUse:
		return true
	}
	return false
}

// Numeric facets carry a value and unit instead of an option.
func (k FacetKey) Numeric() bool { return k == FacetDuration }

// DurationUnit is the unit of a duration facet value.
type DurationUnit string

const (
	DurationHours DurationUnit = "h"
	DurationDays  DurationUnit = "d"
	DurationWeeks DurationUnit = "w"
)

func (u DurationUnit) Valid() bool {
	switch u {
	case DurationHours, DurationDays, DurationWeeks:
		return true
	}
	return false
}

type Facet struct {
	Base
	Key   FacetKey `json:"key" db:"key" gorm:"type:varchar(40);not null;uniqueIndex:idx_facet_key"`
	Label string   `json:"label" db:"label" gorm:"type:varchar(80);not null"`

	Options []FacetOption `json:"options,omitempty" gorm:"foreignKey:FacetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Facet) TableName() string { return "facets" }

type FacetOption struct {
	Base
	FacetID uuid.UUID         `json:"facet_id" db:"facet_id" gorm:"type:uuid;not null;uniqueIndex:idx_facet_option_code"`
	Code    string            `json:"code" db:"code" gorm:"type:varchar(80);not null;uniqueIndex:idx_facet_option_code"`
	Label   string            `json:"label" db:"label" gorm:"type:varchar(120);not null"`
	Extra   datatypes.JSONMap `json:"extra" db:"extra" gorm:"type:jsonb;not null;default:'{}'"`
}

func (FacetOption) TableName() string { return "facet_options" }

// BagListFacetValue attaches a facet value to a BagList: an option for enumerable facets,
// a numeric value and unit for duration.
type BagListFacetValue struct {
	Base
	BagListID    uuid.UUID        `json:"baglist_id" db:"baglist_id" gorm:"column:baglist_id;type:uuid;not null;index:idx_facet_value_baglist_facet;uniqueIndex:idx_facet_value_unique"`
	FacetID      uuid.UUID        `json:"facet_id" db:"facet_id" gorm:"type:uuid;not null;index:idx_facet_value_baglist_facet;uniqueIndex:idx_facet_value_unique"`
	OptionID     *uuid.UUID       `json:"option_id,omitempty" db:"option_id" gorm:"type:uuid;uniqueIndex:idx_facet_value_unique"`
	NumericValue *decimal.Decimal `json:"numeric_value,omitempty" db:"numeric_value" gorm:"type:numeric(6,2)"`
	NumericUnit  DurationUnit     `json:"numeric_unit,omitempty" db:"numeric_unit" gorm:"type:varchar(2);not null;default:''"`

	Facet  *Facet       `json:"facet,omitempty" gorm:"foreignKey:FacetID;references:ID;constraint:OnDelete:CASCADE"`
	Option *FacetOption `json:"option,omitempty" gorm:"foreignKey:OptionID;references:ID;constraint:OnDelete:SET NULL"`
}

func (BagListFacetValue) TableName() string { return "baglist_facet_values" }

func (v BagListFacetValue) String() string {
	key := ""
	if v.Facet != nil {
		key = string(v.Facet.Key)
	}
	switch {
	case v.Option != nil:
		return fmt.Sprintf("%s: %s", key, v.Option.Label)
	case v.NumericValue != nil:
		return fmt.Sprintf("%s: %s%s", key, v.NumericValue.String(), v.NumericUnit)
	}
	return key
}
