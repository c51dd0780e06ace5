package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout is the wire and storage layout of date field values.
const DateLayout = "2006-01-02"

// FieldValue is a typed custom-field value: a kind and the single payload that kind carries.
// Text, enum and url kinds carry a string.
type FieldValue struct {
	kind    FieldType
	str     string
	number  decimal.Decimal
	boolean bool
	date    time.Time
}

func TextValue(s string) FieldValue { return FieldValue{kind: FieldText, str: s} }
func EnumValue(s string) FieldValue { return FieldValue{kind: FieldEnum, str: s} }
func URLValue(s string) FieldValue { return FieldValue{kind: FieldURL, str: s} }
func NumberValue(d decimal.Decimal) FieldValue { return FieldValue{kind: FieldNumber, number: d} }
func BoolValue(b bool) FieldValue { return FieldValue{kind: FieldBool, boolean: b} }

func DateValue(t time.Time) FieldValue {
	y, m, d := t.Date()
	return FieldValue{kind: FieldDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v FieldValue) Kind() FieldType { return v.kind }
func (v FieldValue) IsZero() bool { return v.kind == "" }
func (v FieldValue) Str() string { return v.str }
func (v FieldValue) Number() decimal.Decimal { return v.number }
func (v FieldValue) Bool() bool { return v.boolean }
func (v FieldValue) Date() time.Time { return v.date }

func (v FieldValue) String() string {
	switch v.kind {
	case FieldNumber:
		return v.number.String()
	case FieldBool:
		return fmt.Sprintf("%t", v.boolean)
	case FieldDate:
		return v.date.Format(DateLayout)
	}
	return v.str
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  FieldType `json:"kind"`
		Value any       `json:"value"`
	}{Kind: v.kind}
	switch v.kind {
	case FieldNumber:
		out.Value = v.number
	case FieldBool:
		out.Value = v.boolean
	case FieldDate:
		out.Value = v.date.Format(DateLayout)
	case "":
		out.Value = nil
	default:
		out.Value = v.str
	}
	return json.Marshal(out)
}

// BagListItemFieldValue is the value of one custom field for one item.
// Exactly one typed column is populated, selected by Kind; use Set and Get rather than
// touching the columns directly.
type BagListItemFieldValue struct {
	Base
	ItemID      uuid.UUID        `json:"item_id" db:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_field_value_item_field"`
	FieldID     uuid.UUID        `json:"field_id" db:"field_id" gorm:"type:uuid;not null;uniqueIndex:idx_field_value_item_field;index:idx_field_value_number,priority:1;index:idx_field_value_text,priority:1;index:idx_field_value_enum,priority:1"`
	Kind        FieldType        `json:"kind" db:"kind" gorm:"type:varchar(10);not null"`
	ValueText   string           `json:"-" db:"value_text" gorm:"type:text;not null;default:'';index:idx_field_value_text,priority:2"`
	ValueNumber *decimal.Decimal `json:"-" db:"value_number" gorm:"type:numeric(16,4);index:idx_field_value_number,priority:2"`
	ValueBool   *bool            `json:"-" db:"value_bool"`
	ValueDate   *time.Time       `json:"-" db:"value_date" gorm:"type:date"`
	ValueEnum   string           `json:"-" db:"value_enum" gorm:"type:varchar(80);not null;default:'';index:idx_field_value_enum,priority:2"`
	ValueURL    string           `json:"-" db:"value_url" gorm:"type:text;not null;default:''"`

	Item  BagListItem     `json:"-" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
	Field SectionFieldDef `json:"-" gorm:"foreignKey:FieldID;references:ID;constraint:OnDelete:CASCADE"`
}

func (BagListItemFieldValue) TableName() string { return "baglist_item_field_values" }

// Set stores v in the column matching its kind and resets every other column.
func (fv *BagListItemFieldValue) Set(v FieldValue) {
	fv.Kind = v.kind
	fv.ValueText, fv.ValueEnum, fv.ValueURL = "", "", ""
	fv.ValueNumber, fv.ValueBool, fv.ValueDate = nil, nil, nil

	switch v.kind {
	case FieldText:
		fv.ValueText = v.str
	case FieldEnum:
		fv.ValueEnum = v.str
	case FieldURL:
		fv.ValueURL = v.str
	case FieldNumber:
		n := v.number
		fv.ValueNumber = &n
	case FieldBool:
		b := v.boolean
		fv.ValueBool = &b
	case FieldDate:
		d := v.date
		fv.ValueDate = &d
	}
}

// Get reads the column selected by Kind.
func (fv BagListItemFieldValue) Get() FieldValue {
	switch fv.Kind {
	case FieldText:
		return TextValue(fv.ValueText)
	case FieldEnum:
		return EnumValue(fv.ValueEnum)
	case FieldURL:
		return URLValue(fv.ValueURL)
	case FieldNumber:
		if fv.ValueNumber != nil {
			return NumberValue(*fv.ValueNumber)
		}
		return NumberValue(decimal.Zero)
	case FieldBool:
		return BoolValue(fv.ValueBool != nil && *fv.ValueBool)
	case FieldDate:
		if fv.ValueDate != nil {
			return DateValue(*fv.ValueDate)
		}
	}
	return FieldValue{kind: fv.Kind}
}

// CheckColumns verifies that only the column selected by Kind is populated.
func (fv BagListItemFieldValue) CheckColumns() error {
	if !fv.Kind.Valid() {
		return fmt.Errorf("field value has invalid kind %q", fv.Kind)
	}
	populated := map[FieldType]bool{
		FieldText:   fv.ValueText != "",
		FieldEnum:   fv.ValueEnum != "",
		FieldURL:    fv.ValueURL != "",
		FieldNumber: fv.ValueNumber != nil,
		FieldBool:   fv.ValueBool != nil,
		FieldDate:   fv.ValueDate != nil,
	}
	for kind, set := range populated {
		if set && kind != fv.Kind {
			return fmt.Errorf("field value of kind %s has a %s column populated", fv.Kind, kind)
		}
	}
	return nil
}

func (fv *BagListItemFieldValue) BeforeSave(tx *gorm.DB) error {
	return fv.CheckColumns()
}

func (fv BagListItemFieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      uuid.UUID  `json:"id"`
		ItemID  uuid.UUID  `json:"item_id"`
		FieldID uuid.UUID  `json:"field_id"`
		Value   FieldValue `json:"value"`
	}{fv.ID, fv.ItemID, fv.FieldID, fv.Get()})
}
