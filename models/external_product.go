package models

import "github.com/shopspring/decimal"

// ExternalProduct is the canonical reference to a product that list items can link to.
type ExternalProduct struct {
	Base
	Name          string           `json:"name" db:"name" gorm:"type:varchar(255);not null"`
	URL           string           `json:"url" db:"url" gorm:"type:text;not null;default:''"`
	ImageURL      string           `json:"image_url" db:"image_url" gorm:"type:text;not null;default:''"`
	PriceAmount   *decimal.Decimal `json:"price_amount,omitempty" db:"price_amount" gorm:"type:numeric(12,2)"`
	PriceCurrency string           `json:"price_currency" db:"price_currency" gorm:"type:varchar(3);not null;default:''"`
}

func (ExternalProduct) TableName() string { return "external_products" }
