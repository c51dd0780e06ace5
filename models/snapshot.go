package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BagListItemProductSnapshot is a point-in-time copy of a product's display attributes.
// It is written when a product is attached and only rewritten by an explicit resync.
type BagListItemProductSnapshot struct {
	Base
	ItemID            uuid.UUID        `json:"item_id" db:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_item"`
	ExternalProductID *uuid.UUID       `json:"external_product_id,omitempty" db:"external_product_id" gorm:"type:uuid;index"`
	SnapTitle         string           `json:"snap_title" db:"snap_title" gorm:"type:varchar(255);not null"`
	SnapImageURL      string           `json:"snap_image_url" db:"snap_image_url" gorm:"type:text;not null;default:''"`
	SnapPriceAmount   *decimal.Decimal `json:"snap_price_amount,omitempty" db:"snap_price_amount" gorm:"type:numeric(12,2)"`
	SnapPriceCurrency string           `json:"snap_price_currency" db:"snap_price_currency" gorm:"type:varchar(3);not null;default:''"`
	AffiliateURL      string           `json:"affiliate_url" db:"affiliate_url" gorm:"type:text;not null;default:''"`
	CanonicalURL      string           `json:"canonical_url" db:"canonical_url" gorm:"type:text;not null;default:''"`
	CouponCode        string           `json:"coupon_code" db:"coupon_code" gorm:"type:varchar(80);not null;default:''"`
	CouponExpiresAt   *time.Time       `json:"coupon_expires_at,omitempty" db:"coupon_expires_at"`
	VideoURL          string           `json:"video_url" db:"video_url" gorm:"type:text;not null;default:''"`
	ExtraLinks        datatypes.JSON   `json:"extra_links" db:"extra_links" gorm:"type:jsonb;not null;default:'[]'"`

	ExternalProduct *ExternalProduct `json:"-" gorm:"foreignKey:ExternalProductID;references:ID;constraint:OnDelete:SET NULL"`
}

func (BagListItemProductSnapshot) TableName() string { return "baglist_item_snapshots" }

// CopyFromProduct overwrites the product-derived attributes with the product's current values.
// Caller-supplied attributes (affiliate link, coupon, video, extra links) are left alone.
func (s *BagListItemProductSnapshot) CopyFromProduct(p ExternalProduct) {
	id := p.ID
	s.ExternalProductID = &id
	s.SnapTitle = p.Name
	s.SnapImageURL = p.ImageURL
	s.CanonicalURL = p.URL
	s.SnapPriceCurrency = p.PriceCurrency
	s.SnapPriceAmount = nil
	if p.PriceAmount != nil {
		amount := *p.PriceAmount
		s.SnapPriceAmount = &amount
	}
}
