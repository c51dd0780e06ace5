package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ExtraLink struct {
	Label string `json:"label" validate:"required,max=80"`
	URL   string `json:"url" validate:"required,http_url"`
}

// AttachProductInput links an item to a product. The override fields replace the values
// copied from the product in the snapshot only.
type AttachProductInput struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	AffiliateURL    string           `json:"affiliate_url" validate:"omitempty,http_url"`
	CouponCode      string           `json:"coupon_code" validate:"max=80"`
	CouponExpiresAt *time.Time       `json:"coupon_expires_at"`
	VideoURL        string           `json:"video_url" validate:"omitempty,http_url"`
	ExtraLinks      []ExtraLink      `json:"extra_links" validate:"max=20,dive"`
	Title           string           `json:"title" validate:"max=255"`
	ImageURL        string           `json:"image_url" validate:"omitempty,http_url"`
	PriceAmount     *decimal.Decimal `json:"price_amount"`
	PriceCurrency   string           `json:"price_currency" validate:"omitempty,iso4217"`
}

// AttachProduct writes the item's snapshot from the product's current attributes plus the
// caller's overrides. Later product edits do not reach the snapshot.
func (s *Service) AttachProduct(ctx context.Context, actor Actor, itemID uuid.UUID, in AttachProductInput) (*models.BagListItemProductSnapshot, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if in.PriceAmount != nil && in.PriceAmount.IsNegative() {
		return nil, errs.NewInvalidFieldError("price_amount", "must not be negative")
	}
	links := in.ExtraLinks
	if links == nil {
		links = []ExtraLink{}
	}
	extra, err := json.Marshal(links)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not encode extra links", err)
	}

	var snapshot *models.BagListItemProductSnapshot
	err = s.store.Transaction(ctx, func(tx database.Store) error {
		item, _, err := ownedItem(ctx, tx, actor, itemID, false)
		if err != nil {
			return err
		}
		product, err := tx.Products().FindByID(ctx, in.ProductID)
		if err != nil {
			return dbErr("find", "product", err)
		}

		snapshot = &models.BagListItemProductSnapshot{ItemID: item.ID}
		snapshot.CopyFromProduct(*product)
		if in.Title != "" {
			snapshot.SnapTitle = in.Title
		}
		if in.ImageURL != "" {
			snapshot.SnapImageURL = in.ImageURL
		}
		if in.PriceAmount != nil {
			amount := *in.PriceAmount
			snapshot.SnapPriceAmount = &amount
		}
		if in.PriceCurrency != "" {
			snapshot.SnapPriceCurrency = in.PriceCurrency
		}
		snapshot.AffiliateURL = in.AffiliateURL
		snapshot.CouponCode = in.CouponCode
		snapshot.CouponExpiresAt = in.CouponExpiresAt
		snapshot.VideoURL = in.VideoURL
		snapshot.ExtraLinks = datatypes.JSON(extra)

		if err := tx.Snapshots().Save(ctx, snapshot); err != nil {
			return dbErr("save", "snapshot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ResyncSnapshot re-copies the product-derived attributes into the item's snapshot. Affiliate
// link, coupon, video and extra links are kept.
func (s *Service) ResyncSnapshot(ctx context.Context, actor Actor, itemID uuid.UUID) (*models.BagListItemProductSnapshot, error) {
	var snapshot *models.BagListItemProductSnapshot
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		item, _, err := ownedItem(ctx, tx, actor, itemID, false)
		if err != nil {
			return err
		}
		snapshot, err = tx.Snapshots().FindByItemID(ctx, item.ID)
		if isMissing(err) {
			return errs.NewNotFoundError("item has no product")
		}
		if err != nil {
			return dbErr("find", "snapshot", err)
		}
		if snapshot.ExternalProductID == nil {
			return errs.NewBadRequestError("the linked product no longer exists")
		}
		product, err := tx.Products().FindByID(ctx, *snapshot.ExternalProductID)
		if err != nil {
			return dbErr("find", "product", err)
		}
		snapshot.CopyFromProduct(*product)
		if err := tx.Snapshots().Save(ctx, snapshot); err != nil {
			return dbErr("save", "snapshot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
