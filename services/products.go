package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name          string           `json:"name" validate:"required,max=255"`
	URL           string           `json:"url" validate:"omitempty,http_url"`
	ImageURL      string           `json:"image_url" validate:"omitempty,http_url"`
	PriceAmount   *decimal.Decimal `json:"price_amount"`
	PriceCurrency string           `json:"price_currency" validate:"omitempty,len=3,alpha"`
}

type UpdateProductInput struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=255"`
	URL           *string          `json:"url" validate:"omitempty,max=2048"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=2048"`
	PriceAmount   *decimal.Decimal `json:"price_amount"`
	PriceCurrency *string          `json:"price_currency" validate:"omitempty,len=3,alpha"`
}

func checkPrice(amount *decimal.Decimal) error {
	if amount != nil && amount.IsNegative() {
		return errs.NewInvalidFieldError("price_amount", "must not be negative")
	}
	return nil
}

func checkOptionalURL(field string, raw *string) error {
	if raw != nil && *raw != "" && !isHTTPURL(*raw) {
		return errs.NewInvalidFieldError(field, "must be an absolute http or https URL")
	}
	return nil
}

// CreateProduct adds a product to the shared catalog.
func (s *Service) CreateProduct(ctx context.Context, actor Actor, in CreateProductInput) (*models.ExternalProduct, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.PriceAmount); err != nil {
		return nil, err
	}

	product := &models.ExternalProduct{
		Name:          in.Name,
		URL:           in.URL,
		ImageURL:      in.ImageURL,
		PriceAmount:   in.PriceAmount,
		PriceCurrency: strings.ToUpper(in.PriceCurrency),
	}
	if err := s.store.Products().Add(ctx, product); err != nil {
		return nil, dbErr("create", "product", err)
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.ExternalProduct, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, dbErr("find", "product", err)
	}
	return product, nil
}

// UpdateProduct edits a catalog product. Snapshots taken from it are not affected until
// their owners resync them.
func (s *Service) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, in UpdateProductInput) (*models.ExternalProduct, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.PriceAmount); err != nil {
		return nil, err
	}
	if err := checkOptionalURL("url", in.URL); err != nil {
		return nil, err
	}
	if err := checkOptionalURL("image_url", in.ImageURL); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, errs.NewInvalidFieldError("name", "must not be blank")
		}
		product.Name = name
	}
	if in.URL != nil {
		product.URL = *in.URL
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.PriceAmount != nil {
		product.PriceAmount = in.PriceAmount
	}
	if in.PriceCurrency != nil {
		product.PriceCurrency = strings.ToUpper(*in.PriceCurrency)
	}
	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, dbErr("update", "product", err)
	}
	return product, nil
}
