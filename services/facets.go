package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/shopspring/decimal"
)

// SetFacetInput sets one facet value on a list: Option for country, season and use;
// NumericValue and NumericUnit for duration.
type SetFacetInput struct {
	Facet        models.FacetKey     `json:"facet" validate:"required,oneof=country season duration use"`
	Option       string              `json:"option" validate:"max=80"`
	NumericValue *decimal.Decimal    `json:"numeric_value"`
	NumericUnit  models.DurationUnit `json:"numeric_unit" validate:"omitempty,oneof=h d w"`
}

var maxDuration = decimal.RequireFromString("9999.99")

func (s *Service) ListFacets(ctx context.Context) ([]*models.Facet, error) {
	facets, err := s.store.Facets().ListFacets(ctx)
	if err != nil {
		return nil, dbErr("list", "facets", err)
	}
	return facets, nil
}

// SetFacetValue attaches a facet value to one of actor's lists. A list holds at most one
// duration, so a new duration replaces the previous one.
func (s *Service) SetFacetValue(ctx context.Context, actor Actor, baglistID uuid.UUID, in SetFacetInput) (*models.BagListFacetValue, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	var value *models.BagListFacetValue
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := lockOwnedBagList(ctx, tx, actor, baglistID); err != nil {
			return err
		}
		facet, err := tx.Facets().FindFacetByKey(ctx, in.Facet)
		if isMissing(err) {
			return errs.NewInvalidFieldError("facet", "unknown facet")
		}
		if err != nil {
			return dbErr("find", "facet", err)
		}

		value = &models.BagListFacetValue{BagListID: baglistID, FacetID: facet.ID}
		if facet.Key.Numeric() {
			if in.NumericValue == nil || !in.NumericValue.IsPositive() {
				return errs.NewInvalidFieldError("numeric_value", "must be greater than 0")
			}
			if in.NumericValue.GreaterThan(maxDuration) {
				return errs.NewInvalidFieldError("numeric_value", "must not exceed "+maxDuration.String())
			}
			if !in.NumericUnit.Valid() {
				return errs.NewInvalidFieldError("numeric_unit", "must be one of: h d w")
			}
			if err := tx.Facets().DeleteValuesByFacet(ctx, baglistID, facet.ID); err != nil {
				return dbErr("replace", "facet value", err)
			}
			amount := in.NumericValue.Round(2)
			value.NumericValue = &amount
			value.NumericUnit = in.NumericUnit
		} else {
			if in.Option == "" {
				return errs.NewMissingRequiredFieldError("option")
			}
			option, err := tx.Facets().FindOption(ctx, facet.ID, in.Option)
			if isMissing(err) {
				return errs.NewInvalidFieldError("option", "unknown option for facet "+string(facet.Key))
			}
			if err != nil {
				return dbErr("find", "facet option", err)
			}
			value.OptionID = &option.ID
			value.Option = option
		}
		if err := tx.Facets().AddValue(ctx, value); err != nil {
			return dbErr("add", "facet value", err)
		}
		value.Facet = facet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// RemoveFacetValue detaches a facet value from one of actor's lists.
func (s *Service) RemoveFacetValue(ctx context.Context, actor Actor, baglistID, valueID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := ownedBagList(ctx, tx, actor, baglistID); err != nil {
			return err
		}
		value, err := tx.Facets().FindValue(ctx, valueID)
		if isMissing(err) || (err == nil && value.BagListID != baglistID) {
			return notFound("facet value")
		}
		if err != nil {
			return dbErr("find", "facet value", err)
		}
		if err := tx.Facets().DeleteValue(ctx, value.ID); err != nil {
			return dbErr("delete", "facet value", err)
		}
		return nil
	})
}
