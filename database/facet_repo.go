package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FacetRepo struct {
	db *gorm.DB
}

func NewFacetRepo(db *gorm.DB) *FacetRepo {
	return &FacetRepo{db}
}

// ListFacets returns every facet with its options sorted by label
func (r *FacetRepo) ListFacets(ctx context.Context) ([]*models.Facet, error) {
	var facets []*models.Facet
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("facet_options.label ASC")
		}).
		Order("key ASC").
		Find(&facets).Error
	return facets, err
}

func (r *FacetRepo) FindFacetByKey(ctx context.Context, key models.FacetKey) (*models.Facet, error) {
	var facet models.Facet
	if err := r.db.WithContext(ctx).First(&facet, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &facet, nil
}

func (r *FacetRepo) FindOption(ctx context.Context, facetID uuid.UUID, code string) (*models.FacetOption, error) {
	var option models.FacetOption
	if err := r.db.WithContext(ctx).First(&option, "facet_id = ? AND code = ?", facetID, code).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

// EnsureFacet creates the facet when its key is unknown and returns the stored row
func (r *FacetRepo) EnsureFacet(ctx context.Context, facet *models.Facet) (*models.Facet, error) {
	existing, err := r.FindFacetByKey(ctx, facet.Key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(facet).Error; err != nil {
		return nil, err
	}
	return facet, nil
}

// EnsureOption creates the option when its code is unknown for the facet
func (r *FacetRepo) EnsureOption(ctx context.Context, option *models.FacetOption) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "facet_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		Create(option).Error
}

func (r *FacetRepo) FindValue(ctx context.Context, id uuid.UUID) (*models.BagListFacetValue, error) {
	var value models.BagListFacetValue
	err := r.db.WithContext(ctx).Preload("Facet").Preload("Option").First(&value, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// ListValuesByBagList returns the facet values of a baglist with facet and option loaded
func (r *FacetRepo) ListValuesByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.BagListFacetValue, error) {
	var values []*models.BagListFacetValue
	err := r.db.WithContext(ctx).
		Preload("Facet").
		Preload("Option").
		Where("baglist_id = ?", baglistID).
		Order("created_at ASC").
		Find(&values).Error
	return values, err
}

func (r *FacetRepo) AddValue(ctx context.Context, value *models.BagListFacetValue) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(value).Error
}

func (r *FacetRepo) DeleteValue(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BagListFacetValue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteValuesByFacet removes every value of one facet from a baglist
func (r *FacetRepo) DeleteValuesByFacet(ctx context.Context, baglistID, facetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("baglist_id = ? AND facet_id = ?", baglistID, facetID).
		Delete(&models.BagListFacetValue{}).Error
}
