package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db}
}

// FindByID returns an item by its ID with its snapshot
func (r *ItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BagListItem, error) {
	var item models.BagListItem
	if err := r.db.WithContext(ctx).Preload("Snapshot").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByBagList returns the items of a baglist in display order
func (r *ItemRepo) ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.BagListItem, error) {
	var items []*models.BagListItem
	err := r.db.WithContext(ctx).
		Preload("Snapshot").
		Where("baglist_id = ?", baglistID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepo) NextPosition(ctx context.Context, baglistID uuid.UUID) (int, error) {
	return nextPosition(ctx, r.db, &models.BagListItem{}, baglistID)
}

func (r *ItemRepo) Add(ctx context.Context, item *models.BagListItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *ItemRepo) Update(ctx context.Context, item *models.BagListItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// SetSection moves the item into sectionID, or out of any section when sectionID is nil
func (r *ItemRepo) SetSection(ctx context.Context, id uuid.UUID, sectionID *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.BagListItem{}).
		Where("id = ?", id).
		Update("section_id", sectionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the item with its snapshot, field values and favorites
func (r *ItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.FavoriteProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.BagListItemFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.BagListItemProductSnapshot{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BagListItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ItemRepo) Renumber(ctx context.Context, baglistID uuid.UUID, orderedIDs []uuid.UUID) error {
	return renumber(ctx, r.db, &models.BagListItem{}, baglistID, orderedIDs)
}
