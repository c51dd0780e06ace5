package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) *SnapshotRepo {
	return &SnapshotRepo{db}
}

// FindByItemID returns the product snapshot of an item
func (r *SnapshotRepo) FindByItemID(ctx context.Context, itemID uuid.UUID) (*models.BagListItemProductSnapshot, error) {
	var snapshot models.BagListItemProductSnapshot
	if err := r.db.WithContext(ctx).First(&snapshot, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Save inserts the snapshot, or replaces the item's existing one keeping its ID
func (r *SnapshotRepo) Save(ctx context.Context, snapshot *models.BagListItemProductSnapshot) error {
	db := r.db.WithContext(ctx)
	var existing models.BagListItemProductSnapshot
	err := db.Select("id", "created_at").First(&existing, "item_id = ?", snapshot.ItemID).Error
	switch {
	case err == nil:
		snapshot.ID = existing.ID
		snapshot.CreatedAt = existing.CreatedAt
		return db.Omit(clause.Associations).Save(snapshot).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Omit(clause.Associations).Create(snapshot).Error
	default:
		return err
	}
}
