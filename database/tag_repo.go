package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindByID returns a tag by its ID
func (r *TagRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListByOwner returns every tag of a profile sorted by name
func (r *TagRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&tags).Error
	return tags, err
}

// ListByBagList returns the tags applied to a baglist sorted by name
func (r *TagRepo) ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN baglist_tags ON baglist_tags.tag_id = tags.id").
		Where("baglist_tags.baglist_id = ?", baglistID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tag).Error
}

// Delete removes the tag and its baglist associations
func (r *TagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.BagListTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tag{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Attach applies the tag to the baglist; applying it twice is a no-op
func (r *TagRepo) Attach(ctx context.Context, baglistID, tagID uuid.UUID) error {
	link := models.BagListTag{BagListID: baglistID, TagID: tagID}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}

func (r *TagRepo) Detach(ctx context.Context, baglistID, tagID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("baglist_id = ? AND tag_id = ?", baglistID, tagID).
		Delete(&models.BagListTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
