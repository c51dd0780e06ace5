package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FieldRepo struct {
	db *gorm.DB
}

func NewFieldRepo(db *gorm.DB) *FieldRepo {
	return &FieldRepo{db}
}

// FindDef returns a section field definition by its ID
func (r *FieldRepo) FindDef(ctx context.Context, id uuid.UUID) (*models.SectionFieldDef, error) {
	var def models.SectionFieldDef
	if err := r.db.WithContext(ctx).First(&def, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *FieldRepo) ListDefsBySection(ctx context.Context, sectionID uuid.UUID) ([]*models.SectionFieldDef, error) {
	return r.ListDefsBySections(ctx, []uuid.UUID{sectionID})
}

// ListDefsBySections returns the definitions of every given section ordered by position
func (r *FieldRepo) ListDefsBySections(ctx context.Context, sectionIDs []uuid.UUID) ([]*models.SectionFieldDef, error) {
	var defs []*models.SectionFieldDef
	if len(sectionIDs) == 0 {
		return defs, nil
	}
	err := r.db.WithContext(ctx).
		Where("section_id IN ?", sectionIDs).
		Order("position ASC").
		Order("created_at ASC").
		Find(&defs).Error
	return defs, err
}

func (r *FieldRepo) AddDef(ctx context.Context, def *models.SectionFieldDef) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *FieldRepo) UpdateDef(ctx context.Context, def *models.SectionFieldDef) error {
	return r.db.WithContext(ctx).Save(def).Error
}

// DeleteDef removes the definition and every value stored against it
func (r *FieldRepo) DeleteDef(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&models.BagListItemFieldValue{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.SectionFieldDef{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountValues returns how many items hold a value for the field
func (r *FieldRepo) CountValues(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BagListItemFieldValue{}).
		Where("field_id = ?", fieldID).
		Count(&count).Error
	return count, err
}

func (r *FieldRepo) FindValue(ctx context.Context, itemID, fieldID uuid.UUID) (*models.BagListItemFieldValue, error) {
	var value models.BagListItemFieldValue
	err := r.db.WithContext(ctx).First(&value, "item_id = ? AND field_id = ?", itemID, fieldID).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// SaveValue inserts the value, or replaces the one already stored for the same item and field
func (r *FieldRepo) SaveValue(ctx context.Context, value *models.BagListItemFieldValue) error {
	db := r.db.WithContext(ctx)
	var existing models.BagListItemFieldValue
	err := db.Select("id", "created_at").
		First(&existing, "item_id = ? AND field_id = ?", value.ItemID, value.FieldID).Error
	switch {
	case err == nil:
		value.ID = existing.ID
		value.CreatedAt = existing.CreatedAt
		return db.Omit(clause.Associations).Save(value).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Omit(clause.Associations).Create(value).Error
	default:
		return err
	}
}

func (r *FieldRepo) DeleteValue(ctx context.Context, itemID, fieldID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("item_id = ? AND field_id = ?", itemID, fieldID).
		Delete(&models.BagListItemFieldValue{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListValuesByItems returns every value held by the given items
func (r *FieldRepo) ListValuesByItems(ctx context.Context, itemIDs []uuid.UUID) ([]*models.BagListItemFieldValue, error) {
	var values []*models.BagListItemFieldValue
	if len(itemIDs) == 0 {
		return values, nil
	}
	err := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&values).Error
	return values, err
}
