package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SectionRepo struct {
	db *gorm.DB
}

func NewSectionRepo(db *gorm.DB) *SectionRepo {
	return &SectionRepo{db}
}

// FindByID returns a section by its ID
func (r *SectionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BagListSection, error) {
	var section models.BagListSection
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// ListByBagList returns the sections of a baglist in display order
func (r *SectionRepo) ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.BagListSection, error) {
	var sections []*models.BagListSection
	err := r.db.WithContext(ctx).
		Where("baglist_id = ?", baglistID).
		Order("position ASC").
		Find(&sections).Error
	return sections, err
}

// NextPosition returns the position one past the last section of the baglist
func (r *SectionRepo) NextPosition(ctx context.Context, baglistID uuid.UUID) (int, error) {
	return nextPosition(ctx, r.db, &models.BagListSection{}, baglistID)
}

func (r *SectionRepo) Add(ctx context.Context, section *models.BagListSection) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(section).Error
}

func (r *SectionRepo) Update(ctx context.Context, section *models.BagListSection) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(section).Error
}

// Delete detaches the section's items, drops its field definitions and their values,
// then removes the section itself.
func (r *SectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.BagListItem{}).
			Where("section_id = ?", id).
			Update("section_id", nil).Error
		if err != nil {
			return err
		}

		defs := tx.Model(&models.SectionFieldDef{}).Select("id").Where("section_id = ?", id)
		if err := tx.Where("field_id IN (?)", defs).Delete(&models.BagListItemFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id = ?", id).Delete(&models.SectionFieldDef{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.BagListSection{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Renumber assigns position i to orderedIDs[i]
func (r *SectionRepo) Renumber(ctx context.Context, baglistID uuid.UUID, orderedIDs []uuid.UUID) error {
	return renumber(ctx, r.db, &models.BagListSection{}, baglistID, orderedIDs)
}

// nextPosition returns MAX(position)+1 over the baglist's rows of model, or 0 when there are none.
func nextPosition(ctx context.Context, db *gorm.DB, model interface{}, baglistID uuid.UUID) (int, error) {
	var next int
	err := db.WithContext(ctx).
		Model(model).
		Where("baglist_id = ?", baglistID).
		Select("COALESCE(MAX(position), -1) + 1").
		Scan(&next).Error
	return next, err
}

// renumber rewrites positions in two passes. Every row is first moved to a distinct negative
// slot so the (baglist_id, position) unique index never sees a transient duplicate.
func renumber(ctx context.Context, db *gorm.DB, model interface{}, baglistID uuid.UUID, orderedIDs []uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model).
			Where("baglist_id = ?", baglistID).
			Update("position", gorm.Expr("-position - 1")).Error
		if err != nil {
			return err
		}
		for i, id := range orderedIDs {
			result := tx.Model(model).
				Where("id = ? AND baglist_id = ?", id, baglistID).
				Update("position", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
