package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BagListRepo struct {
	db *gorm.DB
}

func NewBagListRepo(db *gorm.DB) *BagListRepo {
	return &BagListRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *BagListRepo) GetDB() *gorm.DB {
	return r.db
}

// FindByID returns a baglist by its ID, including soft-deleted ones
func (r *BagListRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BagList, error) {
	var baglist models.BagList
	if err := r.db.WithContext(ctx).First(&baglist, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &baglist, nil
}

// FindByIDForUpdate returns a baglist and locks its row until the transaction ends
func (r *BagListRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.BagList, error) {
	var baglist models.BagList
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&baglist, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &baglist, nil
}

// FindByOwnerSlug returns the owner's baglist with the given slug, including soft-deleted ones
func (r *BagListRepo) FindByOwnerSlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.BagList, error) {
	var baglist models.BagList
	err := r.db.WithContext(ctx).First(&baglist, "owner_id = ? AND slug = ?", ownerID, slug).Error
	if err != nil {
		return nil, err
	}
	return &baglist, nil
}

// ListByOwner returns the owner's live baglists, newest first
func (r *BagListRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, visibilities ...models.Visibility) ([]*models.BagList, error) {
	var baglists []*models.BagList
	query := r.db.WithContext(ctx).Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	if len(visibilities) > 0 {
		query = query.Where("visibility IN ?", visibilities)
	}
	err := query.Order("created_at DESC").Find(&baglists).Error
	return baglists, err
}

// ListDeletedByOwner returns the owner's soft-deleted baglists, most recently deleted first
func (r *BagListRepo) ListDeletedByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.BagList, error) {
	var baglists []*models.BagList
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, true).
		Order("deleted_at DESC").
		Find(&baglists).Error
	return baglists, err
}

// SlugsWithPrefix returns every slug of the owner, deleted lists included, that starts with prefix
func (r *BagListRepo) SlugsWithPrefix(ctx context.Context, ownerID uuid.UUID, prefix string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Model(&models.BagList{}).
		Where("owner_id = ? AND slug LIKE ?", ownerID, prefix+"%").
		Pluck("slug", &slugs).Error
	return slugs, err
}

// Add inserts a new baglist into the database
func (r *BagListRepo) Add(ctx context.Context, baglist *models.BagList) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(baglist).Error
}

// Update updates an existing baglist in the database
func (r *BagListRepo) Update(ctx context.Context, baglist *models.BagList) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(baglist).Error
}

// Purge hard-deletes the baglist with its sections, items, snapshots, field data, tags,
// facet values and favorites.
func (r *BagListRepo) Purge(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := tx.Model(&models.BagListItem{}).Select("id").Where("baglist_id = ?", id)
		sections := tx.Model(&models.BagListSection{}).Select("id").Where("baglist_id = ?", id)

		steps := []func() error{
			func() error {
				return tx.Where("item_id IN (?)", items).Delete(&models.FavoriteProduct{}).Error
			},
			func() error {
				return tx.Where("item_id IN (?)", items).Delete(&models.BagListItemFieldValue{}).Error
			},
			func() error {
				return tx.Where("item_id IN (?)", items).Delete(&models.BagListItemProductSnapshot{}).Error
			},
			func() error {
				return tx.Where("baglist_id = ?", id).Delete(&models.BagListItem{}).Error
			},
			func() error {
				return tx.Where("section_id IN (?)", sections).Delete(&models.SectionFieldDef{}).Error
			},
			func() error {
				return tx.Where("baglist_id = ?", id).Delete(&models.BagListSection{}).Error
			},
			func() error {
				return tx.Where("baglist_id = ?", id).Delete(&models.BagListFacetValue{}).Error
			},
			func() error {
				return tx.Where("baglist_id = ?", id).Delete(&models.BagListTag{}).Error
			},
			func() error {
				return tx.Where("baglist_id = ?", id).Delete(&models.FavoriteBagList{}).Error
			},
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		result := tx.Delete(&models.BagList{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
