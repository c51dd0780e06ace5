package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db}
}

// AddBagList favorites a baglist. Favoriting it again only replaces the stored share token.
func (r *FavoriteRepo) AddBagList(ctx context.Context, profileID, baglistID uuid.UUID, shareToken string) error {
	favorite := models.FavoriteBagList{ProfileID: profileID, BagListID: baglistID, ShareToken: shareToken}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "baglist_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"share_token"}),
		}).
		Create(&favorite).Error
}

func (r *FavoriteRepo) RemoveBagList(ctx context.Context, profileID, baglistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND baglist_id = ?", profileID, baglistID).
		Delete(&models.FavoriteBagList{}).Error
}

// AddItem favorites an item. Favoriting it again only replaces the stored share token.
func (r *FavoriteRepo) AddItem(ctx context.Context, profileID, itemID uuid.UUID, shareToken string) error {
	favorite := models.FavoriteProduct{ProfileID: profileID, ItemID: itemID, ShareToken: shareToken}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"share_token"}),
		}).
		Create(&favorite).Error
}

func (r *FavoriteRepo) RemoveItem(ctx context.Context, profileID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND item_id = ?", profileID, itemID).
		Delete(&models.FavoriteProduct{}).Error
}

// ListBagLists returns the profile's favorites of live baglists, most recently favorited first
func (r *FavoriteRepo) ListBagLists(ctx context.Context, profileID uuid.UUID) ([]*models.FavoriteBagList, error) {
	var favorites []*models.FavoriteBagList
	err := r.db.WithContext(ctx).
		Preload("BagList").
		Joins("JOIN baglists ON baglists.id = favorite_baglists.baglist_id").
		Where("favorite_baglists.profile_id = ? AND baglists.is_deleted = ?", profileID, false).
		Order("favorite_baglists.created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// ListItems returns the profile's item favorites with each item and its snapshot
func (r *FavoriteRepo) ListItems(ctx context.Context, profileID uuid.UUID) ([]*models.FavoriteProduct, error) {
	var favorites []*models.FavoriteProduct
	err := r.db.WithContext(ctx).
		Preload("Item.Snapshot").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}
