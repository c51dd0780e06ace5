package models

import "github.com/google/uuid"

// FavoriteBagList records that a profile liked a BagList. ShareToken is the link token that
// opened an unlisted list when it was favorited; rotating the list's token revokes it.
type FavoriteBagList struct {
	ProfileID  uuid.UUID `json:"profile_id" db:"profile_id" gorm:"type:uuid;primaryKey"`
	BagListID  uuid.UUID `json:"baglist_id" db:"baglist_id" gorm:"column:baglist_id;type:uuid;primaryKey;index"`
	ShareToken string    `json:"-" db:"share_token" gorm:"type:varchar(64);not null;default:''"`
	Timestamps

	Profile Profile  `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
	BagList *BagList `json:"baglist,omitempty" gorm:"foreignKey:BagListID;references:ID;constraint:OnDelete:CASCADE"`
}

func (FavoriteBagList) TableName() string { return "favorite_baglists" }

// FavoriteProduct records that a profile liked a list item.
type FavoriteProduct struct {
	ProfileID  uuid.UUID `json:"profile_id" db:"profile_id" gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID `json:"item_id" db:"item_id" gorm:"type:uuid;primaryKey;index"`
	ShareToken string    `json:"-" db:"share_token" gorm:"type:varchar(64);not null;default:''"`
	Timestamps

	Profile Profile      `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE"`
	Item    *BagListItem `json:"item,omitempty" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
}

func (FavoriteProduct) TableName() string { return "favorite_products" }
