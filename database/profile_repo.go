package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProfileRepo) GetDB() *gorm.DB {
	return r.db
}

// FindByID returns a profile by its ID
func (r *ProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByHandle returns the profile owning the public handle
func (r *ProfileRepo) FindByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "handle = ?", handle).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByAccountID returns the profile attached to an authenticated account
func (r *ProfileRepo) FindByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Add inserts a new profile into the database
func (r *ProfileRepo) Add(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates an existing profile in the database
func (r *ProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
