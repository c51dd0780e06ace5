package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db}
}

// FindByID returns an external product by its ID
func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ExternalProduct, error) {
	var product models.ExternalProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) Add(ctx context.Context, product *models.ExternalProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) Update(ctx context.Context, product *models.ExternalProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}
