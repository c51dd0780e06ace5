package database

import (
	"context"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	profileRepo  *ProfileRepo
	productRepo  *ProductRepo
	bagListRepo  *BagListRepo
	sectionRepo  *SectionRepo
	itemRepo     *ItemRepo
	snapshotRepo *SnapshotRepo
	fieldRepo    *FieldRepo
	tagRepo      *TagRepo
	facetRepo    *FacetRepo
	favoriteRepo *FavoriteRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		profileRepo:  NewProfileRepo(db),
		productRepo:  NewProductRepo(db),
		bagListRepo:  NewBagListRepo(db),
		sectionRepo:  NewSectionRepo(db),
		itemRepo:     NewItemRepo(db),
		snapshotRepo: NewSnapshotRepo(db),
		fieldRepo:    NewFieldRepo(db),
		tagRepo:      NewTagRepo(db),
		facetRepo:    NewFacetRepo(db),
		favoriteRepo: NewFavoriteRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) Profiles() ProfileRepository {
	return d.profileRepo
}

func (d Database) Products() ProductRepository {
	return d.productRepo
}

func (d Database) BagLists() BagListRepository {
	return d.bagListRepo
}

func (d Database) Sections() SectionRepository {
	return d.sectionRepo
}

func (d Database) Items() ItemRepository {
	return d.itemRepo
}

func (d Database) Snapshots() SnapshotRepository {
	return d.snapshotRepo
}

func (d Database) Fields() FieldRepository {
	return d.fieldRepo
}

func (d Database) Tags() TagRepository {
	return d.tagRepo
}

func (d Database) Facets() FacetRepository {
	return d.facetRepo
}

func (d Database) Favorites() FavoriteRepository {
	return d.favoriteRepo
}

// Transaction runs fn with a Database whose repositories all share one transaction.
func (d Database) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the primary database answers.
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// Migrate creates or updates every table, index and foreign key.
func (d Database) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return errs.NewDatabaseError("migrate", "schema", err)
	}
	return nil
}
