package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
)

// Store is the persistence surface used by the services. Database implements it over GORM,
// on PostgreSQL in production and on SQLite in dbtest. Lookups of missing rows return
// gorm.ErrRecordNotFound and unique violations return gorm.ErrDuplicatedKey on both.
type Store interface {
	Profiles() ProfileRepository
	Products() ProductRepository
	BagLists() BagListRepository
	Sections() SectionRepository
	Items() ItemRepository
	Snapshots() SnapshotRepository
	Fields() FieldRepository
	Tags() TagRepository
	Facets() FacetRepository
	Favorites() FavoriteRepository

	// Transaction runs fn against a Store bound to a single transaction.
	// Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByHandle(ctx context.Context, handle string) (*models.Profile, error)
	FindByAccountID(ctx context.Context, accountID string) (*models.Profile, error)
	Add(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ExternalProduct, error)
	Add(ctx context.Context, product *models.ExternalProduct) error
	Update(ctx context.Context, product *models.ExternalProduct) error
}

type BagListRepository interface {
	// FindByID returns the list even when it is soft-deleted.
	FindByID(ctx context.Context, id uuid.UUID) (*models.BagList, error)
	// FindByIDForUpdate also takes a row lock held until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.BagList, error)
	FindByOwnerSlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.BagList, error)
	// ListByOwner returns non-deleted lists, newest first. An empty visibilities filter matches all.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, visibilities ...models.Visibility) ([]*models.BagList, error)
	ListDeletedByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.BagList, error)
	SlugsWithPrefix(ctx context.Context, ownerID uuid.UUID, prefix string) ([]string, error)
	Add(ctx context.Context, baglist *models.BagList) error
	Update(ctx context.Context, baglist *models.BagList) error
	// Purge hard-deletes the list and everything that hangs off it.
	Purge(ctx context.Context, id uuid.UUID) error
}

type SectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BagListSection, error)
	ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.BagListSection, error)
	NextPosition(ctx context.Context, baglistID uuid.UUID) (int, error)
	Add(ctx context.Context, section *models.BagListSection) error
	Update(ctx context.Context, section *models.BagListSection) error
	// Delete detaches the section's items, drops its field definitions and values, then the section.
	Delete(ctx context.Context, id uuid.UUID) error
	// Renumber assigns position i to orderedIDs[i]. orderedIDs must hold every section of the list.
	Renumber(ctx context.Context, baglistID uuid.UUID, orderedIDs []uuid.UUID) error
}

type ItemRepository interface {
	// FindByID preloads the snapshot.
	FindByID(ctx context.Context, id uuid.UUID) (*models.BagListItem, error)
	// ListByBagList returns items ordered by position with snapshots preloaded.
	ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.BagListItem, error)
	NextPosition(ctx context.Context, baglistID uuid.UUID) (int, error)
	Add(ctx context.Context, item *models.BagListItem) error
	Update(ctx context.Context, item *models.BagListItem) error
	SetSection(ctx context.Context, id uuid.UUID, sectionID *uuid.UUID) error
	// Delete removes the item with its snapshot, field values and favorites.
	Delete(ctx context.Context, id uuid.UUID) error
	Renumber(ctx context.Context, baglistID uuid.UUID, orderedIDs []uuid.UUID) error
}

type SnapshotRepository interface {
	FindByItemID(ctx context.Context, itemID uuid.UUID) (*models.BagListItemProductSnapshot, error)
	// Save inserts or replaces the snapshot of snapshot.ItemID.
	Save(ctx context.Context, snapshot *models.BagListItemProductSnapshot) error
}

type FieldRepository interface {
	FindDef(ctx context.Context, id uuid.UUID) (*models.SectionFieldDef, error)
	ListDefsBySection(ctx context.Context, sectionID uuid.UUID) ([]*models.SectionFieldDef, error)
	ListDefsBySections(ctx context.Context, sectionIDs []uuid.UUID) ([]*models.SectionFieldDef, error)
	AddDef(ctx context.Context, def *models.SectionFieldDef) error
	UpdateDef(ctx context.Context, def *models.SectionFieldDef) error
	DeleteDef(ctx context.Context, id uuid.UUID) error
	CountValues(ctx context.Context, fieldID uuid.UUID) (int64, error)

	FindValue(ctx context.Context, itemID, fieldID uuid.UUID) (*models.BagListItemFieldValue, error)
	// SaveValue inserts or replaces the value for (value.ItemID, value.FieldID).
	SaveValue(ctx context.Context, value *models.BagListItemFieldValue) error
	DeleteValue(ctx context.Context, itemID, fieldID uuid.UUID) error
	ListValuesByItems(ctx context.Context, itemIDs []uuid.UUID) ([]*models.BagListItemFieldValue, error)
}

type TagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tag, error)
	ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.Tag, error)
	Add(ctx context.Context, tag *models.Tag) error
	// Delete removes the tag and its list associations.
	Delete(ctx context.Context, id uuid.UUID) error
	// Attach is idempotent.
	Attach(ctx context.Context, baglistID, tagID uuid.UUID) error
	Detach(ctx context.Context, baglistID, tagID uuid.UUID) error
}

type FacetRepository interface {
	// ListFacets returns every facet with its options.
	ListFacets(ctx context.Context) ([]*models.Facet, error)
	FindFacetByKey(ctx context.Context, key models.FacetKey) (*models.Facet, error)
	FindOption(ctx context.Context, facetID uuid.UUID, code string) (*models.FacetOption, error)
	// EnsureFacet creates the facet when its key is unknown and returns the stored row.
	EnsureFacet(ctx context.Context, facet *models.Facet) (*models.Facet, error)
	// EnsureOption creates the option when its (facet, code) is unknown.
	EnsureOption(ctx context.Context, option *models.FacetOption) error

	FindValue(ctx context.Context, id uuid.UUID) (*models.BagListFacetValue, error)
	// ListValuesByBagList preloads facet and option.
	ListValuesByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.BagListFacetValue, error)
	AddValue(ctx context.Context, value *models.BagListFacetValue) error
	DeleteValue(ctx context.Context, id uuid.UUID) error
	DeleteValuesByFacet(ctx context.Context, baglistID, facetID uuid.UUID) error
}

type FavoriteRepository interface {
	// AddBagList and AddItem are idempotent. Favoriting again replaces the stored share token.
	AddBagList(ctx context.Context, profileID, baglistID uuid.UUID, shareToken string) error
	RemoveBagList(ctx context.Context, profileID, baglistID uuid.UUID) error
	AddItem(ctx context.Context, profileID, itemID uuid.UUID, shareToken string) error
	RemoveItem(ctx context.Context, profileID, itemID uuid.UUID) error
	// ListBagLists preloads the live baglist of each favorite.
	ListBagLists(ctx context.Context, profileID uuid.UUID) ([]*models.FavoriteBagList, error)
	// ListItems preloads each item with its snapshot.
	ListItems(ctx context.Context, profileID uuid.UUID) ([]*models.FavoriteProduct, error)
}
