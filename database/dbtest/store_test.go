package dbtest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/database/dbtest"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedProfile(t *testing.T, store database.Store, handle string) *models.Profile {
	t.Helper()
	profile := &models.Profile{AccountID: "acct-" + handle, Handle: handle, DisplayName: handle, Links: datatypes.JSONMap{}}
	require.NoError(t, store.Profiles().Add(context.Background(), profile))
	return profile
}

func seedBagList(t *testing.T, store database.Store, owner uuid.UUID, slug string) *models.BagList {
	t.Helper()
	baglist := &models.BagList{OwnerID: owner, Title: slug, Slug: slug, Visibility: models.VisibilityPublic, AllowForks: true}
	require.NoError(t, store.BagLists().Add(context.Background(), baglist))
	return baglist
}

func seedSection(t *testing.T, store database.Store, baglistID uuid.UUID, title string) *models.BagListSection {
	t.Helper()
	ctx := context.Background()
	pos, err := store.Sections().NextPosition(ctx, baglistID)
	require.NoError(t, err)
	section := &models.BagListSection{BagListID: baglistID, Title: title, Position: pos}
	require.NoError(t, store.Sections().Add(ctx, section))
	return section
}

func seedItem(t *testing.T, store database.Store, baglistID uuid.UUID, sectionID *uuid.UUID) *models.BagListItem {
	t.Helper()
	ctx := context.Background()
	pos, err := store.Items().NextPosition(ctx, baglistID)
	require.NoError(t, err)
	item := &models.BagListItem{BagListID: baglistID, SectionID: sectionID, Position: pos}
	require.NoError(t, store.Items().Add(ctx, item))
	return item
}

func TestProfiles_HandleIsUnique(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")

	err := store.Profiles().Add(ctx, &models.Profile{AccountID: "acct-other", Handle: "ana", DisplayName: "Other"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	ana.DisplayName = "Ana Lima"
	require.NoError(t, store.Profiles().Update(ctx, ana))

	found, err := store.Profiles().FindByHandle(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", found.DisplayName)

	_, err = store.Profiles().FindByHandle(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBagLists_SlugIsUniquePerOwner(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	bo := seedProfile(t, store, "bo")
	seedBagList(t, store, ana.ID, "japan-trip")

	err := store.BagLists().Add(ctx, &models.BagList{OwnerID: ana.ID, Title: "Again", Slug: "japan-trip", Visibility: models.VisibilityPrivate})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	seedBagList(t, store, bo.ID, "japan-trip")

	slugs, err := store.BagLists().SlugsWithPrefix(ctx, ana.ID, "japan")
	require.NoError(t, err)
	assert.Equal(t, []string{"japan-trip"}, slugs)
}

func TestBagLists_UnknownOwnerIsRejected(t *testing.T) {
	store := dbtest.New(t)

	err := store.BagLists().Add(context.Background(), &models.BagList{OwnerID: uuid.New(), Title: "Orphan", Slug: "orphan", Visibility: models.VisibilityPrivate})
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestBagLists_FindByIDForUpdateInsideTransaction(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")

	err := store.Transaction(ctx, func(tx database.Store) error {
		locked, err := tx.BagLists().FindByIDForUpdate(ctx, baglist.ID)
		if err != nil {
			return err
		}
		locked.Title = "Locked"
		return tx.BagLists().Update(ctx, locked)
	})
	require.NoError(t, err)

	found, err := store.BagLists().FindByID(ctx, baglist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Locked", found.Title)
}

func TestSections_PositionsAreUniqueAndRenumbered(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")

	a := seedSection(t, store, baglist.ID, "A")
	b := seedSection(t, store, baglist.ID, "B")
	c := seedSection(t, store, baglist.ID, "C")
	assert.Equal(t, []int{0, 1, 2}, []int{a.Position, b.Position, c.Position})

	err := store.Sections().Add(ctx, &models.BagListSection{BagListID: baglist.ID, Title: "Clash", Position: 1})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, store.Sections().Renumber(ctx, baglist.ID, []uuid.UUID{c.ID, a.ID, b.ID}))

	sections, err := store.Sections().ListByBagList(ctx, baglist.ID)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, []uuid.UUID{sections[0].ID, sections[1].ID, sections[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{sections[0].Position, sections[1].Position, sections[2].Position})
}

func TestSections_RenumberWithUnknownIDLeavesOrderAlone(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")
	a := seedSection(t, store, baglist.ID, "A")
	b := seedSection(t, store, baglist.ID, "B")

	err := store.Sections().Renumber(ctx, baglist.ID, []uuid.UUID{b.ID, uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sections, err := store.Sections().ListByBagList(ctx, baglist.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, a.ID, sections[0].ID)
	assert.Equal(t, 0, sections[0].Position)
	assert.Equal(t, b.ID, sections[1].ID)
	assert.Equal(t, 1, sections[1].Position)
}

func TestSections_DeleteDetachesItems(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")
	section := seedSection(t, store, baglist.ID, "Clothes")
	item := seedItem(t, store, baglist.ID, &section.ID)

	def := &models.SectionFieldDef{SectionID: section.ID, Name: "Note", Key: "note", Type: models.FieldText, EnumOptions: datatypes.JSONSlice[string]{}}
	require.NoError(t, store.Fields().AddDef(ctx, def))
	value := &models.BagListItemFieldValue{ItemID: item.ID, FieldID: def.ID}
	value.Set(models.TextValue("wool"))
	require.NoError(t, store.Fields().SaveValue(ctx, value))

	require.NoError(t, store.Sections().Delete(ctx, section.ID))

	found, err := store.Items().FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, found.SectionID)

	_, err = store.Fields().FindDef(ctx, def.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Fields().FindValue(ctx, item.ID, def.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, store.Sections().Delete(ctx, section.ID), gorm.ErrRecordNotFound)
}

func TestFields_SaveValueReplacesInPlace(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")
	section := seedSection(t, store, baglist.ID, "Gear")
	item := seedItem(t, store, baglist.ID, &section.ID)
	def := &models.SectionFieldDef{SectionID: section.ID, Name: "Weight", Key: "weight", Type: models.FieldNumber, Unit: "g", EnumOptions: datatypes.JSONSlice[string]{}}
	require.NoError(t, store.Fields().AddDef(ctx, def))

	first := &models.BagListItemFieldValue{ItemID: item.ID, FieldID: def.ID}
	first.Set(models.NumberValue(decimal.NewFromInt(250)))
	require.NoError(t, store.Fields().SaveValue(ctx, first))

	second := &models.BagListItemFieldValue{ItemID: item.ID, FieldID: def.ID}
	second.Set(models.NumberValue(decimal.RequireFromString("312.5")))
	require.NoError(t, store.Fields().SaveValue(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	count, err := store.Fields().CountValues(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := store.Fields().FindValue(ctx, item.ID, def.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("312.5").Equal(found.Get().Number()))
}

func TestFields_SaveValueRejectsMixedColumns(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")
	section := seedSection(t, store, baglist.ID, "Gear")
	item := seedItem(t, store, baglist.ID, &section.ID)
	def := &models.SectionFieldDef{SectionID: section.ID, Name: "Note", Key: "note", Type: models.FieldText, EnumOptions: datatypes.JSONSlice[string]{}}
	require.NoError(t, store.Fields().AddDef(ctx, def))

	value := &models.BagListItemFieldValue{ItemID: item.ID, FieldID: def.ID, Kind: models.FieldText, ValueText: "wool", ValueEnum: "cotton"}
	assert.Error(t, store.Fields().SaveValue(ctx, value))

	_, err := store.Fields().FindValue(ctx, item.ID, def.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSnapshots_SaveReplacesInPlace(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")
	item := seedItem(t, store, baglist.ID, nil)

	first := &models.BagListItemProductSnapshot{ItemID: item.ID, SnapTitle: "Rain jacket", ExtraLinks: datatypes.JSON(`[]`)}
	require.NoError(t, store.Snapshots().Save(ctx, first))

	price := decimal.RequireFromString("89.90")
	second := &models.BagListItemProductSnapshot{ItemID: item.ID, SnapTitle: "Rain jacket v2", SnapPriceAmount: &price, SnapPriceCurrency: "EUR", ExtraLinks: datatypes.JSON(`[]`)}
	require.NoError(t, store.Snapshots().Save(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	found, err := store.Items().FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Snapshot)
	assert.Equal(t, "Rain jacket v2", found.Snapshot.SnapTitle)
	require.NotNil(t, found.Snapshot.SnapPriceAmount)
	assert.True(t, price.Equal(*found.Snapshot.SnapPriceAmount))
}

func TestFavorites_AddIsIdempotentAndKeepsLatestToken(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	bo := seedProfile(t, store, "bo")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")

	require.NoError(t, store.Favorites().AddBagList(ctx, bo.ID, baglist.ID, "token-1"))
	require.NoError(t, store.Favorites().AddBagList(ctx, bo.ID, baglist.ID, "token-2"))

	favorites, err := store.Favorites().ListBagLists(ctx, bo.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "token-2", favorites[0].ShareToken)
	require.NotNil(t, favorites[0].BagList)
	assert.Equal(t, "japan-trip", favorites[0].BagList.Slug)

	baglist.IsDeleted = true
	require.NoError(t, store.BagLists().Update(ctx, baglist))

	favorites, err = store.Favorites().ListBagLists(ctx, bo.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFavorites_ListItemsPreloadsSnapshot(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	bo := seedProfile(t, store, "bo")
	baglist := seedBagList(t, store, ana.ID, "japan-trip")
	item := seedItem(t, store, baglist.ID, nil)
	require.NoError(t, store.Snapshots().Save(ctx, &models.BagListItemProductSnapshot{ItemID: item.ID, SnapTitle: "Rain jacket", ExtraLinks: datatypes.JSON(`[]`)}))

	require.NoError(t, store.Favorites().AddItem(ctx, bo.ID, item.ID, ""))
	require.NoError(t, store.Favorites().AddItem(ctx, bo.ID, item.ID, ""))

	favorites, err := store.Favorites().ListItems(ctx, bo.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	require.NotNil(t, favorites[0].Item)
	require.NotNil(t, favorites[0].Item.Snapshot)
	assert.Equal(t, "Rain jacket", favorites[0].Item.Snapshot.SnapTitle)

	require.NoError(t, store.Favorites().RemoveItem(ctx, bo.ID, item.ID))
	favorites, err = store.Favorites().ListItems(ctx, bo.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestBagLists_PurgeRemovesEverythingHangingOffTheList(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	require.NoError(t, database.SeedFacets(ctx, store))

	ana := seedProfile(t, store, "ana")
	bo := seedProfile(t, store, "bo")
	doomed := seedBagList(t, store, ana.ID, "japan-trip")
	kept := seedBagList(t, store, ana.ID, "lisbon-weekend")

	section := seedSection(t, store, doomed.ID, "Clothes")
	item := seedItem(t, store, doomed.ID, &section.ID)
	require.NoError(t, store.Snapshots().Save(ctx, &models.BagListItemProductSnapshot{ItemID: item.ID, SnapTitle: "Rain jacket", ExtraLinks: datatypes.JSON(`[]`)}))
	def := &models.SectionFieldDef{SectionID: section.ID, Name: "Color", Key: "color", Type: models.FieldEnum, EnumOptions: datatypes.JSONSlice[string]{"red", "blue"}}
	require.NoError(t, store.Fields().AddDef(ctx, def))
	value := &models.BagListItemFieldValue{ItemID: item.ID, FieldID: def.ID}
	value.Set(models.EnumValue("red"))
	require.NoError(t, store.Fields().SaveValue(ctx, value))

	tag := &models.Tag{OwnerID: ana.ID, Name: "Asia", Slug: "asia"}
	require.NoError(t, store.Tags().Add(ctx, tag))
	require.NoError(t, store.Tags().Attach(ctx, doomed.ID, tag.ID))
	require.NoError(t, store.Tags().Attach(ctx, kept.ID, tag.ID))

	country, err := store.Facets().FindFacetByKey(ctx, models.FacetCountry)
	require.NoError(t, err)
	japan, err := store.Facets().FindOption(ctx, country.ID, "JP")
	require.NoError(t, err)
	require.NoError(t, store.Facets().AddValue(ctx, &models.BagListFacetValue{BagListID: doomed.ID, FacetID: country.ID, OptionID: &japan.ID}))

	require.NoError(t, store.Favorites().AddBagList(ctx, bo.ID, doomed.ID, ""))
	require.NoError(t, store.Favorites().AddBagList(ctx, bo.ID, kept.ID, ""))
	require.NoError(t, store.Favorites().AddItem(ctx, bo.ID, item.ID, ""))

	require.NoError(t, store.BagLists().Purge(ctx, doomed.ID))

	_, err = store.BagLists().FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Sections().FindByID(ctx, section.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Items().FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Snapshots().FindByItemID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Fields().FindDef(ctx, def.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Fields().FindValue(ctx, item.ID, def.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	facetValues, err := store.Facets().ListValuesByBagList(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, facetValues)

	items, err := store.Favorites().ListItems(ctx, bo.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	favorites, err := store.Favorites().ListBagLists(ctx, bo.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, kept.ID, favorites[0].BagListID)

	tags, err := store.Tags().ListByBagList(ctx, kept.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, tag.ID, tags[0].ID)

	assert.ErrorIs(t, store.BagLists().Purge(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx database.Store) error {
		seedProfile(t, tx, "ana")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Profiles().FindByHandle(ctx, "ana")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFailOn(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	ana := seedProfile(t, store, "ana")
	boom := errors.New("boom")

	store.FailOn("profiles.FindByID", boom)
	_, err := store.Profiles().FindByID(ctx, ana.ID)
	assert.ErrorIs(t, err, boom)

	err = store.Transaction(ctx, func(tx database.Store) error {
		_, err := tx.Profiles().FindByID(ctx, ana.ID)
		return err
	})
	assert.ErrorIs(t, err, boom)

	store.FailOn("profiles.FindByID", nil)
	found, err := store.Profiles().FindByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", found.Handle)

	require.NoError(t, store.Ping(ctx))
	store.FailOn("store.Ping", boom)
	assert.ErrorIs(t, store.Ping(ctx), boom)

	store.FailOn("store.Transaction", boom)
	called := false
	err = store.Transaction(ctx, func(database.Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
