package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemTitles(t *testing.T, f *fixture, baglistID uuid.UUID) []string {
	t.Helper()
	items, err := f.store.Items().ListByBagList(f.ctx, baglistID)
	require.NoError(t, err)
	titles := make([]string, len(items))
	for i, item := range items {
		require.Equal(t, i, item.Position, "positions must stay dense")
		titles[i] = item.DisplayTitle()
	}
	return titles
}

func TestCreateItem(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	baglist := f.baglist(t, ana, "Japan Trip", "")
	tech := f.section(t, ana, baglist.ID, "Tech")

	laptop := f.item(t, ana, baglist.ID, &tech.ID, " Laptop ")
	charger := f.item(t, ana, baglist.ID, nil, "Charger")

	assert.Equal(t, "Laptop", laptop.CustomTitle)
	assert.True(t, laptop.InSection(tech.ID))
	assert.Equal(t, 0, laptop.Position)
	assert.Nil(t, charger.SectionID)
	assert.Equal(t, 1, charger.Position)

	_, err := f.svc.CreateItem(f.ctx, ana, baglist.ID, CreateItemInput{Position: ptr(1)})
	requireStatus(t, err, http.StatusConflict)
	_, err = f.svc.CreateItem(f.ctx, ana, baglist.ID, CreateItemInput{Position: ptr(5)})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCreateItem_SectionOfAnotherList(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	trip := f.baglist(t, ana, "Japan Trip", "")
	office := f.baglist(t, ana, "Office", "")
	desk := f.section(t, ana, office.ID, "Desk")

	_, err := f.svc.CreateItem(f.ctx, ana, trip.ID, CreateItemInput{SectionID: &desk.ID})
	apiErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "section not found", apiErr.Message())

	_, err = f.svc.CreateItem(f.ctx, ana, trip.ID, CreateItemInput{SectionID: ptr(uuid.New())})
	requireStatus(t, err, http.StatusNotFound)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	ben := f.member(t, "ben")
	baglist := f.baglist(t, ana, "Japan Trip", "")
	item := f.item(t, ana, baglist.ID, nil, "Laptop")

	updated, err := f.svc.UpdateItem(f.ctx, ana, item.ID, UpdateItemInput{Note: ptr("Work laptop"), Pin: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Work laptop", updated.Note)
	assert.True(t, updated.Pin)
	assert.Equal(t, "Laptop", updated.CustomTitle)

	_, err = f.svc.UpdateItem(f.ctx, ben, item.ID, UpdateItemInput{Note: ptr("mine")})
	requireStatus(t, err, http.StatusNotFound)
}

func TestMoveItem(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	baglist := f.baglist(t, ana, "Japan Trip", "")
	f.item(t, ana, baglist.ID, nil, "Laptop")
	f.item(t, ana, baglist.ID, nil, "Charger")
	passport := f.item(t, ana, baglist.ID, nil, "Passport")

	moved, err := f.svc.MoveItem(f.ctx, ana, passport.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)
	assert.Equal(t, []string{"Passport", "Laptop", "Charger"}, itemTitles(t, f, baglist.ID))

	moved, err = f.svc.MoveItem(f.ctx, ana, passport.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)
}

func TestAttachItemToSection(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	baglist := f.baglist(t, ana, "Japan Trip", "")
	tech := f.section(t, ana, baglist.ID, "Tech")
	item := f.item(t, ana, baglist.ID, nil, "Laptop")

	attached, err := f.svc.AttachItemToSection(f.ctx, ana, tech.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, attached.InSection(tech.ID))

	// attaching again is a no-op
	attached, err = f.svc.AttachItemToSection(f.ctx, ana, tech.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, attached.InSection(tech.ID))

	stored, err := f.store.Items().FindByID(f.ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.InSection(tech.ID))
}

func TestAttachItemToSection_CrossOwnerLeavesItemUntouched(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	ben := f.member(t, "ben")
	anaList := f.baglist(t, ana, "Japan Trip", models.VisibilityPublic)
	anaSection := f.section(t, ana, anaList.ID, "Tech")
	benList := f.baglist(t, ben, "Office", models.VisibilityPublic)
	benItem := f.item(t, ben, benList.ID, nil, "Monitor")

	_, err := f.svc.AttachItemToSection(f.ctx, ana, anaSection.ID, benItem.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = f.svc.AttachItemToSection(f.ctx, ben, anaSection.ID, benItem.ID)
	requireStatus(t, err, http.StatusNotFound)

	stored, err := f.store.Items().FindByID(f.ctx, benItem.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SectionID)
	assert.Equal(t, benList.ID, stored.BagListID)
}

func TestAttachItemToSection_DifferentListsOfSameOwner(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	trip := f.baglist(t, ana, "Japan Trip", "")
	office := f.baglist(t, ana, "Office", "")
	desk := f.section(t, ana, office.ID, "Desk")
	item := f.item(t, ana, trip.ID, nil, "Laptop")

	_, err := f.svc.AttachItemToSection(f.ctx, ana, desk.ID, item.ID)
	apiErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "section not found", apiErr.Message())
}

func TestDetachItemFromSection(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	baglist := f.baglist(t, ana, "Japan Trip", "")
	tech := f.section(t, ana, baglist.ID, "Tech")
	clothes := f.section(t, ana, baglist.ID, "Clothes")
	item := f.item(t, ana, baglist.ID, &tech.ID, "Laptop")

	_, err := f.svc.DetachItemFromSection(f.ctx, ana, clothes.ID, item.ID)
	apiErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "item not found in section", apiErr.Message())

	detached, err := f.svc.DetachItemFromSection(f.ctx, ana, tech.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.SectionID)

	stored, err := f.store.Items().FindByID(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SectionID)
}

func TestDeleteItem_Compacts(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	baglist := f.baglist(t, ana, "Japan Trip", "")
	laptop := f.item(t, ana, baglist.ID, nil, "Laptop")
	f.item(t, ana, baglist.ID, nil, "Charger")
	f.item(t, ana, baglist.ID, nil, "Passport")

	require.NoError(t, f.svc.DeleteItem(f.ctx, ana, laptop.ID))

	assert.Equal(t, []string{"Charger", "Passport"}, itemTitles(t, f, baglist.ID))
	requireStatus(t, f.svc.DeleteItem(f.ctx, ana, laptop.ID), http.StatusNotFound)
}
