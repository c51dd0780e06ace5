package services

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanRead(t *testing.T) {
	owner := uuid.New()
	token := "s3cret"
	ownerActor := Actor{AccountID: "owner", ProfileID: owner}
	member := Actor{AccountID: "member", ProfileID: uuid.New()}
	noProfile := Actor{AccountID: "fresh"}
	anonymous := Anonymous()

	list := func(v models.Visibility, deleted bool) models.BagList {
		b := models.BagList{OwnerID: owner, Visibility: v, IsDeleted: deleted}
		if v == models.VisibilityUnlisted {
			b.ShareToken = &token
		}
		return b
	}

	tests := []struct {
		name    string
		baglist models.BagList
		actor   Actor
		token   string
		want    bool
	}{
		{"owner reads private", list(models.VisibilityPrivate, false), ownerActor, "", true},
		{"member cannot read private", list(models.VisibilityPrivate, false), member, "", false},
		{"anyone reads public", list(models.VisibilityPublic, false), anonymous, "", true},
		{"anonymous cannot read registered", list(models.VisibilityRegistered, false), anonymous, "", false},
		{"account without profile reads registered", list(models.VisibilityRegistered, false), noProfile, "", true},
		{"unlisted without token", list(models.VisibilityUnlisted, false), member, "", false},
		{"unlisted with wrong token", list(models.VisibilityUnlisted, false), member, "guess", false},
		{"unlisted with token", list(models.VisibilityUnlisted, false), anonymous, token, true},
		{"owner reads unlisted without token", list(models.VisibilityUnlisted, false), ownerActor, "", true},
		{"deleted public", list(models.VisibilityPublic, true), anonymous, "", false},
		{"owner cannot read deleted", list(models.VisibilityPrivate, true), ownerActor, "", false},
		{"unknown visibility", list("secret", false), member, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.baglist, tt.actor, tt.token))
		})
	}
}

func TestGetBagListByHandleSlug(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	ben := f.member(t, "ben")
	public := f.baglist(t, ana, "Japan Trip", models.VisibilityPublic)
	registered := f.baglist(t, ana, "Office", models.VisibilityRegistered)
	unlisted := f.baglist(t, ana, "Gifts", models.VisibilityUnlisted)
	f.baglist(t, ana, "Diary", models.VisibilityPrivate)

	view, err := f.svc.GetBagListByHandleSlug(f.ctx, Anonymous(), "ana", public.Slug, "")
	require.NoError(t, err)
	assert.Equal(t, public.ID, view.BagList.ID)
	assert.Equal(t, "ana", view.Owner.Handle)
	assert.Equal(t, "https://baglist.test/ana/baglist/japan-trip", view.URL)

	_, err = f.svc.GetBagListByHandleSlug(f.ctx, Anonymous(), "ana", registered.Slug, "")
	requireStatus(t, err, http.StatusNotFound)
	_, err = f.svc.GetBagListByHandleSlug(f.ctx, ben, "ana", registered.Slug, "")
	require.NoError(t, err)

	_, err = f.svc.GetBagListByHandleSlug(f.ctx, ben, "ana", unlisted.Slug, "")
	requireStatus(t, err, http.StatusNotFound)
	_, err = f.svc.GetBagListByHandleSlug(f.ctx, Anonymous(), "ana", unlisted.Slug, *unlisted.ShareToken)
	require.NoError(t, err)

	_, err = f.svc.GetBagListByHandleSlug(f.ctx, ben, "ana", "diary", "")
	requireStatus(t, err, http.StatusNotFound)
	_, err = f.svc.GetBagListByHandleSlug(f.ctx, ana, "ana", "diary", "")
	require.NoError(t, err)

	_, err = f.svc.GetBagListByHandleSlug(f.ctx, ana, "ana", "nope", "")
	requireStatus(t, err, http.StatusNotFound)
	_, err = f.svc.GetBagListByHandleSlug(f.ctx, ana, "nobody", public.Slug, "")
	requireStatus(t, err, http.StatusNotFound)
}

func TestGetBagListByHandleSlug_MatchesHandleCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	trip := f.baglist(t, ana, "Japan Trip", models.VisibilityPublic)

	view, err := f.svc.GetBagListByHandleSlug(f.ctx, Anonymous(), "Ana", "japan-trip", "")
	require.NoError(t, err)
	assert.Equal(t, trip.ID, view.BagList.ID)
}

func TestBagListView_ShareTokenShownToOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	ben := f.member(t, "ben")
	gifts := f.baglist(t, ana, "Gifts", models.VisibilityUnlisted)
	token := *gifts.ShareToken

	view, err := f.svc.GetBagListByHandleSlug(f.ctx, ben, "ana", "gifts", token)
	require.NoError(t, err)
	assert.Empty(t, view.ShareToken)
	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), token)

	view, err = f.svc.GetBagList(f.ctx, ana, gifts.ID, "")
	require.NoError(t, err)
	assert.Equal(t, token, view.ShareToken)

	// a public list carries no token for anyone to scrape
	_, err = f.svc.UpdateBagList(f.ctx, ana, gifts.ID, UpdateBagListInput{Visibility: ptr(models.VisibilityPublic)})
	require.NoError(t, err)
	view, err = f.svc.GetBagListByHandleSlug(f.ctx, Anonymous(), "ana", "gifts", "")
	require.NoError(t, err)
	body, err = json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "share_token")
	assert.NotContains(t, string(body), token)
}

func TestGetBagList_ViewGroupsItemsAndFields(t *testing.T) {
	f := newFixture(t)
	ana := f.member(t, "ana")
	baglist := f.baglist(t, ana, "Japan Trip", models.VisibilityPublic)
	tech := f.section(t, ana, baglist.ID, "Tech")
	clothes := f.section(t, ana, baglist.ID, "Clothes")
	laptop := f.item(t, ana, baglist.ID, &tech.ID, "Laptop")
	f.item(t, ana, baglist.ID, &clothes.ID, "Jacket")
	f.item(t, ana, baglist.ID, nil, "Passport")

	weight, err := f.svc.CreateFieldDef(f.ctx, ana, tech.ID, CreateFieldDefInput{Name: "Weight", Type: models.FieldNumber})
	require.NoError(t, err)
	_, err = f.svc.SetItemFieldValue(f.ctx, ana, laptop.ID, weight.ID, "1.3")
	require.NoError(t, err)

	view, err := f.svc.GetBagList(f.ctx, Anonymous(), baglist.ID, "")
	require.NoError(t, err)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Tech", view.Sections[0].Section.Title)
	assert.Equal(t, "Clothes", view.Sections[1].Section.Title)
	require.Len(t, view.Sections[0].Items, 1)
	assert.Len(t, view.Sections[0].Items[0].FieldValues, 1)
	require.Len(t, view.Sections[1].Items, 1)
	assert.Empty(t, view.Sections[1].Items[0].FieldValues)
	require.Len(t, view.Unsectioned, 1)
	assert.Equal(t, "Passport", view.Unsectioned[0].Title)

	// a value for another section's field stays stored but is not shown
	_, err = f.svc.AttachItemToSection(f.ctx, ana, clothes.ID, laptop.ID)
	require.NoError(t, err)
	view, err = f.svc.GetBagList(f.ctx, Anonymous(), baglist.ID, "")
	require.NoError(t, err)
	require.Len(t, view.Sections[1].Items, 2)
	for _, item := range view.Sections[1].Items {
		assert.Empty(t, item.FieldValues)
	}

	f.store.FailOn("tags.ListByBagList", assert.AnError)
	_, err = f.svc.GetBagList(f.ctx, Anonymous(), baglist.ID, "")
	requireStatus(t, err, http.StatusInternalServerError)
}
