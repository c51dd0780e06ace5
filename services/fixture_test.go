package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/database/dbtest"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	store *dbtest.Store
	svc   *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store := dbtest.New(t)
	require.NoError(t, database.SeedFacets(ctx, store))

	n := 0
	base := []Option{
		WithURLBuilder(URLBuilder{BaseURL: "https://baglist.test"}),
		WithTokenGenerator(func() (string, error) {
			n++
			return fmt.Sprintf("token-%d", n), nil
		}),
		WithClock(func() time.Time { return fixedNow }),
	}
	return &fixture{ctx: ctx, store: store, svc: New(store, append(base, opts...)...)}
}

// member creates a profile for handle and returns the actor signed in as it.
func (f *fixture) member(t *testing.T, handle string) Actor {
	t.Helper()
	account := "account-" + handle
	profile, err := f.svc.CreateProfile(f.ctx, Actor{AccountID: account}, CreateProfileInput{
		Handle:      handle,
		DisplayName: handle,
	})
	require.NoError(t, err)
	return Actor{AccountID: account, ProfileID: profile.ID}
}

func (f *fixture) baglist(t *testing.T, actor Actor, title string, visibility models.Visibility) *models.BagList {
	t.Helper()
	baglist, err := f.svc.CreateBagList(f.ctx, actor, CreateBagListInput{Title: title, Visibility: visibility})
	require.NoError(t, err)
	return baglist
}

func (f *fixture) section(t *testing.T, actor Actor, baglistID uuid.UUID, title string) *models.BagListSection {
	t.Helper()
	section, err := f.svc.CreateSection(f.ctx, actor, baglistID, CreateSectionInput{Title: title})
	require.NoError(t, err)
	return section
}

func (f *fixture) item(t *testing.T, actor Actor, baglistID uuid.UUID, sectionID *uuid.UUID, title string) *models.BagListItem {
	t.Helper()
	item, err := f.svc.CreateItem(f.ctx, actor, baglistID, CreateItemInput{SectionID: sectionID, CustomTitle: title})
	require.NoError(t, err)
	return item
}

func requireStatus(t *testing.T, err error, status int) *errs.ApiErr {
	t.Helper()
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.StatusCode, apiErr.GetFullError())
	return apiErr
}

func ptr[T any](v T) *T {
	return &v
}
