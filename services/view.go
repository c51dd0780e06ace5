package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"golang.org/x/sync/errgroup"
)

// ItemView is an item as shown to readers: its snapshot, display title and the values of
// the fields defined on its current section.
type ItemView struct {
	*models.BagListItem
	Title       string                          `json:"title"`
	FieldValues []*models.BagListItemFieldValue `json:"field_values"`
}

type SectionView struct {
	Section *models.BagListSection `json:"section"`
	Items   []ItemView             `json:"items"`
}

// BagListView is the read model of one list. ShareToken is filled for the owner only.
type BagListView struct {
	BagList     *models.BagList             `json:"baglist"`
	Owner       *models.Profile             `json:"owner"`
	Sections    []SectionView               `json:"sections"`
	Unsectioned []ItemView                  `json:"unsectioned_items"`
	Tags        []*models.Tag               `json:"tags"`
	Facets      []*models.BagListFacetValue `json:"facets"`
	URL         string                      `json:"url,omitempty"`
	ShareToken  string                      `json:"share_token,omitempty"`
}

// ownerShareToken returns the list's share token when actor owns it, and "" otherwise.
func ownerShareToken(baglist models.BagList, actor Actor) string {
	if baglist.ShareToken == nil || !actor.HasProfile() || !baglist.IsOwnedBy(actor.ProfileID) {
		return ""
	}
	return *baglist.ShareToken
}

// GetBagListByHandleSlug returns the read view of handle's list slug when actor may read it.
// Lists the actor may not read are reported as not found.
func (s *Service) GetBagListByHandleSlug(ctx context.Context, actor Actor, handle, slug, token string) (*BagListView, error) {
	profile, err := s.store.Profiles().FindByHandle(ctx, normalizeHandle(handle))
	if isMissing(err) {
		return nil, notFound("baglist")
	}
	if err != nil {
		return nil, dbErr("find", "profile", err)
	}
	baglist, err := s.store.BagLists().FindByOwnerSlug(ctx, profile.ID, slug)
	if isMissing(err) {
		return nil, notFound("baglist")
	}
	if err != nil {
		return nil, dbErr("find", "baglist", err)
	}
	if !CanRead(*baglist, actor, token) {
		return nil, notFound("baglist")
	}
	return s.loadView(ctx, actor, baglist)
}

// GetBagList returns the read view of a list by id when actor may read it.
func (s *Service) GetBagList(ctx context.Context, actor Actor, id uuid.UUID, token string) (*BagListView, error) {
	baglist, err := s.readableBagList(ctx, s.store, actor, id, token)
	if err != nil {
		return nil, err
	}
	return s.loadView(ctx, actor, baglist)
}

func (s *Service) readableBagList(ctx context.Context, store database.Store, actor Actor, id uuid.UUID, token string) (*models.BagList, error) {
	baglist, err := store.BagLists().FindByID(ctx, id)
	if isMissing(err) {
		return nil, notFound("baglist")
	}
	if err != nil {
		return nil, dbErr("find", "baglist", err)
	}
	if !CanRead(*baglist, actor, token) {
		return nil, notFound("baglist")
	}
	return baglist, nil
}

// loadView loads the list's children concurrently. Field definitions and values depend on
// the section and item ids, so they are loaded in a second round.
func (s *Service) loadView(ctx context.Context, actor Actor, baglist *models.BagList) (*BagListView, error) {
	var (
		owner    *models.Profile
		sections []*models.BagListSection
		items    []*models.BagListItem
		tags     []*models.Tag
		facets   []*models.BagListFacetValue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		owner, err = s.store.Profiles().FindByID(gctx, baglist.OwnerID)
		return wrapLoad("owner", err)
	})
	g.Go(func() (err error) {
		sections, err = s.store.Sections().ListByBagList(gctx, baglist.ID)
		return wrapLoad("sections", err)
	})
	g.Go(func() (err error) {
		items, err = s.store.Items().ListByBagList(gctx, baglist.ID)
		return wrapLoad("items", err)
	})
	g.Go(func() (err error) {
		tags, err = s.store.Tags().ListByBagList(gctx, baglist.ID)
		return wrapLoad("tags", err)
	})
	g.Go(func() (err error) {
		facets, err = s.store.Facets().ListValuesByBagList(gctx, baglist.ID)
		return wrapLoad("facets", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		defs   []*models.SectionFieldDef
		values []*models.BagListItemFieldValue
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defs, err = s.store.Fields().ListDefsBySections(gctx, sectionIDs(sections))
		return wrapLoad("field definitions", err)
	})
	g.Go(func() (err error) {
		values, err = s.store.Fields().ListValuesByItems(gctx, itemIDs(items))
		return wrapLoad("field values", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := assembleView(baglist, owner, sections, items, defs, values)
	view.Tags = tags
	view.Facets = facets
	view.ShareToken = ownerShareToken(*baglist, actor)
	if s.urls.BaseURL != "" {
		view.URL = s.urls.BagListURL(owner.Handle, baglist.Slug)
	}
	return view, nil
}

func wrapLoad(entity string, err error) error {
	if err != nil {
		return errs.NewDatabaseError("load", entity, err)
	}
	return nil
}

// assembleView groups items under their sections. Values stored for fields of a section the
// item is no longer in are kept in the database but not shown.
func assembleView(baglist *models.BagList, owner *models.Profile, sections []*models.BagListSection,
	items []*models.BagListItem, defs []*models.SectionFieldDef, values []*models.BagListItemFieldValue) *BagListView {

	defSection := make(map[uuid.UUID]uuid.UUID, len(defs))
	defsBySection := make(map[uuid.UUID][]models.SectionFieldDef)
	for _, d := range defs {
		defSection[d.ID] = d.SectionID
		defsBySection[d.SectionID] = append(defsBySection[d.SectionID], *d)
	}
	valuesByItem := make(map[uuid.UUID][]*models.BagListItemFieldValue)
	for _, v := range values {
		valuesByItem[v.ItemID] = append(valuesByItem[v.ItemID], v)
	}

	view := &BagListView{
		BagList:     baglist,
		Owner:       owner,
		Sections:    make([]SectionView, 0, len(sections)),
		Unsectioned: make([]ItemView, 0),
	}
	index := make(map[uuid.UUID]int, len(sections))
	for i, section := range sections {
		section.Fields = defsBySection[section.ID]
		index[section.ID] = i
		view.Sections = append(view.Sections, SectionView{Section: section, Items: make([]ItemView, 0)})
	}

	for _, item := range items {
		iv := ItemView{BagListItem: item, Title: item.DisplayTitle(), FieldValues: make([]*models.BagListItemFieldValue, 0)}
		if item.SectionID == nil {
			view.Unsectioned = append(view.Unsectioned, iv)
			continue
		}
		for _, v := range valuesByItem[item.ID] {
			if defSection[v.FieldID] == *item.SectionID {
				iv.FieldValues = append(iv.FieldValues, v)
			}
		}
		i, ok := index[*item.SectionID]
		if !ok {
			view.Unsectioned = append(view.Unsectioned, iv)
			continue
		}
		view.Sections[i].Items = append(view.Sections[i].Items, iv)
	}
	return view
}
