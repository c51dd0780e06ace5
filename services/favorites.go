package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
)

type Favorites struct {
	BagLists []*models.BagList     `json:"baglists"`
	Items    []*models.BagListItem `json:"items"`
}

// grantedToken is the share token worth keeping with a favorite: the one that opened an
// unlisted list for someone other than its owner.
func grantedToken(baglist models.BagList, actor Actor, token string) string {
	if baglist.Visibility != models.VisibilityUnlisted || baglist.IsOwnedBy(actor.ProfileID) {
		return ""
	}
	return token
}

// FavoriteBagList records that actor likes a list it can read. Favoriting twice is a no-op.
func (s *Service) FavoriteBagList(ctx context.Context, actor Actor, baglistID uuid.UUID, token string) error {
	if err := actor.requireProfile(); err != nil {
		return err
	}
	baglist, err := s.readableBagList(ctx, s.store, actor, baglistID, token)
	if err != nil {
		return err
	}
	if err := s.store.Favorites().AddBagList(ctx, actor.ProfileID, baglistID, grantedToken(*baglist, actor, token)); err != nil {
		return dbErr("favorite", "baglist", err)
	}
	return nil
}

func (s *Service) UnfavoriteBagList(ctx context.Context, actor Actor, baglistID uuid.UUID) error {
	if err := actor.requireProfile(); err != nil {
		return err
	}
	if err := s.store.Favorites().RemoveBagList(ctx, actor.ProfileID, baglistID); err != nil {
		return dbErr("unfavorite", "baglist", err)
	}
	return nil
}

// FavoriteItem records that actor likes an item of a list it can read.
func (s *Service) FavoriteItem(ctx context.Context, actor Actor, itemID uuid.UUID, token string) error {
	if err := actor.requireProfile(); err != nil {
		return err
	}
	item, err := s.store.Items().FindByID(ctx, itemID)
	if isMissing(err) {
		return notFound("item")
	}
	if err != nil {
		return dbErr("find", "item", err)
	}
	baglist, err := s.readableBagList(ctx, s.store, actor, item.BagListID, token)
	if err != nil {
		return notFound("item")
	}
	if err := s.store.Favorites().AddItem(ctx, actor.ProfileID, itemID, grantedToken(*baglist, actor, token)); err != nil {
		return dbErr("favorite", "item", err)
	}
	return nil
}

func (s *Service) UnfavoriteItem(ctx context.Context, actor Actor, itemID uuid.UUID) error {
	if err := actor.requireProfile(); err != nil {
		return err
	}
	if err := s.store.Favorites().RemoveItem(ctx, actor.ProfileID, itemID); err != nil {
		return dbErr("unfavorite", "item", err)
	}
	return nil
}

// ListFavorites returns actor's favorites, hiding lists and items that are no longer readable.
// Unlisted lists are checked against the share token stored with each favorite, so rotating
// the token or leaving and re-entering unlisted revokes them.
func (s *Service) ListFavorites(ctx context.Context, actor Actor) (*Favorites, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	baglists, err := s.store.Favorites().ListBagLists(ctx, actor.ProfileID)
	if err != nil {
		return nil, dbErr("list", "favorite baglists", err)
	}
	items, err := s.store.Favorites().ListItems(ctx, actor.ProfileID)
	if err != nil {
		return nil, dbErr("list", "favorite items", err)
	}

	out := &Favorites{
		BagLists: make([]*models.BagList, 0, len(baglists)),
		Items:    make([]*models.BagListItem, 0, len(items)),
	}
	for _, fav := range baglists {
		if fav.BagList != nil && CanRead(*fav.BagList, actor, fav.ShareToken) {
			out.BagLists = append(out.BagLists, fav.BagList)
		}
	}

	parents := make(map[uuid.UUID]*models.BagList)
	for _, fav := range items {
		if fav.Item == nil {
			continue
		}
		parent, seen := parents[fav.Item.BagListID]
		if !seen {
			parent, err = s.store.BagLists().FindByID(ctx, fav.Item.BagListID)
			if err != nil && !isMissing(err) {
				return nil, dbErr("find", "baglist", err)
			}
			parents[fav.Item.BagListID] = parent
		}
		if parent != nil && CanRead(*parent, actor, fav.ShareToken) {
			out.Items = append(out.Items, fav.Item)
		}
	}
	return out, nil
}
