package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
)

type CreateItemInput struct {
	SectionID   *uuid.UUID `json:"section_id"`
	Position    *int       `json:"position" validate:"omitempty,gte=0"`
	Note        string     `json:"note" validate:"max=5000"`
	Pin         bool       `json:"pin"`
	CustomTitle string     `json:"custom_title" validate:"max=200"`
}

type UpdateItemInput struct {
	Note        *string `json:"note" validate:"omitempty,max=5000"`
	Pin         *bool   `json:"pin"`
	CustomTitle *string `json:"custom_title" validate:"omitempty,max=200"`
}

// CreateItem adds an item to one of actor's lists, optionally inside one of its sections.
func (s *Service) CreateItem(ctx context.Context, actor Actor, baglistID uuid.UUID, in CreateItemInput) (*models.BagListItem, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	item := &models.BagListItem{
		BagListID:   baglistID,
		SectionID:   in.SectionID,
		Note:        in.Note,
		Pin:         in.Pin,
		CustomTitle: strings.TrimSpace(in.CustomTitle),
	}
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := lockOwnedBagList(ctx, tx, actor, baglistID); err != nil {
			return err
		}
		if in.SectionID != nil {
			section, err := tx.Sections().FindByID(ctx, *in.SectionID)
			if isMissing(err) || (err == nil && section.BagListID != baglistID) {
				return notFound("section")
			}
			if err != nil {
				return dbErr("find", "section", err)
			}
		}
		next, err := tx.Items().NextPosition(ctx, baglistID)
		if err != nil {
			return dbErr("find", "item position", err)
		}
		if item.Position, err = insertPosition(in.Position, next); err != nil {
			return err
		}
		if err := tx.Items().Add(ctx, item); err != nil {
			return dbErr("create", "item", positionConflict(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update to an item of one of actor's lists.
func (s *Service) UpdateItem(ctx context.Context, actor Actor, id uuid.UUID, in UpdateItemInput) (*models.BagListItem, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	item, _, err := ownedItem(ctx, s.store, actor, id, false)
	if err != nil {
		return nil, err
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	if in.Pin != nil {
		item.Pin = *in.Pin
	}
	if in.CustomTitle != nil {
		item.CustomTitle = strings.TrimSpace(*in.CustomTitle)
	}
	if err := s.store.Items().Update(ctx, item); err != nil {
		return nil, dbErr("update", "item", err)
	}
	return item, nil
}

// MoveItem moves an item to position within its list, clamped, shifting its siblings.
func (s *Service) MoveItem(ctx context.Context, actor Actor, id uuid.UUID, position int) (*models.BagListItem, error) {
	var moved *models.BagListItem
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		item, baglist, err := ownedItem(ctx, tx, actor, id, true)
		if err != nil {
			return err
		}
		siblings, err := tx.Items().ListByBagList(ctx, baglist.ID)
		if err != nil {
			return dbErr("list", "items", err)
		}
		order, final := moveTo(itemIDs(siblings), item.ID, position)
		if final != item.Position {
			if err := tx.Items().Renumber(ctx, baglist.ID, order); err != nil {
				return dbErr("move", "item", err)
			}
		}
		item.Position = final
		moved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// AttachItemToSection places an item in a section. Both must belong to the same list of actor;
// anything else is reported as not found and changes nothing.
func (s *Service) AttachItemToSection(ctx context.Context, actor Actor, sectionID, itemID uuid.UUID) (*models.BagListItem, error) {
	var attached *models.BagListItem
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		section, _, err := ownedSection(ctx, tx, actor, sectionID, false)
		if err != nil {
			return err
		}
		item, _, err := ownedItem(ctx, tx, actor, itemID, false)
		if err != nil {
			return err
		}
		if item.BagListID != section.BagListID {
			return notFound("section")
		}
		if item.InSection(section.ID) {
			attached = item
			return nil
		}
		if err := tx.Items().SetSection(ctx, item.ID, &section.ID); err != nil {
			return dbErr("update", "item", err)
		}
		id := section.ID
		item.SectionID = &id
		attached = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attached, nil
}

// DetachItemFromSection takes an item out of the section it is in. The item must currently be
// in the named section.
func (s *Service) DetachItemFromSection(ctx context.Context, actor Actor, sectionID, itemID uuid.UUID) (*models.BagListItem, error) {
	var detached *models.BagListItem
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		section, _, err := ownedSection(ctx, tx, actor, sectionID, false)
		if err != nil {
			return err
		}
		item, _, err := ownedItem(ctx, tx, actor, itemID, false)
		if err != nil {
			return err
		}
		if !item.InSection(section.ID) {
			return errs.NewNotFoundError("item not found in section")
		}
		if err := tx.Items().SetSection(ctx, item.ID, nil); err != nil {
			return dbErr("update", "item", err)
		}
		item.SectionID = nil
		detached = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}

// DeleteItem removes an item with its snapshot and field values and renumbers the rest.
func (s *Service) DeleteItem(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		item, baglist, err := ownedItem(ctx, tx, actor, id, true)
		if err != nil {
			return err
		}
		if err := tx.Items().Delete(ctx, item.ID); err != nil {
			return dbErr("delete", "item", err)
		}
		remaining, err := tx.Items().ListByBagList(ctx, baglist.ID)
		if err != nil {
			return dbErr("list", "items", err)
		}
		if err := tx.Items().Renumber(ctx, baglist.ID, itemIDs(remaining)); err != nil {
			return dbErr("renumber", "items", err)
		}
		return nil
	})
}
