package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
)

type CreateSectionInput struct {
	Title              string `json:"title" validate:"required,max=120"`
	Description        string `json:"description" validate:"max=2000"`
	Position           *int   `json:"position" validate:"omitempty,gte=0"`
	CollapsedByDefault bool   `json:"collapsed_by_default"`
}

type UpdateSectionInput struct {
	Title              *string `json:"title" validate:"omitempty,min=1,max=120"`
	Description        *string `json:"description" validate:"omitempty,max=2000"`
	CollapsedByDefault *bool   `json:"collapsed_by_default"`
}

func positionConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError("position already taken")
	}
	return err
}

// insertPosition resolves the position of a new row. Without an explicit position the row is
// appended; an explicit one may not leave a gap after the last row.
func insertPosition(requested *int, next int) (int, error) {
	if requested == nil {
		return next, nil
	}
	if *requested > next {
		return 0, errs.NewInvalidFieldError("position", "must not be greater than the number of rows")
	}
	return *requested, nil
}

// CreateSection adds a section to one of actor's lists. An explicit position that is already
// taken is a conflict; callers reorder with MoveSection.
func (s *Service) CreateSection(ctx context.Context, actor Actor, baglistID uuid.UUID, in CreateSectionInput) (*models.BagListSection, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	section := &models.BagListSection{
		BagListID:          baglistID,
		Title:              in.Title,
		Description:        in.Description,
		CollapsedByDefault: in.CollapsedByDefault,
	}
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := lockOwnedBagList(ctx, tx, actor, baglistID); err != nil {
			return err
		}
		next, err := tx.Sections().NextPosition(ctx, baglistID)
		if err != nil {
			return dbErr("find", "section position", err)
		}
		if section.Position, err = insertPosition(in.Position, next); err != nil {
			return err
		}
		if err := tx.Sections().Add(ctx, section); err != nil {
			return dbErr("create", "section", positionConflict(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// UpdateSection applies a partial update to a section of one of actor's lists.
func (s *Service) UpdateSection(ctx context.Context, actor Actor, id uuid.UUID, in UpdateSectionInput) (*models.BagListSection, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	section, _, err := ownedSection(ctx, s.store, actor, id, false)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errs.NewInvalidFieldError("title", "must not be blank")
		}
		section.Title = title
	}
	if in.Description != nil {
		section.Description = *in.Description
	}
	if in.CollapsedByDefault != nil {
		section.CollapsedByDefault = *in.CollapsedByDefault
	}
	if err := s.store.Sections().Update(ctx, section); err != nil {
		return nil, dbErr("update", "section", err)
	}
	return section, nil
}

func (s *Service) RenameSection(ctx context.Context, actor Actor, id uuid.UUID, title string) (*models.BagListSection, error) {
	return s.UpdateSection(ctx, actor, id, UpdateSectionInput{Title: &title})
}

func (s *Service) UpdateSectionDescription(ctx context.Context, actor Actor, id uuid.UUID, description string) (*models.BagListSection, error) {
	return s.UpdateSection(ctx, actor, id, UpdateSectionInput{Description: &description})
}

func (s *Service) SetSectionCollapsed(ctx context.Context, actor Actor, id uuid.UUID, collapsed bool) (*models.BagListSection, error) {
	return s.UpdateSection(ctx, actor, id, UpdateSectionInput{CollapsedByDefault: &collapsed})
}

// MoveSection moves a section to position, clamped to the list, shifting its siblings.
// The list row stays locked while the positions are rewritten.
func (s *Service) MoveSection(ctx context.Context, actor Actor, id uuid.UUID, position int) (*models.BagListSection, error) {
	var moved *models.BagListSection
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		section, baglist, err := ownedSection(ctx, tx, actor, id, true)
		if err != nil {
			return err
		}
		siblings, err := tx.Sections().ListByBagList(ctx, baglist.ID)
		if err != nil {
			return dbErr("list", "sections", err)
		}
		order, final := moveTo(sectionIDs(siblings), section.ID, position)
		if final != section.Position {
			if err := tx.Sections().Renumber(ctx, baglist.ID, order); err != nil {
				return dbErr("move", "section", err)
			}
		}
		section.Position = final
		moved = section
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// DeleteSection removes a section. Its items stay in the list without a section; its field
// definitions and their values are dropped; the remaining sections are renumbered.
func (s *Service) DeleteSection(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		section, baglist, err := ownedSection(ctx, tx, actor, id, true)
		if err != nil {
			return err
		}
		if err := tx.Sections().Delete(ctx, section.ID); err != nil {
			return dbErr("delete", "section", err)
		}
		remaining, err := tx.Sections().ListByBagList(ctx, baglist.ID)
		if err != nil {
			return dbErr("list", "sections", err)
		}
		if err := tx.Sections().Renumber(ctx, baglist.ID, sectionIDs(remaining)); err != nil {
			return dbErr("renumber", "sections", err)
		}
		return nil
	})
}

// ListSections returns the ordered sections of one of actor's lists.
func (s *Service) ListSections(ctx context.Context, actor Actor, baglistID uuid.UUID) ([]*models.BagListSection, error) {
	if _, err := ownedBagList(ctx, s.store, actor, baglistID); err != nil {
		return nil, err
	}
	sections, err := s.store.Sections().ListByBagList(ctx, baglistID)
	if err != nil {
		return nil, dbErr("list", "sections", err)
	}
	return sections, nil
}
