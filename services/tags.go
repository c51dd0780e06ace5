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

type CreateTagInput struct {
	Name string `json:"name" validate:"required,max=60"`
}

func ownedTag(ctx context.Context, store database.Store, actor Actor, id uuid.UUID) (*models.Tag, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	tag, err := store.Tags().FindByID(ctx, id)
	if isMissing(err) || (err == nil && tag.OwnerID != actor.ProfileID) {
		return nil, notFound("tag")
	}
	if err != nil {
		return nil, dbErr("find", "tag", err)
	}
	return tag, nil
}

// CreateTag creates one of actor's tags. Names that slugify to an existing tag conflict.
func (s *Service) CreateTag(ctx context.Context, actor Actor, in CreateTagInput) (*models.Tag, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	slug := Slugify(in.Name)
	if slug == "" {
		return nil, errs.NewInvalidFieldError("name", "must contain at least one letter or digit")
	}
	tag := &models.Tag{OwnerID: actor.ProfileID, Name: in.Name, Slug: slug}
	if err := s.store.Tags().Add(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("a tag with this name already exists")
		}
		return nil, dbErr("create", "tag", err)
	}
	return tag, nil
}

func (s *Service) ListMyTags(ctx context.Context, actor Actor) ([]*models.Tag, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	tags, err := s.store.Tags().ListByOwner(ctx, actor.ProfileID)
	if err != nil {
		return nil, dbErr("list", "tags", err)
	}
	return tags, nil
}

// DeleteTag removes one of actor's tags from every list it was applied to.
func (s *Service) DeleteTag(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		tag, err := ownedTag(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Tags().Delete(ctx, tag.ID); err != nil {
			return dbErr("delete", "tag", err)
		}
		return nil
	})
}

// TagBagList applies one of actor's tags to one of actor's lists. Applying it twice is a no-op.
func (s *Service) TagBagList(ctx context.Context, actor Actor, baglistID, tagID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := ownedBagList(ctx, tx, actor, baglistID); err != nil {
			return err
		}
		if _, err := ownedTag(ctx, tx, actor, tagID); err != nil {
			return err
		}
		if err := tx.Tags().Attach(ctx, baglistID, tagID); err != nil {
			return dbErr("tag", "baglist", err)
		}
		return nil
	})
}

func (s *Service) UntagBagList(ctx context.Context, actor Actor, baglistID, tagID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := ownedBagList(ctx, tx, actor, baglistID); err != nil {
			return err
		}
		if _, err := ownedTag(ctx, tx, actor, tagID); err != nil {
			return err
		}
		if err := tx.Tags().Detach(ctx, baglistID, tagID); err != nil {
			if isMissing(err) {
				return errs.NewNotFoundError("tag is not applied to this baglist")
			}
			return dbErr("untag", "baglist", err)
		}
		return nil
	})
}
