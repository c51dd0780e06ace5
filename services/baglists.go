package services

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/gorm"
)

type CreateBagListInput struct {
	Title         string            `json:"title" validate:"required,max=200"`
	Slug          string            `json:"slug" validate:"omitempty,max=100"`
	Description   string            `json:"description" validate:"max=5000"`
	Visibility    models.Visibility `json:"visibility" validate:"omitempty,oneof=private unlisted registered public"`
	CoverImageURL string            `json:"cover_image_url" validate:"omitempty,http_url"`
	AllowForks    *bool             `json:"allow_forks"`
}

// UpdateBagListInput holds a partial update. Nil fields are left unchanged.
type UpdateBagListInput struct {
	Title         *string            `json:"title" validate:"omitempty,min=1,max=200"`
	Slug          *string            `json:"slug" validate:"omitempty,min=1,max=100"`
	Description   *string            `json:"description" validate:"omitempty,max=5000"`
	Visibility    *models.Visibility `json:"visibility" validate:"omitempty,oneof=private unlisted registered public"`
	CoverImageURL *string            `json:"cover_image_url" validate:"omitempty,max=2048"`
	AllowForks    *bool              `json:"allow_forks"`
}

func slugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError("a baglist with this slug already exists")
	}
	return err
}

func resolveSlug(slug, title string) (string, error) {
	if slug != "" {
		if !IsSlug(slug) {
			return "", errs.NewInvalidFieldError("slug", "use lowercase letters, digits and single hyphens")
		}
		return slug, nil
	}
	slug = Slugify(title)
	if slug == "" {
		return "", errs.NewInvalidFieldError("title", "must contain at least one letter or digit")
	}
	return slug, nil
}

// applyVisibility switches the list's visibility. Only unlisted lists hold a share token:
// leaving unlisted drops it and entering unlisted mints a fresh one, so a link handed out
// earlier never opens the list again. The first switch to public stamps published_at.
func (s *Service) applyVisibility(baglist *models.BagList, visibility models.Visibility) error {
	baglist.Visibility = visibility
	if visibility != models.VisibilityUnlisted {
		baglist.ShareToken = nil
	}
	if visibility == models.VisibilityUnlisted && baglist.ShareToken == nil {
		token, err := s.newToken()
		if err != nil {
			return errs.NewInternalErrorWithCause("could not generate share token", err)
		}
		baglist.ShareToken = &token
	}
	if visibility == models.VisibilityPublic && baglist.PublishedAt == nil {
		now := s.clock()
		baglist.PublishedAt = &now
	}
	return nil
}

// CreateBagList creates a list owned by actor. A slug already used by the same owner is a conflict.
func (s *Service) CreateBagList(ctx context.Context, actor Actor, in CreateBagListInput) (*models.BagList, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}

	baglist := &models.BagList{
		OwnerID:       actor.ProfileID,
		Title:         in.Title,
		Description:   in.Description,
		Slug:          slug,
		CoverImageURL: in.CoverImageURL,
		AllowForks:    true,
	}
	if in.AllowForks != nil {
		baglist.AllowForks = *in.AllowForks
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if err := s.applyVisibility(baglist, visibility); err != nil {
		return nil, err
	}

	if err := s.store.BagLists().Add(ctx, baglist); err != nil {
		return nil, dbErr("create", "baglist", slugConflict(err))
	}
	s.logger.Info().Str("baglistID", baglist.ID.String()).Str("slug", baglist.Slug).Msg("Baglist created")
	return baglist, nil
}

// UpdateBagList applies a partial update to one of actor's lists.
func (s *Service) UpdateBagList(ctx context.Context, actor Actor, id uuid.UUID, in UpdateBagListInput) (*models.BagList, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	baglist, err := ownedBagList(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errs.NewInvalidFieldError("title", "must not be blank")
		}
		baglist.Title = title
	}
	if in.Slug != nil {
		if !IsSlug(*in.Slug) {
			return nil, errs.NewInvalidFieldError("slug", "use lowercase letters, digits and single hyphens")
		}
		baglist.Slug = *in.Slug
	}
	if in.Description != nil {
		baglist.Description = *in.Description
	}
	if in.CoverImageURL != nil {
		if *in.CoverImageURL != "" && !isHTTPURL(*in.CoverImageURL) {
			return nil, errs.NewInvalidFieldError("cover_image_url", "must be an absolute http or https URL")
		}
		baglist.CoverImageURL = *in.CoverImageURL
	}
	if in.AllowForks != nil {
		baglist.AllowForks = *in.AllowForks
	}
	if in.Visibility != nil {
		if err := s.applyVisibility(baglist, *in.Visibility); err != nil {
			return nil, err
		}
	}

	if err := s.store.BagLists().Update(ctx, baglist); err != nil {
		return nil, dbErr("update", "baglist", slugConflict(err))
	}
	return baglist, nil
}

// RotateShareToken replaces the share token of an unlisted list, revoking the old link.
func (s *Service) RotateShareToken(ctx context.Context, actor Actor, id uuid.UUID) (*models.BagList, error) {
	baglist, err := ownedBagList(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}
	if baglist.Visibility != models.VisibilityUnlisted {
		return nil, errs.NewBadRequestError("share tokens apply to unlisted baglists only")
	}
	token, err := s.newToken()
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not generate share token", err)
	}
	baglist.ShareToken = &token
	if err := s.store.BagLists().Update(ctx, baglist); err != nil {
		return nil, dbErr("update", "baglist", err)
	}
	return baglist, nil
}

// SoftDeleteBagList hides the list from every read path until it is restored or purged.
func (s *Service) SoftDeleteBagList(ctx context.Context, actor Actor, id uuid.UUID) error {
	baglist, err := ownedBagList(ctx, s.store, actor, id)
	if err != nil {
		return err
	}
	now := s.clock()
	baglist.IsDeleted = true
	baglist.DeletedAt = &now
	if err := s.store.BagLists().Update(ctx, baglist); err != nil {
		return dbErr("delete", "baglist", err)
	}
	return nil
}

// RestoreBagList brings back a soft-deleted list. Restoring a live list is a no-op.
func (s *Service) RestoreBagList(ctx context.Context, actor Actor, id uuid.UUID) (*models.BagList, error) {
	baglist, err := loadOwnedBagList(ctx, s.store, actor, id, false, true)
	if err != nil {
		return nil, err
	}
	if !baglist.IsDeleted {
		return baglist, nil
	}
	baglist.IsDeleted = false
	baglist.DeletedAt = nil
	if err := s.store.BagLists().Update(ctx, baglist); err != nil {
		return nil, dbErr("restore", "baglist", err)
	}
	return baglist, nil
}

// PurgeBagList permanently deletes a list, live or soft-deleted, with everything under it.
func (s *Service) PurgeBagList(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := loadOwnedBagList(ctx, tx, actor, id, true, true); err != nil {
			return err
		}
		if err := tx.BagLists().Purge(ctx, id); err != nil {
			return dbErr("purge", "baglist", err)
		}
		s.logger.Info().Str("baglistID", id.String()).Msg("Baglist purged")
		return nil
	})
}

// ListMyBagLists returns actor's live lists, newest first, or the soft-deleted ones when deleted is set.
func (s *Service) ListMyBagLists(ctx context.Context, actor Actor, deleted bool) ([]*models.BagList, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	var (
		baglists []*models.BagList
		err      error
	)
	if deleted {
		baglists, err = s.store.BagLists().ListDeletedByOwner(ctx, actor.ProfileID)
	} else {
		baglists, err = s.store.BagLists().ListByOwner(ctx, actor.ProfileID)
	}
	if err != nil {
		return nil, dbErr("list", "baglists", err)
	}
	return baglists, nil
}

// ListEditorBagLists returns actor's live lists ordered by title for the inline editor.
func (s *Service) ListEditorBagLists(ctx context.Context, actor Actor) ([]*models.BagList, error) {
	baglists, err := s.ListMyBagLists(ctx, actor, false)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(baglists, func(a, b *models.BagList) int {
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	return baglists, nil
}

// ListBagListsByHandle returns the lists of a profile that actor may browse. Owners see all
// their live lists; others see public lists, plus registered ones when signed in.
func (s *Service) ListBagListsByHandle(ctx context.Context, actor Actor, handle string) ([]*models.BagList, error) {
	profile, err := s.store.Profiles().FindByHandle(ctx, normalizeHandle(handle))
	if err != nil {
		return nil, dbErr("find", "profile", err)
	}
	if actor.HasProfile() && profile.ID == actor.ProfileID {
		baglists, err := s.store.BagLists().ListByOwner(ctx, profile.ID)
		if err != nil {
			return nil, dbErr("list", "baglists", err)
		}
		return baglists, nil
	}
	baglists, err := s.store.BagLists().ListByOwner(ctx, profile.ID, listedVisibilities(actor)...)
	if err != nil {
		return nil, dbErr("list", "baglists", err)
	}
	return baglists, nil
}

// ShareURL returns the link that opens baglist for readers, including the share token of
// unlisted lists. It is empty when no public base URL is configured.
func (s *Service) ShareURL(ctx context.Context, baglist *models.BagList) (string, error) {
	owner, err := s.store.Profiles().FindByID(ctx, baglist.OwnerID)
	if err != nil {
		return "", dbErr("find", "profile", err)
	}
	token := ""
	if baglist.Visibility == models.VisibilityUnlisted && baglist.ShareToken != nil {
		token = *baglist.ShareToken
	}
	return s.urls.ShareURL(owner.Handle, baglist.Slug, token), nil
}
