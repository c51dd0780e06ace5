package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service implements every BagList operation on top of a database.Store.
// Mutations take the acting identity explicitly and never trust ids from the caller
// without re-reading ownership.
type Service struct {
	store     database.Store
	validator *Validator
	logger    zerolog.Logger
	media     Presigner
	urls      URLBuilder
	newToken  TokenGenerator
	now       func() time.Time
}

type Option func(*Service)

// WithMedia enables presigned cover uploads.
func WithMedia(p Presigner) Option {
	return func(s *Service) {
		s.media = p
	}
}

func WithURLBuilder(b URLBuilder) Option {
	return func(s *Service) {
		s.urls = b
	}
}

func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Service) {
		s.newToken = g
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store database.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: NewValidator(),
		logger:    log.With().Str("component", "services").Logger(),
		newToken:  NewShareToken,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate exposes the service validator to the transport layer.
func (s *Service) Validate(v any) error {
	return s.validator.Validate(v)
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// dbErr converts a repository error into an ApiErr, reporting missing rows as not found.
func dbErr(operation, entity string, err error) error {
	return errs.NewDatabaseError(operation, entity, err)
}

func notFound(entity string) error {
	return errs.NewNotFoundError(entity + " not found")
}

func isMissing(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ownedBagList loads a live list owned by actor. Missing, deleted and foreign lists
// are all reported as not found so callers cannot tell other users' ids apart from missing ones.
func ownedBagList(ctx context.Context, store database.Store, actor Actor, id uuid.UUID) (*models.BagList, error) {
	return loadOwnedBagList(ctx, store, actor, id, false, false)
}

// lockOwnedBagList is ownedBagList with a row lock held until the transaction ends.
func lockOwnedBagList(ctx context.Context, tx database.Store, actor Actor, id uuid.UUID) (*models.BagList, error) {
	return loadOwnedBagList(ctx, tx, actor, id, true, false)
}

func loadOwnedBagList(ctx context.Context, store database.Store, actor Actor, id uuid.UUID, lock, includeDeleted bool) (*models.BagList, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}

	var (
		baglist *models.BagList
		err     error
	)
	if lock {
		baglist, err = store.BagLists().FindByIDForUpdate(ctx, id)
	} else {
		baglist, err = store.BagLists().FindByID(ctx, id)
	}
	if isMissing(err) {
		return nil, notFound("baglist")
	}
	if err != nil {
		return nil, dbErr("find", "baglist", err)
	}
	if !baglist.IsOwnedBy(actor.ProfileID) || (baglist.IsDeleted && !includeDeleted) {
		return nil, notFound("baglist")
	}
	return baglist, nil
}

// ownedSection loads a section whose list is live and owned by actor.
func ownedSection(ctx context.Context, store database.Store, actor Actor, id uuid.UUID, lock bool) (*models.BagListSection, *models.BagList, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, nil, err
	}
	section, err := store.Sections().FindByID(ctx, id)
	if isMissing(err) {
		return nil, nil, notFound("section")
	}
	if err != nil {
		return nil, nil, dbErr("find", "section", err)
	}
	baglist, err := loadOwnedBagList(ctx, store, actor, section.BagListID, lock, false)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, notFound("section")
		}
		return nil, nil, err
	}
	return section, baglist, nil
}

// ownedItem loads an item whose list is live and owned by actor.
func ownedItem(ctx context.Context, store database.Store, actor Actor, id uuid.UUID, lock bool) (*models.BagListItem, *models.BagList, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, nil, err
	}
	item, err := store.Items().FindByID(ctx, id)
	if isMissing(err) {
		return nil, nil, notFound("item")
	}
	if err != nil {
		return nil, nil, dbErr("find", "item", err)
	}
	baglist, err := loadOwnedBagList(ctx, store, actor, item.BagListID, lock, false)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, notFound("item")
		}
		return nil, nil, err
	}
	return item, baglist, nil
}
