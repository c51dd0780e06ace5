package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9_.]{1,38}[a-z0-9])?$`)

// reservedHandles collide with top-level routes.
var reservedHandles = map[string]bool{
	"api": true, "htmx": true, "healthz": true, "static": true, "admin": true,
}

type CreateProfileInput struct {
	Handle      string            `json:"handle" validate:"required,min=3,max=40"`
	DisplayName string            `json:"display_name" validate:"required,max=120"`
	Bio         string            `json:"bio" validate:"max=2000"`
	AvatarURL   string            `json:"avatar_url" validate:"omitempty,http_url"`
	Links       map[string]string `json:"links" validate:"max=20,dive,keys,max=40,endkeys,http_url"`
	IsCreator   bool              `json:"is_creator"`
}

type UpdateProfileInput struct {
	DisplayName *string            `json:"display_name" validate:"omitempty,min=1,max=120"`
	Bio         *string            `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL   *string            `json:"avatar_url" validate:"omitempty,max=2048"`
	Links       *map[string]string `json:"links" validate:"omitempty,max=20,dive,keys,max=40,endkeys,http_url"`
	IsCreator   *bool              `json:"is_creator"`
}

func linksJSON(links map[string]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range links {
		out[k] = v
	}
	return out
}

// normalizeHandle maps a handle to its stored form. Handles are matched case-insensitively.
func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// CreateProfile creates the profile of actor's account. An account has at most one profile
// and handles are unique.
func (s *Service) CreateProfile(ctx context.Context, actor Actor, in CreateProfileInput) (*models.Profile, error) {
	if !actor.Authenticated() {
		return nil, errs.NewMissingTokenError()
	}
	in.Handle = normalizeHandle(in.Handle)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if !handlePattern.MatchString(in.Handle) || reservedHandles[in.Handle] {
		return nil, errs.NewInvalidFieldError("handle", "use 3 to 40 lowercase letters, digits, dots or underscores")
	}

	profile := &models.Profile{
		AccountID:   actor.AccountID,
		Handle:      in.Handle,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
		Links:       linksJSON(in.Links),
		IsCreator:   in.IsCreator,
	}
	if err := s.store.Profiles().Add(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("this handle is taken or the account already has a profile")
		}
		return nil, dbErr("create", "profile", err)
	}
	s.logger.Info().Str("profileID", profile.ID.String()).Str("handle", profile.Handle).Msg("Profile created")
	return profile, nil
}

// GetMe returns the profile of actor's account.
func (s *Service) GetMe(ctx context.Context, actor Actor) (*models.Profile, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}
	profile, err := s.store.Profiles().FindByID(ctx, actor.ProfileID)
	if err != nil {
		return nil, dbErr("find", "profile", err)
	}
	return profile, nil
}

func (s *Service) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	profile, err := s.store.Profiles().FindByHandle(ctx, normalizeHandle(handle))
	if err != nil {
		return nil, dbErr("find", "profile", err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update to actor's profile. Handles never change.
func (s *Service) UpdateProfile(ctx context.Context, actor Actor, in UpdateProfileInput) (*models.Profile, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	profile, err := s.GetMe(ctx, actor)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, errs.NewInvalidFieldError("display_name", "must not be blank")
		}
		profile.DisplayName = name
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		if *in.AvatarURL != "" && !isHTTPURL(*in.AvatarURL) {
			return nil, errs.NewInvalidFieldError("avatar_url", "must be an absolute http or https URL")
		}
		profile.AvatarURL = *in.AvatarURL
	}
	if in.Links != nil {
		profile.Links = linksJSON(*in.Links)
	}
	if in.IsCreator != nil {
		profile.IsCreator = *in.IsCreator
	}
	if err := s.store.Profiles().Update(ctx, profile); err != nil {
		return nil, dbErr("update", "profile", err)
	}
	return profile, nil
}

// ResolveActor maps a verified account id to an Actor. Accounts without a profile get an
// Actor that can read but not own anything.
func (s *Service) ResolveActor(ctx context.Context, accountID string) (Actor, error) {
	if accountID == "" {
		return Anonymous(), nil
	}
	actor := Actor{AccountID: accountID}
	profile, err := s.store.Profiles().FindByAccountID(ctx, accountID)
	if isMissing(err) {
		return actor, nil
	}
	if err != nil {
		return Anonymous(), dbErr("find", "profile", err)
	}
	actor.ProfileID = profile.ID
	return actor, nil
}
