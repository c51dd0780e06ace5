package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.Service
}

func newProfileHandler(service *services.Service) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// createProfile creates the caller's profile
// @Summary Create profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body services.CreateProfileInput true "Profile data"
// @Success 201 {object} models.Profile
// @Failure 409 {object} ErrorResponse "Conflict - Handle taken or profile exists"
// @Router /api/profiles [post]
func (h profileHandler) createProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateProfileInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		profile, err := h.service.CreateProfile(r.Context(), ctxGetActor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, profile)
	}
}

// getMe returns the caller's profile
// @Summary Get my profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 403 {object} ErrorResponse "Forbidden - No profile yet"
// @Router /api/me [get]
func (h profileHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.service.GetMe(r.Context(), ctxGetActor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// updateMe applies a partial update to the caller's profile
// @Summary Update my profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body services.UpdateProfileInput true "Fields to change"
// @Success 200 {object} models.Profile
// @Router /api/me [patch]
func (h profileHandler) updateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.UpdateProfileInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		profile, err := h.service.UpdateProfile(r.Context(), ctxGetActor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// getProfile returns a public profile
// @Summary Get profile by handle
// @Tags Profiles
// @Produce json
// @Param handle path string true "Profile handle"
// @Success 200 {object} models.Profile
// @Failure 404 {object} ErrorResponse
// @Router /api/profiles/{handle} [get]
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.service.GetProfileByHandle(r.Context(), chi.URLParam(r, "handle"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// listProfileBagLists returns the lists of a profile the caller may browse
// @Summary List a profile's baglists
// @Tags Profiles
// @Produce json
// @Param handle path string true "Profile handle"
// @Success 200 {array} models.BagList
// @Failure 404 {object} ErrorResponse
// @Router /api/profiles/{handle}/baglists [get]
func (h profileHandler) listProfileBagLists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglists, err := h.service.ListBagListsByHandle(r.Context(), ctxGetActor(r.Context()), chi.URLParam(r, "handle"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, baglists)
	}
}

type readHandler struct {
	responder Responder
	service   *services.Service
}

func newReadHandler(service *services.Service) readHandler {
	logger := log.With().Str("handlerName", "readHandler").Logger()
	return readHandler{responder: NewResponder(logger), service: service}
}

// getBagListBySlug renders the public read view of a list
// @Summary Read baglist
// @Tags Read
// @Produce json
// @Param handle path string true "Owner handle"
// @Param slug path string true "BagList slug"
// @Param token query string false "Share token of an unlisted list"
// @Success 200 {object} services.BagListView
// @Failure 404 {object} ErrorResponse
// @Router /{handle}/baglist/{slug} [get]
func (h readHandler) getBagListBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.service.GetBagListByHandleSlug(r.Context(), ctxGetActor(r.Context()),
			chi.URLParam(r, "handle"), chi.URLParam(r, "slug"), shareToken(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, view)
	}
}
