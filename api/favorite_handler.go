package api

import (
	"net/http"

	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog/log"
)

type favoriteHandler struct {
	responder Responder
	service   *services.Service
}

func newFavoriteHandler(service *services.Service) favoriteHandler {
	logger := log.With().Str("handlerName", "favoriteHandler").Logger()
	return favoriteHandler{responder: NewResponder(logger), service: service}
}

// listFavorites returns the caller's favorite lists and items
// @Summary List favorites
// @Tags Favorites
// @Produce json
// @Success 200 {object} services.Favorites
// @Router /api/favorites [get]
func (h favoriteHandler) listFavorites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := h.service.ListFavorites(r.Context(), ctxGetActor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, favorites)
	}
}

// favoriteBagList marks a readable list as favorite
// @Summary Favorite baglist
// @Tags Favorites
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param token query string false "Share token of an unlisted list"
// @Success 204
// @Router /api/baglists/{baglistID}/favorite [put]
func (h favoriteHandler) favoriteBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.FavoriteBagList(r.Context(), ctxGetActor(r.Context()), id, shareToken(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// unfavoriteBagList removes a list from favorites
// @Summary Unfavorite baglist
// @Tags Favorites
// @Param baglistID path string true "BagList ID" format(uuid)
// @Success 204
// @Router /api/baglists/{baglistID}/favorite [delete]
func (h favoriteHandler) unfavoriteBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.UnfavoriteBagList(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// favoriteItem marks an item of a readable list as favorite
// @Summary Favorite item
// @Tags Favorites
// @Param itemID path string true "Item ID" format(uuid)
// @Param token query string false "Share token of an unlisted list"
// @Success 204
// @Router /api/items/{itemID}/favorite [put]
func (h favoriteHandler) favoriteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.FavoriteItem(r.Context(), ctxGetActor(r.Context()), id, shareToken(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// unfavoriteItem removes an item from favorites
// @Summary Unfavorite item
// @Tags Favorites
// @Param itemID path string true "Item ID" format(uuid)
// @Success 204
// @Router /api/items/{itemID}/favorite [delete]
func (h favoriteHandler) unfavoriteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.UnfavoriteItem(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
