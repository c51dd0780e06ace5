package api

import (
	"net/http"

	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog/log"
)

type facetHandler struct {
	responder Responder
	service   *services.Service
}

func newFacetHandler(service *services.Service) facetHandler {
	logger := log.With().Str("handlerName", "facetHandler").Logger()
	return facetHandler{responder: NewResponder(logger), service: service}
}

// listFacets returns the facet vocabulary
// @Summary List facets
// @Tags Facets
// @Produce json
// @Success 200 {array} models.Facet
// @Router /api/facets [get]
func (h facetHandler) listFacets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facets, err := h.service.ListFacets(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, facets)
	}
}

// setFacetValue classifies a list along one facet
// @Summary Set facet value
// @Tags Facets
// @Accept json
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param value body services.SetFacetInput true "Facet option or duration"
// @Success 201 {object} models.BagListFacetValue
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown option or invalid duration"
// @Failure 409 {object} ErrorResponse "Conflict - Option already set"
// @Router /api/baglists/{baglistID}/facets [post]
func (h facetHandler) setFacetValue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglistID, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.SetFacetInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		value, err := h.service.SetFacetValue(r.Context(), ctxGetActor(r.Context()), baglistID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, value)
	}
}

// removeFacetValue removes one facet value from a list
// @Summary Remove facet value
// @Tags Facets
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param valueID path string true "Facet value ID" format(uuid)
// @Success 204
// @Router /api/baglists/{baglistID}/facets/{valueID} [delete]
func (h facetHandler) removeFacetValue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglistID, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		valueID, err := uuidParam(r, "valueID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.RemoveFacetValue(r.Context(), ctxGetActor(r.Context()), baglistID, valueID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
