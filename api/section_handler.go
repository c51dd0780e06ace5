package api

import (
	"net/http"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type sectionHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.Service
}

func newSectionHandler(service *services.Service) sectionHandler {
	logger := log.With().Str("handlerName", "sectionHandler").Logger()

	return sectionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// createSection adds a section to a list
// @Summary Create section
// @Tags Sections
// @Accept json
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param section body services.CreateSectionInput true "Section data"
// @Success 201 {object} models.BagListSection
// @Failure 400 {object} ErrorResponse "Bad Request - Position beyond the end"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict - Position already taken"
// @Router /api/baglists/{baglistID}/sections [post]
func (h sectionHandler) createSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglistID, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.CreateSectionInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		section, err := h.service.CreateSection(r.Context(), ctxGetActor(r.Context()), baglistID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, section)
	}
}

// updateSection applies a partial update
// @Summary Update section
// @Tags Sections
// @Accept json
// @Produce json
// @Param sectionID path string true "Section ID" format(uuid)
// @Param section body services.UpdateSectionInput true "Fields to change"
// @Success 200 {object} models.BagListSection
// @Failure 404 {object} ErrorResponse
// @Router /api/sections/{sectionID} [patch]
func (h sectionHandler) updateSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "sectionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.UpdateSectionInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		section, err := h.service.UpdateSection(r.Context(), ctxGetActor(r.Context()), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, section)
	}
}

// moveSection repositions a section within its list
// @Summary Move section
// @Tags Sections
// @Accept json
// @Produce json
// @Param sectionID path string true "Section ID" format(uuid)
// @Param request body MoveRequest true "Target position"
// @Success 200 {object} models.BagListSection
// @Failure 404 {object} ErrorResponse
// @Router /api/sections/{sectionID}/move [post]
func (h sectionHandler) moveSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "sectionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req MoveRequest
		if err := readJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Position == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("position"))
			return
		}
		section, err := h.service.MoveSection(r.Context(), ctxGetActor(r.Context()), id, *req.Position)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, section)
	}
}

// deleteSection removes a section and keeps its items
// @Summary Delete section
// @Tags Sections
// @Param sectionID path string true "Section ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/sections/{sectionID} [delete]
func (h sectionHandler) deleteSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "sectionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.DeleteSection(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
