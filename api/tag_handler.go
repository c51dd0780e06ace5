package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	service   *services.Service
}

func newTagHandler(service *services.Service) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()
	return tagHandler{responder: NewResponder(logger), service: service}
}

// listTags returns the caller's tags
// @Summary List my tags
// @Tags Tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/tags [get]
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.service.ListMyTags(r.Context(), ctxGetActor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// createTag creates a tag owned by the caller
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body services.CreateTagInput true "Tag name"
// @Success 201 {object} models.Tag
// @Failure 409 {object} ErrorResponse "Conflict - Tag already exists"
// @Router /api/tags [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateTagInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tag, err := h.service.CreateTag(r.Context(), ctxGetActor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, tag)
	}
}

// deleteTag removes a tag from every list it was on
// @Summary Delete tag
// @Tags Tags
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 204
// @Router /api/tags/{tagID} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.DeleteTag(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// tagBagList attaches one of the caller's tags to one of the caller's lists
// @Summary Tag baglist
// @Tags Tags
// @Accept json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param request body TagRequest true "Tag to attach"
// @Success 204
// @Router /api/baglists/{baglistID}/tags [post]
func (h tagHandler) tagBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglistID, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req TagRequest
		if err := readJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tagID, err := uuid.Parse(req.TagID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("tag_id", "must be a UUID"))
			return
		}
		if err := h.service.TagBagList(r.Context(), ctxGetActor(r.Context()), baglistID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// untagBagList detaches a tag from a list
// @Summary Untag baglist
// @Tags Tags
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 204
// @Router /api/baglists/{baglistID}/tags/{tagID} [delete]
func (h tagHandler) untagBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglistID, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tagID, err := uuidParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.UntagBagList(r.Context(), ctxGetActor(r.Context()), baglistID, tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
