package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type baglistHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.Service
}

func newBagListHandler(service *services.Service) baglistHandler {
	logger := log.With().Str("handlerName", "baglistHandler").Logger()

	return baglistHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// listBagLists returns the caller's lists
// @Summary List my baglists
// @Description Returns the caller's live lists, or the soft-deleted ones with ?deleted=true
// @Tags BagLists
// @Produce json
// @Param deleted query bool false "List the trash instead"
// @Success 200 {array} OwnedBagList
// @Failure 401 {object} ErrorResponse
// @Router /api/baglists [get]
func (h baglistHandler) listBagLists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted := false
		if raw := r.URL.Query().Get("deleted"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid deleted flag"))
				return
			}
			deleted = parsed
		}

		baglists, err := h.service.ListMyBagLists(r.Context(), ctxGetActor(r.Context()), deleted)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ownedBagLists(baglists))
	}
}

// createBagList creates a list owned by the caller
// @Summary Create baglist
// @Tags BagLists
// @Accept json
// @Produce json
// @Param baglist body services.CreateBagListInput true "BagList data"
// @Success 201 {object} OwnedBagList
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid baglist data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already used"
// @Router /api/baglists [post]
func (h baglistHandler) createBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateBagListInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		baglist, err := h.service.CreateBagList(r.Context(), ctxGetActor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, ownedBagList(baglist))
	}
}

// getBagList returns the read view of a list
// @Summary Get baglist
// @Tags BagLists
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param token query string false "Share token of an unlisted list"
// @Success 200 {object} services.BagListView
// @Failure 404 {object} ErrorResponse "Not Found - Missing or not readable"
// @Router /api/baglists/{baglistID} [get]
func (h baglistHandler) getBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		view, err := h.service.GetBagList(r.Context(), ctxGetActor(r.Context()), id, shareToken(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, view)
	}
}

// updateBagList applies a partial update
// @Summary Update baglist
// @Tags BagLists
// @Accept json
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param baglist body services.UpdateBagListInput true "Fields to change"
// @Success 200 {object} OwnedBagList
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/baglists/{baglistID} [patch]
func (h baglistHandler) updateBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.UpdateBagListInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		baglist, err := h.service.UpdateBagList(r.Context(), ctxGetActor(r.Context()), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ownedBagList(baglist))
	}
}

// deleteBagList moves a list to the trash
// @Summary Soft-delete baglist
// @Tags BagLists
// @Param baglistID path string true "BagList ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/baglists/{baglistID} [delete]
func (h baglistHandler) deleteBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.SoftDeleteBagList(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// restoreBagList brings a list back from the trash
// @Summary Restore baglist
// @Tags BagLists
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Success 200 {object} OwnedBagList
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict - Slug reused while in the trash"
// @Router /api/baglists/{baglistID}/restore [post]
func (h baglistHandler) restoreBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		baglist, err := h.service.RestoreBagList(r.Context(), ctxGetActor(r.Context()), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ownedBagList(baglist))
	}
}

// purgeBagList permanently deletes a list and everything in it
// @Summary Purge baglist
// @Tags BagLists
// @Param baglistID path string true "BagList ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/baglists/{baglistID}/purge [delete]
func (h baglistHandler) purgeBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.PurgeBagList(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("baglistID", id.String()).Msg("BagList purged")
		w.WriteHeader(http.StatusNoContent)
	}
}

// rotateShareToken issues a new share link for an unlisted list
// @Summary Rotate share token
// @Tags BagLists
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Success 200 {object} ShareTokenResponse
// @Failure 400 {object} ErrorResponse "Bad Request - List is not unlisted"
// @Failure 404 {object} ErrorResponse
// @Router /api/baglists/{baglistID}/share-token [post]
func (h baglistHandler) rotateShareToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		baglist, err := h.service.RotateShareToken(r.Context(), ctxGetActor(r.Context()), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		shareURL, err := h.service.ShareURL(r.Context(), baglist)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ShareTokenResponse{ShareToken: *baglist.ShareToken, ShareURL: shareURL})
	}
}

// forkBagList copies a readable list into the caller's lists
// @Summary Fork baglist
// @Tags BagLists
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param token query string false "Share token of an unlisted list"
// @Success 201 {object} OwnedBagList
// @Failure 403 {object} ErrorResponse "Forbidden - Forks disabled"
// @Failure 404 {object} ErrorResponse
// @Router /api/baglists/{baglistID}/fork [post]
func (h baglistHandler) forkBagList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fork, err := h.service.ForkBagList(r.Context(), ctxGetActor(r.Context()), id, shareToken(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, ownedBagList(fork))
	}
}

// presignCoverUpload returns a presigned upload URL for a cover image
// @Summary Presign cover upload
// @Tags BagLists
// @Accept json
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param request body CoverUploadRequest true "Image content type"
// @Success 200 {object} services.PresignedUpload
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Service Unavailable - Media storage not configured"
// @Router /api/baglists/{baglistID}/cover-upload [post]
func (h baglistHandler) presignCoverUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req CoverUploadRequest
		if err := readJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		upload, err := h.service.PresignCoverUpload(r.Context(), ctxGetActor(r.Context()), id, req.ContentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, upload)
	}
}
