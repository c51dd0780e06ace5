package api

import (
	"net/http"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type itemHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.Service
}

func newItemHandler(service *services.Service) itemHandler {
	logger := log.With().Str("handlerName", "itemHandler").Logger()

	return itemHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// createItem adds an item to a list
// @Summary Create item
// @Tags Items
// @Accept json
// @Produce json
// @Param baglistID path string true "BagList ID" format(uuid)
// @Param item body services.CreateItemInput true "Item data"
// @Success 201 {object} models.BagListItem
// @Failure 404 {object} ErrorResponse "Not Found - List or section"
// @Failure 409 {object} ErrorResponse "Conflict - Position already taken"
// @Router /api/baglists/{baglistID}/items [post]
func (h itemHandler) createItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baglistID, err := uuidParam(r, "baglistID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.CreateItemInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.service.CreateItem(r.Context(), ctxGetActor(r.Context()), baglistID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, item)
	}
}

// updateItem applies a partial update
// @Summary Update item
// @Tags Items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param item body services.UpdateItemInput true "Fields to change"
// @Success 200 {object} models.BagListItem
// @Failure 404 {object} ErrorResponse
// @Router /api/items/{itemID} [patch]
func (h itemHandler) updateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.UpdateItemInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.service.UpdateItem(r.Context(), ctxGetActor(r.Context()), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

// moveItem repositions an item within its list
// @Summary Move item
// @Tags Items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param request body MoveRequest true "Target position"
// @Success 200 {object} models.BagListItem
// @Router /api/items/{itemID}/move [post]
func (h itemHandler) moveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
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
		item, err := h.service.MoveItem(r.Context(), ctxGetActor(r.Context()), id, *req.Position)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

// deleteItem removes an item
// @Summary Delete item
// @Tags Items
// @Param itemID path string true "Item ID" format(uuid)
// @Success 204
// @Router /api/items/{itemID} [delete]
func (h itemHandler) deleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.DeleteItem(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// attachProduct links an item to a catalog product by snapshotting it
// @Summary Attach product
// @Tags Items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param product body services.AttachProductInput true "Product and overrides"
// @Success 200 {object} models.BagListItemProductSnapshot
// @Failure 404 {object} ErrorResponse "Not Found - Item or product"
// @Router /api/items/{itemID}/product [put]
func (h itemHandler) attachProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.AttachProductInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		snapshot, err := h.service.AttachProduct(r.Context(), ctxGetActor(r.Context()), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, snapshot)
	}
}

// resyncSnapshot re-copies the product attributes into an item's snapshot
// @Summary Resync snapshot
// @Tags Items
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Success 200 {object} models.BagListItemProductSnapshot
// @Router /api/items/{itemID}/product/resync [post]
func (h itemHandler) resyncSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		snapshot, err := h.service.ResyncSnapshot(r.Context(), ctxGetActor(r.Context()), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, snapshot)
	}
}
