package api

import (
	"net/http"

	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type fieldHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.Service
}

func newFieldHandler(service *services.Service) fieldHandler {
	logger := log.With().Str("handlerName", "fieldHandler").Logger()

	return fieldHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// createFieldDef defines a custom field on a section
// @Summary Create field definition
// @Tags Fields
// @Accept json
// @Produce json
// @Param sectionID path string true "Section ID" format(uuid)
// @Param field body services.CreateFieldDefInput true "Field definition"
// @Success 201 {object} models.SectionFieldDef
// @Failure 409 {object} ErrorResponse "Conflict - Key already used in the section"
// @Router /api/sections/{sectionID}/fields [post]
func (h fieldHandler) createFieldDef() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID, err := uuidParam(r, "sectionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.CreateFieldDefInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		def, err := h.service.CreateFieldDef(r.Context(), ctxGetActor(r.Context()), sectionID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, def)
	}
}

// updateFieldDef applies a partial update to a field definition
// @Summary Update field definition
// @Tags Fields
// @Accept json
// @Produce json
// @Param fieldID path string true "Field ID" format(uuid)
// @Param field body services.UpdateFieldDefInput true "Fields to change"
// @Success 200 {object} models.SectionFieldDef
// @Failure 409 {object} ErrorResponse "Conflict - Type change with stored values"
// @Router /api/fields/{fieldID} [patch]
func (h fieldHandler) updateFieldDef() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "fieldID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.UpdateFieldDefInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		def, err := h.service.UpdateFieldDef(r.Context(), ctxGetActor(r.Context()), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, def)
	}
}

// deleteFieldDef removes a field definition and its values
// @Summary Delete field definition
// @Tags Fields
// @Param fieldID path string true "Field ID" format(uuid)
// @Success 204
// @Router /api/fields/{fieldID} [delete]
func (h fieldHandler) deleteFieldDef() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "fieldID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.DeleteFieldDef(r.Context(), ctxGetActor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listItemFields returns the fields of an item's section with the item's values
// @Summary List item field values
// @Tags Fields
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param token query string false "Share token of an unlisted list"
// @Success 200 {object} services.ItemFields
// @Router /api/items/{itemID}/fields [get]
func (h fieldHandler) listItemFields() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fields, err := h.service.ListItemFieldValues(r.Context(), ctxGetActor(r.Context()), id, shareToken(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, fields)
	}
}

// setItemFieldValue stores a value for one field of an item
// @Summary Set item field value
// @Tags Fields
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID" format(uuid)
// @Param fieldID path string true "Field ID" format(uuid)
// @Param value body FieldValueRequest true "Raw value, parsed by the field type"
// @Success 200 {object} models.BagListItemFieldValue
// @Failure 400 {object} ErrorResponse "Bad Request - Value does not match the field type"
// @Router /api/items/{itemID}/fields/{fieldID} [put]
func (h fieldHandler) setItemFieldValue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fieldID, err := uuidParam(r, "fieldID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req FieldValueRequest
		if err := readJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		value, err := h.service.SetItemFieldValue(r.Context(), ctxGetActor(r.Context()), itemID, fieldID, req.Value)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, value)
	}
}

// clearItemFieldValue removes the value of one field of an item
// @Summary Clear item field value
// @Tags Fields
// @Param itemID path string true "Item ID" format(uuid)
// @Param fieldID path string true "Field ID" format(uuid)
// @Success 204
// @Router /api/items/{itemID}/fields/{fieldID} [delete]
func (h fieldHandler) clearItemFieldValue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fieldID, err := uuidParam(r, "fieldID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.ClearItemFieldValue(r.Context(), ctxGetActor(r.Context()), itemID, fieldID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
