package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// htmxHandler serves the inline-edit endpoints of the list editor. They take form-encoded
// bodies and answer {"success": bool, ...}.
type htmxHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.Service
}

func newHTMXHandler(service *services.Service) htmxHandler {
	logger := log.With().Str("handlerName", "htmxHandler").Logger()

	return htmxHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// form wraps an inline-edit action. Requests with another method than method get a 400.
func (h htmxHandler) form(method string, action func(r *http.Request) (map[string]any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			h.responder.WriteFormError(w, errs.NewBadRequestError("invalid method"))
			return
		}
		if method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				h.responder.WriteFormError(w, errs.NewBadRequestError("malformed form body"))
				return
			}
		}
		payload, err := action(r)
		if err != nil {
			h.responder.WriteFormError(w, err)
			return
		}
		h.responder.WriteForm(w, payload)
	}
}

func requiredFormValue(r *http.Request, name string) (string, error) {
	if _, ok := r.PostForm[name]; !ok {
		return "", errs.NewMissingRequiredFieldError(name)
	}
	return r.PostFormValue(name), nil
}

// updateSectionTitle renames a section
// @Summary Inline rename section
// @Tags Editor
// @Accept x-www-form-urlencoded
// @Produce json
// @Param section_id formData string true "Section ID"
// @Param title formData string true "New title"
// @Success 200 {object} map[string]any "{success: true, title}"
// @Failure 400 {object} FormResponse
// @Failure 404 {object} FormResponse
// @Router /htmx/update-section-title/ [post]
func (h htmxHandler) updateSectionTitle() http.HandlerFunc {
	return h.form(http.MethodPost, func(r *http.Request) (map[string]any, error) {
		sectionID, err := formUUID(r, "section_id")
		if err != nil {
			return nil, err
		}
		title, err := requiredFormValue(r, "title")
		if err != nil {
			return nil, err
		}
		section, err := h.service.RenameSection(r.Context(), ctxGetActor(r.Context()), sectionID, title)
		if err != nil {
			return nil, err
		}
		return map[string]any{"title": section.Title}, nil
	})
}

// updateSectionDescription replaces a section's description
// @Summary Inline edit section description
// @Tags Editor
// @Accept x-www-form-urlencoded
// @Produce json
// @Param section_id formData string true "Section ID"
// @Param description formData string true "New description, may be empty"
// @Success 200 {object} map[string]any "{success: true, description}"
// @Router /htmx/update-section-description/ [post]
func (h htmxHandler) updateSectionDescription() http.HandlerFunc {
	return h.form(http.MethodPost, func(r *http.Request) (map[string]any, error) {
		sectionID, err := formUUID(r, "section_id")
		if err != nil {
			return nil, err
		}
		description, err := requiredFormValue(r, "description")
		if err != nil {
			return nil, err
		}
		section, err := h.service.UpdateSectionDescription(r.Context(), ctxGetActor(r.Context()), sectionID, description)
		if err != nil {
			return nil, err
		}
		return map[string]any{"description": section.Description}, nil
	})
}

// updateSectionPosition moves a section
// @Summary Inline move section
// @Tags Editor
// @Accept x-www-form-urlencoded
// @Produce json
// @Param section_id formData string true "Section ID"
// @Param position formData int true "Target position"
// @Success 200 {object} map[string]any "{success: true, position}"
// @Router /htmx/update-section-position/ [post]
func (h htmxHandler) updateSectionPosition() http.HandlerFunc {
	return h.form(http.MethodPost, func(r *http.Request) (map[string]any, error) {
		sectionID, err := formUUID(r, "section_id")
		if err != nil {
			return nil, err
		}
		raw, err := requiredFormValue(r, "position")
		if err != nil {
			return nil, err
		}
		position, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, errs.NewInvalidFieldError("position", "must be an integer")
		}
		section, err := h.service.MoveSection(r.Context(), ctxGetActor(r.Context()), sectionID, position)
		if err != nil {
			return nil, err
		}
		return map[string]any{"position": section.Position}, nil
	})
}

// deleteSection removes a section, keeping its items
// @Summary Inline delete section
// @Tags Editor
// @Accept x-www-form-urlencoded
// @Produce json
// @Param section_id formData string true "Section ID"
// @Success 200 {object} map[string]any "{success: true}"
// @Router /htmx/delete-section/ [post]
func (h htmxHandler) deleteSection() http.HandlerFunc {
	return h.form(http.MethodPost, func(r *http.Request) (map[string]any, error) {
		sectionID, err := formUUID(r, "section_id")
		if err != nil {
			return nil, err
		}
		if err := h.service.DeleteSection(r.Context(), ctxGetActor(r.Context()), sectionID); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

func (h htmxHandler) sectionAndItem(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	sectionID, err := formUUID(r, "section_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	itemID, err := formUUID(r, "item_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return sectionID, itemID, nil
}

// addItemToSection places an item in a section of the same list
// @Summary Inline attach item to section
// @Tags Editor
// @Accept x-www-form-urlencoded
// @Produce json
// @Param section_id formData string true "Section ID"
// @Param item_id formData string true "Item ID"
// @Success 200 {object} map[string]any "{success: true, section_id}"
// @Router /htmx/add-item-to-section/ [post]
func (h htmxHandler) addItemToSection() http.HandlerFunc {
	return h.form(http.MethodPost, func(r *http.Request) (map[string]any, error) {
		sectionID, itemID, err := h.sectionAndItem(r)
		if err != nil {
			return nil, err
		}
		item, err := h.service.AttachItemToSection(r.Context(), ctxGetActor(r.Context()), sectionID, itemID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"section_id": item.SectionID}, nil
	})
}

// removeItemFromSection takes an item out of its section
// @Summary Inline detach item from section
// @Tags Editor
// @Accept x-www-form-urlencoded
// @Produce json
// @Param section_id formData string true "Section ID"
// @Param item_id formData string true "Item ID"
// @Success 200 {object} map[string]any "{success: true}"
// @Router /htmx/remove-item-from-section/ [post]
func (h htmxHandler) removeItemFromSection() http.HandlerFunc {
	return h.form(http.MethodPost, func(r *http.Request) (map[string]any, error) {
		sectionID, itemID, err := h.sectionAndItem(r)
		if err != nil {
			return nil, err
		}
		if _, err := h.service.DetachItemFromSection(r.Context(), ctxGetActor(r.Context()), sectionID, itemID); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// listBagLists feeds the editor's list picker
// @Summary Editor list picker
// @Tags Editor
// @Produce json
// @Success 200 {object} map[string]any "{success: true, baglists}"
// @Router /htmx/baglists/ [get]
func (h htmxHandler) listBagLists() http.HandlerFunc {
	return h.form(http.MethodGet, func(r *http.Request) (map[string]any, error) {
		baglists, err := h.service.ListEditorBagLists(r.Context(), ctxGetActor(r.Context()))
		if err != nil {
			return nil, err
		}
		return map[string]any{"baglists": baglists}, nil
	})
}

// listSections feeds the editor's section picker
// @Summary Editor section picker
// @Tags Editor
// @Produce json
// @Param baglist_id query string true "BagList ID"
// @Success 200 {object} map[string]any "{success: true, sections}"
// @Router /htmx/baglist-sections/ [get]
func (h htmxHandler) listSections() http.HandlerFunc {
	return h.form(http.MethodGet, func(r *http.Request) (map[string]any, error) {
		raw := r.URL.Query().Get("baglist_id")
		if raw == "" {
			return nil, errs.NewMissingRequiredFieldError("baglist_id")
		}
		baglistID, err := uuid.Parse(raw)
		if err != nil {
			return nil, errs.NewInvalidFieldError("baglist_id", "must be a UUID")
		}
		sections, err := h.service.ListSections(r.Context(), ctxGetActor(r.Context()), baglistID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"sections": sections}, nil
	})
}
