package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog/log"
)

type productHandler struct {
	responder Responder
	service   *services.Service
}

func newProductHandler(service *services.Service) productHandler {
	logger := log.With().Str("handlerName", "productHandler").Logger()
	return productHandler{responder: NewResponder(logger), service: service}
}

// createProduct adds a product to the catalog
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body services.CreateProductInput true "Product data"
// @Success 201 {object} models.ExternalProduct
// @Router /api/products [post]
func (h productHandler) createProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateProductInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		product, err := h.service.CreateProduct(r.Context(), ctxGetActor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, product)
	}
}

// getProduct returns a catalog product
// @Summary Get product
// @Tags Products
// @Produce json
// @Param productID path string true "Product ID" format(uuid)
// @Success 200 {object} models.ExternalProduct
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{productID} [get]
func (h productHandler) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "productID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		product, err := h.service.GetProduct(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, product)
	}
}

// updateProduct edits a catalog product without touching existing snapshots
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Param productID path string true "Product ID" format(uuid)
// @Param product body services.UpdateProductInput true "Fields to change"
// @Success 200 {object} models.ExternalProduct
// @Router /api/products/{productID} [patch]
func (h productHandler) updateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "productID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.UpdateProductInput
		if err := readJSON(r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		product, err := h.service.UpdateProduct(r.Context(), ctxGetActor(r.Context()), id, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, product)
	}
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder   Responder
	db          Pinger
	startupTime time.Time
}

func newHealthHandler(db Pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger), db: db, startupTime: startupTime}
}

// health reports liveness and database reachability
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /healthz [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := h.db.Ping(ctx); err != nil {
				h.responder.WriteError(w, errs.NewServiceUnavailableError("database", err))
				return
			}
		}
		h.responder.WriteJSON(w, map[string]string{
			"status": "ok",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
