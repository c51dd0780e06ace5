package api

import (
	"time"

	"github.com/rpupo63/baglist-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(service *services.Service, db Pinger, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		baglistHandler:  newBagListHandler(service),
		readHandler:     newReadHandler(service),
		profileHandler:  newProfileHandler(service),
		sectionHandler:  newSectionHandler(service),
		itemHandler:     newItemHandler(service),
		fieldHandler:    newFieldHandler(service),
		tagHandler:      newTagHandler(service),
		facetHandler:    newFacetHandler(service),
		favoriteHandler: newFavoriteHandler(service),
		productHandler:  newProductHandler(service),
		htmxHandler:     newHTMXHandler(service),
		healthHandler:   newHealthHandler(db, startupTime),
	}
}
