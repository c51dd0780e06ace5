package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRoutes registers every route. Paths are matched with and without a trailing slash.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, maxFormBytes int64) {
	r.Get("/healthz", handlers.healthHandler.health())

	r.With(auth.identify).Get("/{handle}/baglist/{slug}", handlers.readHandler.getBagListBySlug())

	// Inline-edit endpoints
	r.Route("/htmx", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxFormBytes))
		r.Use(auth.authenticateForm)

		r.HandleFunc("/update-section-title", handlers.htmxHandler.updateSectionTitle())
		r.HandleFunc("/update-section-description", handlers.htmxHandler.updateSectionDescription())
		r.HandleFunc("/update-section-position", handlers.htmxHandler.updateSectionPosition())
		r.HandleFunc("/delete-section", handlers.htmxHandler.deleteSection())
		r.HandleFunc("/add-item-to-section", handlers.htmxHandler.addItemToSection())
		r.HandleFunc("/remove-item-from-section", handlers.htmxHandler.removeItemFromSection())
		r.HandleFunc("/baglists", handlers.htmxHandler.listBagLists())
		r.HandleFunc("/baglist-sections", handlers.htmxHandler.listSections())
	})

	r.Route("/api", func(r chi.Router) {
		// Public reads, personalised when a token is present
		r.Group(func(r chi.Router) {
			r.Use(auth.identify)

			r.Get("/profiles/{handle}", handlers.profileHandler.getProfile())
			r.Get("/profiles/{handle}/baglists", handlers.profileHandler.listProfileBagLists())
			r.Get("/facets", handlers.facetHandler.listFacets())
			r.Get("/products/{productID}", handlers.productHandler.getProduct())
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			setupAPIRoutes(r, handlers)
		})
	})
}

// setupAPIRoutes registers the JSON API routes that require a bearer token.
func setupAPIRoutes(r chi.Router, handlers *routeHandlers) {
	r.Post("/profiles", handlers.profileHandler.createProfile())
	r.Get("/me", handlers.profileHandler.getMe())
	r.Patch("/me", handlers.profileHandler.updateMe())

	r.Get("/baglists", handlers.baglistHandler.listBagLists())
	r.Post("/baglists", handlers.baglistHandler.createBagList())
	r.Route("/baglists/{baglistID}", func(r chi.Router) {
		r.Get("/", handlers.baglistHandler.getBagList())
		r.Patch("/", handlers.baglistHandler.updateBagList())
		r.Delete("/", handlers.baglistHandler.deleteBagList())
		r.Post("/restore", handlers.baglistHandler.restoreBagList())
		r.Delete("/purge", handlers.baglistHandler.purgeBagList())
		r.Post("/share-token", handlers.baglistHandler.rotateShareToken())
		r.Post("/fork", handlers.baglistHandler.forkBagList())
		r.Post("/cover-upload", handlers.baglistHandler.presignCoverUpload())

		r.Post("/sections", handlers.sectionHandler.createSection())
		r.Post("/items", handlers.itemHandler.createItem())

		r.Post("/tags", handlers.tagHandler.tagBagList())
		r.Delete("/tags/{tagID}", handlers.tagHandler.untagBagList())
		r.Post("/facets", handlers.facetHandler.setFacetValue())
		r.Delete("/facets/{valueID}", handlers.facetHandler.removeFacetValue())
		r.Put("/favorite", handlers.favoriteHandler.favoriteBagList())
		r.Delete("/favorite", handlers.favoriteHandler.unfavoriteBagList())
	})

	r.Route("/sections/{sectionID}", func(r chi.Router) {
		r.Patch("/", handlers.sectionHandler.updateSection())
		r.Delete("/", handlers.sectionHandler.deleteSection())
		r.Post("/move", handlers.sectionHandler.moveSection())
		r.Post("/fields", handlers.fieldHandler.createFieldDef())
	})

	r.Route("/items/{itemID}", func(r chi.Router) {
		r.Patch("/", handlers.itemHandler.updateItem())
		r.Delete("/", handlers.itemHandler.deleteItem())
		r.Post("/move", handlers.itemHandler.moveItem())
		r.Put("/product", handlers.itemHandler.attachProduct())
		r.Post("/product/resync", handlers.itemHandler.resyncSnapshot())
		r.Get("/fields", handlers.fieldHandler.listItemFields())
		r.Put("/fields/{fieldID}", handlers.fieldHandler.setItemFieldValue())
		r.Delete("/fields/{fieldID}", handlers.fieldHandler.clearItemFieldValue())
		r.Put("/favorite", handlers.favoriteHandler.favoriteItem())
		r.Delete("/favorite", handlers.favoriteHandler.unfavoriteItem())
	})

	r.Patch("/fields/{fieldID}", handlers.fieldHandler.updateFieldDef())
	r.Delete("/fields/{fieldID}", handlers.fieldHandler.deleteFieldDef())

	r.Get("/tags", handlers.tagHandler.listTags())
	r.Post("/tags", handlers.tagHandler.createTag())
	r.Delete("/tags/{tagID}", handlers.tagHandler.deleteTag())

	r.Get("/favorites", handlers.favoriteHandler.listFavorites())

	r.Post("/products", handlers.productHandler.createProduct())
	r.Patch("/products/{productID}", handlers.productHandler.updateProduct())
}
