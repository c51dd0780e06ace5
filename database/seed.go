package database

import (
	"context"

	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type seedOption struct {
	code  string
	label string
	extra datatypes.JSONMap
}

type seedFacet struct {
	key     models.FacetKey
	label   string
	options []seedOption
}

// facetVocabulary is the system vocabulary written at startup. Duration carries no options.
var facetVocabulary = []seedFacet{
	{
		key:   models.FacetCountry,
		label: "Country",
		options: []seedOption{
			{code: "ES", label: "Spain", extra: datatypes.JSONMap{"flag": "🇪🇸"}},
			{code: "FR", label: "France", extra: datatypes.JSONMap{"flag": "🇫🇷"}},
			{code: "IT", label: "Italy", extra: datatypes.JSONMap{"flag": "🇮🇹"}},
			{code: "JP", label: "Japan", extra: datatypes.JSONMap{"flag": "🇯🇵"}},
			{code: "MX", label: "Mexico", extra: datatypes.JSONMap{"flag": "🇲🇽"}},
			{code: "PT", label: "Portugal", extra: datatypes.JSONMap{"flag": "🇵🇹"}},
			{code: "US", label: "United States", extra: datatypes.JSONMap{"flag": "🇺🇸"}},
		},
	},
	{
		key:   models.FacetSeason,
		label: "Season",
		options: []seedOption{
			{code: "spring", label: "Spring"},
			{code: "summer", label: "Summer"},
			{code: "autumn", label: "Autumn"},
			{code: "winter", label: "Winter"},
		},
	},
	{
		key:   models.FacetDuration,
		label: "Duration",
	},
	{
		key:   models.FacetUse,
		label: "Use",
		options: []seedOption{
			{code: "travel", label: "Travel"},
			{code: "business", label: "Business"},
			{code: "hiking", label: "Hiking"},
			{code: "camping", label: "Camping"},
			{code: "beach", label: "Beach"},
			{code: "ski", label: "Ski"},
			{code: "everyday", label: "Everyday carry"},
		},
	},
}

// SeedFacets upserts the facet vocabulary. Running it again adds only what is missing.
func SeedFacets(ctx context.Context, store Store) error {
	return store.Transaction(ctx, func(tx Store) error {
		for _, f := range facetVocabulary {
			facet, err := tx.Facets().EnsureFacet(ctx, &models.Facet{Key: f.key, Label: f.label})
			if err != nil {
				return errs.NewDatabaseError("seed", "facet", err)
			}
			for _, o := range f.options {
				extra := o.extra
				if extra == nil {
					extra = datatypes.JSONMap{}
				}
				option := &models.FacetOption{FacetID: facet.ID, Code: o.code, Label: o.label, Extra: extra}
				if err := tx.Facets().EnsureOption(ctx, option); err != nil {
					return errs.NewDatabaseError("seed", "facet option", err)
				}
			}
		}
		log.Info().Int("facets", len(facetVocabulary)).Msg("Facet vocabulary seeded")
		return nil
	})
}
