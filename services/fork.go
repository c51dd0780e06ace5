package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
)

// ForkBagList copies a readable list into actor's lists. The copy is private, keeps the
// source's sections, items, snapshots, field definitions, field values and facet values,
// and records the source in ForkedFromID. Tags belong to their owner and are not copied.
func (s *Service) ForkBagList(ctx context.Context, actor Actor, id uuid.UUID, token string) (*models.BagList, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, err
	}

	var fork *models.BagList
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		source, err := s.readableBagList(ctx, tx, actor, id, token)
		if err != nil {
			return err
		}
		if !source.AllowForks && !source.IsOwnedBy(actor.ProfileID) {
			return errs.NewForbiddenError("this baglist cannot be forked")
		}

		base := forkBase(source.Slug)
		taken, err := tx.BagLists().SlugsWithPrefix(ctx, actor.ProfileID, base)
		if err != nil {
			return dbErr("list", "baglist slugs", err)
		}
		sourceID := source.ID
		fork = &models.BagList{
			OwnerID:       actor.ProfileID,
			Title:         source.Title,
			Description:   source.Description,
			Slug:          nextFreeSlug(base, taken),
			Visibility:    models.VisibilityPrivate,
			CoverImageURL: source.CoverImageURL,
			AllowForks:    true,
			ForkedFromID:  &sourceID,
		}
		fork.ID = uuid.New()
		if err := tx.BagLists().Add(ctx, fork); err != nil {
			return dbErr("create", "baglist", slugConflict(err))
		}

		sectionMap, fieldMap, err := copySections(ctx, tx, source.ID, fork.ID)
		if err != nil {
			return err
		}
		if err := copyItems(ctx, tx, source.ID, fork.ID, sectionMap, fieldMap); err != nil {
			return err
		}
		return copyFacetValues(ctx, tx, source.ID, fork.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("baglistID", fork.ID.String()).
		Str("forkedFrom", id.String()).
		Msg("BagList forked")
	return fork, nil
}

// copySections copies the sections and their field definitions. It returns the new section id
// and the copied definition for every source id.
func copySections(ctx context.Context, tx database.Store, from, to uuid.UUID) (map[uuid.UUID]uuid.UUID, map[uuid.UUID]*models.SectionFieldDef, error) {
	sections, err := tx.Sections().ListByBagList(ctx, from)
	if err != nil {
		return nil, nil, dbErr("list", "sections", err)
	}
	defs, err := tx.Fields().ListDefsBySections(ctx, sectionIDs(sections))
	if err != nil {
		return nil, nil, dbErr("list", "field definitions", err)
	}

	sectionMap := make(map[uuid.UUID]uuid.UUID, len(sections))
	for _, section := range sections {
		copied := &models.BagListSection{
			BagListID:          to,
			Title:              section.Title,
			Description:        section.Description,
			Position:           section.Position,
			CollapsedByDefault: section.CollapsedByDefault,
		}
		copied.ID = uuid.New()
		if err := tx.Sections().Add(ctx, copied); err != nil {
			return nil, nil, dbErr("create", "section", err)
		}
		sectionMap[section.ID] = copied.ID
	}

	fieldMap := make(map[uuid.UUID]*models.SectionFieldDef, len(defs))
	for _, def := range defs {
		copied := &models.SectionFieldDef{
			SectionID:   sectionMap[def.SectionID],
			Name:        def.Name,
			Key:         def.Key,
			Type:        def.Type,
			Unit:        def.Unit,
			EnumOptions: def.EnumOptions,
			Position:    def.Position,
			IsPrimary:   def.IsPrimary,
		}
		copied.ID = uuid.New()
		if err := tx.Fields().AddDef(ctx, copied); err != nil {
			return nil, nil, dbErr("create", "field definition", err)
		}
		fieldMap[def.ID] = copied
	}
	return sectionMap, fieldMap, nil
}

// copyItems copies items with their snapshots and field values. Values of fields that no
// longer belong to the item's section are dropped.
func copyItems(ctx context.Context, tx database.Store, from, to uuid.UUID, sectionMap map[uuid.UUID]uuid.UUID, fieldMap map[uuid.UUID]*models.SectionFieldDef) error {
	items, err := tx.Items().ListByBagList(ctx, from)
	if err != nil {
		return dbErr("list", "items", err)
	}
	values, err := tx.Fields().ListValuesByItems(ctx, itemIDs(items))
	if err != nil {
		return dbErr("list", "field values", err)
	}
	valuesByItem := make(map[uuid.UUID][]*models.BagListItemFieldValue)
	for _, v := range values {
		valuesByItem[v.ItemID] = append(valuesByItem[v.ItemID], v)
	}

	for _, item := range items {
		copied := &models.BagListItem{
			BagListID:   to,
			Position:    item.Position,
			Note:        item.Note,
			Pin:         item.Pin,
			CustomTitle: item.CustomTitle,
		}
		copied.ID = uuid.New()
		if item.SectionID != nil {
			if sectionID, ok := sectionMap[*item.SectionID]; ok {
				copied.SectionID = &sectionID
			}
		}
		if err := tx.Items().Add(ctx, copied); err != nil {
			return dbErr("create", "item", err)
		}

		if item.Snapshot != nil {
			snapshot := *item.Snapshot
			snapshot.ID = uuid.New()
			snapshot.ItemID = copied.ID
			snapshot.Timestamps = models.Timestamps{}
			snapshot.ExternalProduct = nil
			if err := tx.Snapshots().Save(ctx, &snapshot); err != nil {
				return dbErr("create", "snapshot", err)
			}
		}

		for _, v := range valuesByItem[item.ID] {
			def, ok := fieldMap[v.FieldID]
			if !ok || !copied.InSection(def.SectionID) {
				continue
			}
			value := &models.BagListItemFieldValue{ItemID: copied.ID, FieldID: def.ID}
			value.Set(v.Get())
			value.ID = uuid.New()
			if err := tx.Fields().SaveValue(ctx, value); err != nil {
				return dbErr("create", "field value", err)
			}
		}
	}
	return nil
}

func copyFacetValues(ctx context.Context, tx database.Store, from, to uuid.UUID) error {
	values, err := tx.Facets().ListValuesByBagList(ctx, from)
	if err != nil {
		return dbErr("list", "facet values", err)
	}
	for _, v := range values {
		copied := &models.BagListFacetValue{
			BagListID:   to,
			FacetID:     v.FacetID,
			OptionID:    v.OptionID,
			NumericUnit: v.NumericUnit,
		}
		if v.NumericValue != nil {
			n := *v.NumericValue
			copied.NumericValue = &n
		}
		copied.ID = uuid.New()
		if err := tx.Facets().AddValue(ctx, copied); err != nil {
			return dbErr("create", "facet value", err)
		}
	}
	return nil
}
