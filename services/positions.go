package services

import (
	"slices"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/models"
)

// moveTo returns ids with id moved to index target, clamped to the valid range, and the
// index it ended up at. ids is left untouched.
func moveTo(ids []uuid.UUID, id uuid.UUID, target int) ([]uuid.UUID, int) {
	from := slices.Index(ids, id)
	if from < 0 {
		return slices.Clone(ids), -1
	}
	rest := slices.Delete(slices.Clone(ids), from, from+1)
	target = max(0, min(target, len(rest)))
	return slices.Insert(rest, target, id), target
}

// without returns ids minus id, preserving order.
func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(slices.Clone(ids), func(other uuid.UUID) bool { return other == id })
}

func sectionIDs(sections []*models.BagListSection) []uuid.UUID {
	ids := make([]uuid.UUID, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

func itemIDs(items []*models.BagListItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
