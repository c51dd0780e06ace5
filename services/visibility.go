package services

import (
	"crypto/subtle"

	"github.com/rpupo63/baglist-backend/models"
)

// CanRead reports whether actor may see baglist. token is the share token presented with
// the request, if any. Soft-deleted lists are never readable.
func CanRead(baglist models.BagList, actor Actor, token string) bool {
	if baglist.IsDeleted {
		return false
	}
	if actor.HasProfile() && baglist.IsOwnedBy(actor.ProfileID) {
		return true
	}
	switch baglist.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityRegistered:
		return actor.Authenticated()
	case models.VisibilityUnlisted:
		return baglist.ShareToken != nil && token != "" &&
			subtle.ConstantTimeCompare([]byte(*baglist.ShareToken), []byte(token)) == 1
	default:
		return false
	}
}

// listedVisibilities are the visibilities shown on a profile page to actor.
// Unlisted lists are reachable only by link and never listed.
func listedVisibilities(actor Actor) []models.Visibility {
	if actor.Authenticated() {
		return []models.Visibility{models.VisibilityPublic, models.VisibilityRegistered}
	}
	return []models.Visibility{models.VisibilityPublic}
}
