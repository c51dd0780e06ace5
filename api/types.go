package api

import "github.com/rpupo63/baglist-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	baglistHandler  baglistHandler
	readHandler     readHandler
	profileHandler  profileHandler
	sectionHandler  sectionHandler
	itemHandler     itemHandler
	fieldHandler    fieldHandler
	tagHandler      tagHandler
	facetHandler    facetHandler
	favoriteHandler favoriteHandler
	productHandler  productHandler
	htmxHandler     htmxHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"baglist not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// FormResponse is the failure shape of the inline-edit endpoints.
type FormResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty" example:"section not found"`
}

// MoveRequest repositions a section or an item.
type MoveRequest struct {
	Position *int `json:"position"`
}

// FieldValueRequest sets one custom field of an item.
type FieldValueRequest struct {
	Value string `json:"value"`
}

// TagRequest attaches an existing tag to a list.
type TagRequest struct {
	TagID string `json:"tag_id"`
}

// CoverUploadRequest asks for a presigned cover image upload.
type CoverUploadRequest struct {
	ContentType string `json:"content_type"`
}

// OwnedBagList is a list as returned to its owner, the only reader that sees its share token.
type OwnedBagList struct {
	*models.BagList
	ShareToken *string `json:"share_token,omitempty" example:"V1StGXR8Z5jdHi6BmyT5Aa"`
}

func ownedBagList(baglist *models.BagList) OwnedBagList {
	return OwnedBagList{BagList: baglist, ShareToken: baglist.ShareToken}
}

func ownedBagLists(baglists []*models.BagList) []OwnedBagList {
	out := make([]OwnedBagList, 0, len(baglists))
	for _, b := range baglists {
		out = append(out, ownedBagList(b))
	}
	return out
}

// ShareTokenResponse is returned after rotating the share link of an unlisted list.
type ShareTokenResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url,omitempty"`
}
