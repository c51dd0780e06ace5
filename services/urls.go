package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rpupo63/baglist-backend/config"
)

// URLBuilder builds public links to lists.
type URLBuilder struct {
	BaseURL string
}

// NewURLBuilder reads BASE_URL from the configuration map produced by config.New.
func NewURLBuilder(cfg map[string]string) URLBuilder {
	return URLBuilder{BaseURL: config.GetString(cfg, "BASE_URL", "")}
}

// BagListURL constructs the public read URL of a list
// (e.g. "https://example.com/ana/baglist/japan-trip").
// It returns "" when the base URL, handle or slug is missing.
func (b URLBuilder) BagListURL(handle, slug string) string {
	if b.BaseURL == "" || handle == "" || slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/baglist/%s",
		strings.TrimSuffix(b.BaseURL, "/"), url.PathEscape(handle), url.PathEscape(slug))
}

// ShareURL is BagListURL with the share token appended for unlisted lists.
func (b URLBuilder) ShareURL(handle, slug, token string) string {
	link := b.BagListURL(handle, slug)
	if link == "" || token == "" {
		return link
	}
	return link + "?token=" + url.QueryEscape(token)
}

// isHTTPURL reports whether raw is an absolute http or https URL with a host.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
