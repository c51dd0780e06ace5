package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
	validSlug       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

const maxSlugLength = 100

// Slugify converts a title to a URL-safe slug.
// "Japan Trip" -> "japan-trip".
// "Mochila Ñandú 2024" -> "mochila-nandu-2024".
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return len(s) <= maxSlugLength && validSlug.MatchString(s)
}

// forkBase cuts slug short enough to take a "-copy-N" suffix.
func forkBase(slug string) string {
	if len(slug) > maxSlugLength-10 {
		return strings.TrimRight(slug[:maxSlugLength-10], "-")
	}
	return slug
}

// nextFreeSlug returns base+"-copy", then base+"-copy-2", ... skipping every slug in taken.
// base must already be cut with forkBase.
func nextFreeSlug(base string, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	candidate := base + "-copy"
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-copy-%d", base, n)
	}
	return candidate
}
