package recorder

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugLength keeps artifact filenames comfortably inside filesystem
// name limits even after a collision suffix is appended.
const maxSlugLength = 180

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9\-_.]+`)
	slugSqueeze  = regexp.MustCompile(`_+`)
	slugStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// slugify converts arbitrary text into a safe filename fragment.
// Accented characters are decomposed and their marks dropped, so
// "café/menü" becomes "cafe_menu" rather than being mangled into
// underscores wholesale.
func slugify(text string) string {
	if stripped, _, err := transform.String(slugStripper, text); err == nil {
		text = stripped
	}
	text = strings.ToLower(strings.TrimSpace(text))
	text = slugInvalid.ReplaceAllString(text, "_")
	text = strings.Trim(slugSqueeze.ReplaceAllString(text, "_"), "_")
	if text == "" {
		return "index"
	}
	if len(text) > maxSlugLength {
		text = text[:maxSlugLength]
	}
	return text
}

// pageSlug derives the artifact base name for a page URL:
// hostname plus path with slashes flattened to underscores.
// Collisions between URLs that flatten identically are handled by the
// store with a numeric suffix, not here.
func pageSlug(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "page"
	}

	host := u.Host
	if host == "" {
		host = "site"
	}
	pathPart := strings.ReplaceAll(strings.Trim(u.Path, "/"), "/", "_")
	if pathPart == "" {
		pathPart = "index"
	}

	return slugify(host + "_" + pathPart)
}
