package frontier

import (
	"net/url"
	"sort"
	"strings"
)

// Normalize canonicalizes a URL for visited-set identity.
//
// Two URLs that normalize identically are treated as the same page:
//   - scheme and host are lowercased
//   - the fragment is stripped (anchors do not change content)
//   - an empty path becomes "/" so example.com and example.com/ match
//   - query parameters are sorted by key, because parameter order is
//     almost never significant to the served content
//
// Unparsable input is returned unchanged; the safety gate rejects it
// before it can matter.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawQuery = sortQuery(u.RawQuery)

	return u.String()
}

// sortQuery rewrites a raw query string with its keys in sorted order.
// Values within a repeated key keep their original relative order.
func sortQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			if v != "" {
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(v))
			}
		}
	}
	return b.String()
}
