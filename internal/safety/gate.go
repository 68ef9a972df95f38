package safety

import (
	"net/netip"
	"net/url"
	"strings"
)

// Denial reasons reported in a Verdict.
// These strings end up in page records and logs, so they are stable
// identifiers rather than prose.
const (
	// ReasonInvalidURL marks URLs that fail to parse or lack a hostname.
	ReasonInvalidURL = "invalid_url"

	// ReasonUnsupportedScheme marks non-http(s) URLs such as file:// or ftp://.
	ReasonUnsupportedScheme = "unsupported_scheme"

	// ReasonInternalNetwork marks localhost and private, loopback,
	// link-local, multicast, or otherwise non-public IP targets.
	ReasonInternalNetwork = "internal_network"

	// ReasonInternalDomain marks hostnames under blocked internal
	// suffixes such as .local or .internal.
	ReasonInternalDomain = "internal_domain"
)

// localHostnames are names that lexically identify the local machine.
// These are checked by name because the gate never performs DNS lookups.
var localHostnames = map[string]bool{
	"localhost":     true,
	"ip6-localhost": true,
}

// defaultBlockedSuffixes are DNS suffixes conventionally used for
// internal networks. URLs under these suffixes are denied even though
// the names would not resolve to anything from the public internet.
var defaultBlockedSuffixes = []string{".local", ".internal", ".lan"}

// Verdict is the gate's decision for one URL.
// It is stateless and derived purely from the URL and the policy.
type Verdict struct {
	// Allowed reports whether the URL may be fetched.
	Allowed bool

	// Reason identifies why a URL was denied. Empty when allowed.
	Reason string
}

// deny builds a denial verdict with the given reason.
func deny(reason string) Verdict {
	return Verdict{Allowed: false, Reason: reason}
}

// allow is the verdict for admissible URLs.
var allow = Verdict{Allowed: true}

// Gate validates URLs against a static admission policy.
//
// Design decision: The gate works lexically and never resolves hostnames.
// DNS-based checks would add network latency to every frontier entry and
// are themselves a side channel; the transport layer is still free to add
// a dial-time guard, but admission control must stay cheap and pure.
type Gate struct {
	// blockedSuffixes are lowercase DNS suffixes that are always denied.
	blockedSuffixes []string
}

// Option configures a Gate.
type Option func(*Gate)

// WithBlockedSuffixes adds DNS suffixes to deny beyond the defaults.
// Suffixes are matched case-insensitively and should include the leading
// dot (e.g. ".corp").
func WithBlockedSuffixes(suffixes ...string) Option {
	return func(g *Gate) {
		for _, s := range suffixes {
			g.blockedSuffixes = append(g.blockedSuffixes, strings.ToLower(s))
		}
	}
}

// NewGate creates a Gate with the default policy plus any options.
func NewGate(opts ...Option) *Gate {
	g := &Gate{
		blockedSuffixes: append([]string(nil), defaultBlockedSuffixes...),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check decides whether a URL may be fetched.
// Rules apply in order and the first match wins; deny always takes
// priority over allow. Check never returns an error: malformed input is
// itself a denial.
func (g *Gate) Check(rawURL string) Verdict {
	u, err := url.Parse(rawURL)
	if err != nil {
		return deny(ReasonInvalidURL)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return deny(ReasonUnsupportedScheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return deny(ReasonInvalidURL)
	}

	if localHostnames[host] {
		return deny(ReasonInternalNetwork)
	}

	// IP literals are classified directly. Everything that is not
	// unambiguously public is denied: private (RFC1918 and ULA),
	// loopback, link-local, multicast, and the unspecified address.
	if addr, err := netip.ParseAddr(host); err == nil {
		if !isPublicAddr(addr) {
			return deny(ReasonInternalNetwork)
		}
		return allow
	}

	for _, suffix := range g.blockedSuffixes {
		if strings.HasSuffix(host, suffix) {
			return deny(ReasonInternalDomain)
		}
	}

	return allow
}

// isPublicAddr reports whether an IP address is plausibly routable on the
// public internet.
func isPublicAddr(addr netip.Addr) bool {
	if addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() {
		return false
	}
	return true
}
