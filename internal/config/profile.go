package config

// HostProfile holds crawl settings for a single host.
// Profiles customize fetch behavior for sites that need authentication
// headers, a different depth, or tighter URL filtering.
type HostProfile struct {
	// Headers are custom HTTP headers to include in requests to this
	// host, for example a cookie or an authorization token.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Depth overrides the global max depth for crawls seeded at this
	// host. If zero, the global value is used.
	Depth int `yaml:"depth,omitempty"`

	// IncludePatterns and ExcludePatterns extend the global URL filters
	// for this host. Patterns are Go regular expressions matched against
	// the full URL.
	IncludePatterns []string `yaml:"includePatterns,omitempty"`
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`
}

// File represents the structure of the .crawlbound configuration file.
type File struct {
	// Hosts maps hostnames to their profiles. Keys are bare hostnames
	// without scheme or port (e.g. "docs.example.com").
	Hosts map[string]HostProfile `yaml:"hosts,omitempty"`

	// Defaults is applied to every host unless overridden by a
	// host-specific profile.
	Defaults HostProfile `yaml:"defaults,omitempty"`
}

// ProfileFor returns the effective profile for a hostname, merging the
// host-specific profile over the defaults.
func (cf *File) ProfileFor(host string) HostProfile {
	result := cf.Defaults

	profile, ok := cf.Hosts[host]
	if !ok {
		return result
	}

	if profile.UserAgent != "" {
		result.UserAgent = profile.UserAgent
	}
	if profile.Depth != 0 {
		result.Depth = profile.Depth
	}
	if len(profile.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(profile.Headers))
		}
		for k, v := range profile.Headers {
			result.Headers[k] = v
		}
	}
	if len(profile.IncludePatterns) > 0 {
		result.IncludePatterns = profile.IncludePatterns
	}
	if len(profile.ExcludePatterns) > 0 {
		result.ExcludePatterns = profile.ExcludePatterns
	}
	return result
}
