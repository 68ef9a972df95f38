// Package config provides configuration structures and utilities for
// crawlbound. It defines the run options populated from CLI flags, the
// .crawlbound YAML file with per-host crawl profiles, and the XDG
// directory helpers used for default storage locations.
package config
