package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate and name exactly what is wrong,
// so the CLI can print them as-is and callers can branch with errors.Is.
//
// Design decision: Package-level sentinel errors rather than errors
// created inside Validate. Request-shape problems (seeds, depth, budget)
// have their own sentinels in the model package; the errors here cover
// only concerns that exist at the CLI/config layer.
var (
	// ErrNoSeeds is returned when no seed URL was given on the command
	// line or through a list file.
	ErrNoSeeds = errors.New("no seed URL specified: pass at least one URL")

	// ErrInvalidRenderer is returned for an unknown --renderer value.
	ErrInvalidRenderer = errors.New("invalid renderer: must be \"http\" or \"chrome\"")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the body-size cap is
	// negative. Zero means use the default.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
