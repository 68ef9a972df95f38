package crawler

import "errors"

// ErrAllSeedsDenied is returned when the safety gate rejects every seed
// URL. The request is refused as a whole and no manifest is created;
// partial denials are recorded as failed pages instead.
var ErrAllSeedsDenied = errors.New("all seed URLs denied by safety gate")
