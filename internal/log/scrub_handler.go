package log

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue replaces scrubbed values in log output.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"password":      true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"session":       true,
	"session_id":    true,
}

// sensitiveQueryParams are URL query parameters whose values are masked
// when a URL-valued attribute is scrubbed.
var sensitiveQueryParams = map[string]bool{
	"token":        true,
	"access_token": true,
	"api_key":      true,
	"apikey":       true,
	"key":          true,
	"session":      true,
	"sid":          true,
	"signature":    true,
	"sig":          true,
}

// ScrubHandler wraps an slog.Handler and sanitizes attributes before
// they are emitted.
//
// Design decision: A handler wrapper rather than helper functions at
// call sites, because it works with any underlying handler (text, JSON)
// and makes scrubbing impossible to forget: attributes added via With
// are sanitized the same way as per-record ones.
type ScrubHandler struct {
	handler slog.Handler
}

// NewScrubHandler wraps the given handler. A nil handler falls back to
// slog.Default's.
func NewScrubHandler(handler slog.Handler) *ScrubHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ScrubHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *ScrubHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and forwards it.
func (h *ScrubHandler) Handle(ctx context.Context, r slog.Record) error {
	scrubbed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		scrubbed.AddAttrs(h.scrubAttr(a))
		return true
	})
	return h.handler.Handle(ctx, scrubbed)
}

// WithAttrs returns a handler with sanitized attributes added.
func (h *ScrubHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		scrubbed = append(scrubbed, h.scrubAttr(a))
	}
	return &ScrubHandler{handler: h.handler.WithAttrs(scrubbed)}
}

// WithGroup returns a handler with the given group name.
func (h *ScrubHandler) WithGroup(name string) slog.Handler {
	return &ScrubHandler{handler: h.handler.WithGroup(name)}
}

// scrubAttr sanitizes a single attribute, recursing into groups.
func (h *ScrubHandler) scrubAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		scrubbed := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			scrubbed = append(scrubbed, h.scrubAttr(ga))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(scrubbed...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if scrubbed, changed := ScrubURL(a.Value.String()); changed {
			return slog.String(a.Key, scrubbed)
		}
	}
	return a
}

// ScrubURL removes credentials from a URL string: userinfo is dropped
// entirely and sensitive query parameter values are masked. The second
// return value reports whether anything was changed; non-URL strings
// come back untouched.
func ScrubURL(s string) (string, bool) {
	if !strings.Contains(s, "://") {
		return s, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s, false
	}

	changed := false
	if u.User != nil {
		u.User = nil
		changed = true
	}

	if u.RawQuery != "" {
		values, err := url.ParseQuery(u.RawQuery)
		if err == nil {
			masked := false
			for key := range values {
				if sensitiveQueryParams[strings.ToLower(key)] {
					values[key] = []string{MaskValue}
					masked = true
				}
			}
			if masked {
				u.RawQuery = values.Encode()
				changed = true
			}
		}
	}

	if !changed {
		return s, false
	}
	return u.String(), true
}
