// Package log provides a slog handler that scrubs secrets from crawl
// logs before they reach the underlying handler.
//
// A crawler logs every URL it touches, and URLs routinely embed
// credentials: basic-auth userinfo, signed-URL tokens, session IDs in
// query strings. The handler removes those at the logging boundary so no
// call site has to remember to sanitize.
package log
