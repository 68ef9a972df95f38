// Package safety implements the URL admission gate.
//
// Every URL — seed or discovered link — passes through the gate before any
// network access. The gate is a pure function of the URL and a static
// policy: it never resolves DNS or touches the network, so a malicious
// redirect or a discovered internal link cannot trigger a fetch to a
// private target.
package safety
