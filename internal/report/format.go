package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/crawlbound/crawlbound/internal/model"
)

// timeRounding keeps durations readable in reports.
const timeRounding = 10 * time.Millisecond

// terminationText maps a termination reason to a short human phrase.
func terminationText(r model.TerminationReason) string {
	switch r {
	case model.TerminationFrontierExhausted:
		return "frontier exhausted (all reachable pages fetched)"
	case model.TerminationMaxPages:
		return "page budget reached"
	case model.TerminationAdaptive:
		return "adaptive threshold reached (enough content gathered)"
	case model.TerminationDeadline:
		return "run deadline exceeded (partial results)"
	case model.TerminationCancelled:
		return "cancelled (partial results)"
	default:
		return string(r)
	}
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// preview returns the first maxLen characters of s, collapsed to a
// single trailing ellipsis when truncated.
func preview(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
