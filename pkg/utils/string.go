package utils

// Truncate caps s at maxLen bytes, marking the cut with an ellipsis. Used to
// keep long stream payloads from flooding debug log lines.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
