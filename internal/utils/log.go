package utils

import "strings"

// TruncateForLog renders prompts and model replies as a one-line preview:
// whitespace runs collapse to a single space and anything past limit runes
// is cut and marked with "...".
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	preview := strings.Join(strings.Fields(s), " ")
	runes := 0
	for i := range preview {
		if runes == limit {
			return preview[:i] + "..."
		}
		runes++
	}
	return preview
}
