package validators

import "strings"

// MaxEmailLength bounds email values taken from query strings and form fields.
const MaxEmailLength = 254

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// OptionalString returns nil for blank input.
func OptionalString(input string, maxLen int) *string {
	v := SanitizeString(input, maxLen)
	if v == "" {
		return nil
	}
	return &v
}
