package identity

import "strings"

// NormalizeName canonicalises a login name: trimmed and lower-cased.
// Names are unique case-insensitively.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
