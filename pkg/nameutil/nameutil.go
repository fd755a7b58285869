// Package nameutil provides the string transforms used when deriving package
// identifiers and path-safe version strings from a descriptor.
package nameutil

import "strings"

// Uppercase derives a package's variable prefix from its human-readable name.
// Lowercase ASCII letters are mapped to uppercase, '.' and '-' are mapped to
// '_', and all other characters pass through unchanged.
func Uppercase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case c == '.' || c == '-':
			b.WriteByte('_')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// SanitizeVersion makes a version string safe for use in filesystem paths.
// Version strings may name version-control refs such as
// "remotes/origin/1_10_stable"; the slashes cannot appear in directory names,
// so they are rewritten to underscores. The raw version string is still what
// gets handed to the retrieval backend.
func SanitizeVersion(v string) string {
	return strings.ReplaceAll(v, "/", "_")
}
