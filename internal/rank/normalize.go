// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores papers against the user's interests and applies the
// filter/sort/limit selection policy.
package rank

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, replaces punctuation with spaces, and collapses
// runs of whitespace. Applied identically to author names and free text so
// "P. Hopkins" and "Philip F. Hopkins" reduce to comparable forms.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
