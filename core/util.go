package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CleanString trims all leading and trailing whitespace in `s`, composes it to NFC and optionally case folds it.
func CleanString(s string, lower ...bool) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if len(lower) > 0 && lower[0] {
		return fold(s)
	}
	return s
}

// SameName reports whether a and b are equal once trimmed, composed and case folded.
func SameName(a, b string) bool {
	return CleanString(a, true) == CleanString(b, true)
}

// ContainsFold reports whether substr is within s, ignoring case and composition.
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(norm.NFC.String(s)), fold(norm.NFC.String(substr)))
}

// a Caser keeps state between calls
func fold(s string) string {
	return cases.Fold().String(s)
}
