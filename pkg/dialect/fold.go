package dialect

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of an identifier for case-insensitive comparison.
// ASCII input takes a fast path; anything else goes through Unicode case folding.
func Fold(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			return cases.Fold().String(name)
		}
	}
	return strings.ToLower(name)
}

// EqualFold reports whether two identifiers are equal under case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
