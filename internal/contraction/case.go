package contraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AdjustCase shapes expansion after the casing of original:
//   - all upper-case original ("DON'T") upper-cases the whole expansion;
//   - an upper-case first character ("Don't") capitalises the expansion;
//   - anything else returns the expansion unchanged.
func AdjustCase(expansion, original string) string {
	if original == "" || expansion == "" {
		return expansion
	}
	if isAllUpper(original) {
		return strings.ToUpper(expansion)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(expansion)
		return string(unicode.ToUpper(r)) + expansion[size:]
	}
	return expansion
}

// isAllUpper reports whether s has at least one cased letter and no
// lower-case ones. Apostrophes and other uncased characters are ignored.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
