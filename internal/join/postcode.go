package join

import (
	"strings"
	"unicode"
)

// NormalizePostcode returns the join key: uppercase with all whitespace removed
// "SW1A 1AA", "sw1a1aa" and " sw1a\t1aa " all become "SW1A1AA".
func NormalizePostcode(postcode string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, postcode)
}
