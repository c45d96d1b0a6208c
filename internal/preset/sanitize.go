package preset

import (
	"strings"
	"unicode"
)

// Sanitize reduces name to letters, digits, '-', '_' and '.', then strips
// leading and trailing dots. An empty result means the name is unusable.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}
