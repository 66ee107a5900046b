// Package slug derives URL slugs from entity display names. Czech names
// carry diacritics, so everything is transliterated to ASCII first.
package slug

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const maxLen = 80

// Make turns "Úklid Nováková & syn" into "uklid-novakova-syn".
func Make(name string) string {
	ascii := unidecode.Unidecode(strings.TrimSpace(name))
	ascii = strings.ToLower(ascii)

	var b strings.Builder
	prevDash := true // trims leading dashes
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}
