package util

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/encoding/charmap"
)

// ToValidUTF8 ensures a string is valid UTF-8.
// Legacy rows imported into the backend from spreadsheets sometimes carry
// Latin-1 bytes; decoding them as ISO-8859-1 keeps names like "Müller" intact.
func ToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err == nil {
		return decoded
	}

	// Latin-1 maps 1:1 to code points 0-255
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}

// Suggest returns the candidate closest to input by edit distance, or ""
// when nothing is within a third of the input's length.
func Suggest(input string, candidates []string) string {
	input = strings.ToLower(input)
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(input, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(input)/3 + 1
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
