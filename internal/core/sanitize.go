// AngelaMos | 2026
// sanitize.go

package core

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	controlRe  = regexp.MustCompile("[\x00\x08\x09\x1a\n\r\"'\\\\]")
	sqlBlockRe = regexp.MustCompile(`/\*|\*/`)
)

// SanitizeText strips markup, control characters and SQL comment/delimiter
// tokens from free-text input and caps its length. Queries are parameterized
// everywhere; this is defense-in-depth for text that gets stored and
// re-rendered.
func SanitizeText(input string, max int) string {
	s := htmlTagRe.ReplaceAllString(input, "")
	s = controlRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "--", " ")
	s = sqlBlockRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, ";", " ")
	s = strings.TrimSpace(s)

	if max > 0 && len(s) > max {
		// cut on a rune boundary so multibyte input stays valid UTF-8
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimRight(s[:cut], " ")
	}

	return s
}

// SanitizeTextPtr is SanitizeText for optional fields; nil stays nil and a
// value that sanitizes to empty becomes nil.
func SanitizeTextPtr(input *string, max int) *string {
	if input == nil {
		return nil
	}

	s := SanitizeText(*input, max)
	if s == "" {
		return nil
	}

	return &s
}
