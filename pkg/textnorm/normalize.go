// Package textnorm canonicalizes free text, builds comparison keys for
// personal names and repairs capitalization of names and organizations.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalizer transforms a term before lookup.
type Normalizer func(string) string

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	keyDropRe = regexp.MustCompile(`[^A-Za-zА-Яа-яЁё\-\s.]+`)
	tokDropRe = regexp.MustCompile(`[^A-Za-zА-Яа-яЁё\-\s]+`)
)

// Normalize applies NFKC, turns non-breaking spaces into spaces,
// collapses whitespace runs and trims.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return collapse(s)
}

// Key returns the identity form of a name: letters, hyphens and spaces
// only, lowercased, periods removed ("ИВАНОВ П.С." -> "иванов пс").
func Key(s string) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}
	s = keyDropRe.ReplaceAllString(s, " ")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	return collapse(s)
}

// Words splits text into letter/hyphen words, keeping their case.
// Periods act as separators, so "П.С." yields "П" and "С".
func Words(s string) []string {
	s = Normalize(s)
	if s == "" {
		return nil
	}
	return strings.Fields(tokDropRe.ReplaceAllString(s, " "))
}

// Tokenize is Words lowercased.
func Tokenize(s string) []string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

// LowerFirst lowercases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// IsUpperWord reports whether every letter of s is uppercase.
func IsUpperWord(s string) bool {
	seen := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		seen = true
	}
	return seen
}

// NormalizeLowercase lowercases after Normalize.
func NormalizeLowercase(s string) string {
	return strings.ToLower(Normalize(s))
}

// NormalizeNone returns the term unchanged.
func NormalizeNone(s string) string {
	return s
}

// GetNormalizer returns the normalizer for the given mode.
// Default is key.
func GetNormalizer(mode string) Normalizer {
	switch mode {
	case "key":
		return Key
	case "lowercase_utf8":
		return NormalizeLowercase
	case "none":
		return NormalizeNone
	default:
		return Key
	}
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
