// Package normalize provides the canonical-key functions shared by every
// component that compares hero names: search keys for matching, slugs for
// persisted identity, and display-name cleanup prior to slug derivation.
//
// All functions are pure and deterministic. Two strings that refer to the
// same hero but differ in case, accents or punctuation must map to the
// same canonical form.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRun  = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpace   = regexp.MustCompile(`\s+`)
	colonSep     = regexp.MustCompile(`\s*:\s+`)
)

// translit maps non-ASCII letters that survive NFD decomposition to ASCII
// equivalents. Covers the letter classes seen in hero names (Ólafur-style
// accents are handled by decomposition; these are standalone letters).
var translit = strings.NewReplacer(
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "Th",
	"æ", "ae", "Æ", "Ae",
	"œ", "oe", "Œ", "Oe",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ß", "ss",
)

// stripMarks removes combining diacritical marks after NFD decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// toASCII transliterates known letter classes and strips diacritics.
func toASCII(s string) string {
	s = translit.Replace(s)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// transform never fails for the chains used here, but fall back
		// to the transliterated input rather than dropping the string
		return s
	}
	return out
}

// SearchKey returns the canonical comparison key for a hero name: lowercase
// ASCII with every run of non-alphanumeric characters collapsed to a single
// space. Empty input returns the empty string.
func SearchKey(text string) string {
	s := strings.ToLower(toASCII(text))
	s = nonAlnumRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slug returns the persisted identity key for a hero name: lowercase ASCII
// with non-alphanumeric runs collapsed to a single underscore and leading or
// trailing underscores trimmed. Slug is idempotent and filesystem/URL safe.
func Slug(text string) string {
	s := strings.ToLower(toASCII(text))
	s = nonAlnumRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// DisplayName cleans a human-readable name without destroying information:
// whitespace is collapsed, em/en dash variants become a plain hyphen, the
// colon separator convention ("Fjorm: New Traditions") becomes the hyphen
// convention ("Fjorm - New Traditions"), and curly apostrophes are unified.
// The result is what slug derivation should run on.
func DisplayName(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "—", "-") // em dash
	s = strings.ReplaceAll(s, "–", "-") // en dash
	s = strings.ReplaceAll(s, "−", "-") // minus sign
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "‘", "'")
	s = colonSep.ReplaceAllString(s, " - ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SlugFromDisplay derives the canonical slug for a raw display name,
// applying DisplayName cleanup first so differently punctuated variants of
// the same title collapse to one slug.
func SlugFromDisplay(text string) string {
	return Slug(DisplayName(text))
}

// IsEmptyKey reports whether a normalized key carries no identity signal.
// Callers must treat records whose keys normalize to nothing as failed
// matches, never as an empty-string identity.
func IsEmptyKey(key string) bool {
	return strings.TrimSpace(key) == ""
}
