// Package extract recovers structured hero fields from scraped guide prose.
//
// The guide pages have no reliable field delimiters: headings bleed into the
// next field and the same anchor word can appear several times in one body.
// Every extractor here is a named rule with an explicit anchor phrase and
// explicit rejection conditions, and returns ok=false rather than a doubtful
// capture. False negatives are the safe failure mode; the reconciler treats
// a missing field as null, never as wrong data.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Anchor patterns, one per rule. Kept package-level so the rule set is
// visible in one place.
var (
	heroNameRe = regexp.MustCompile(`(?i)this is a ranking (?:and rating )?page for the hero (.+?) from the game`)

	weaponMoveRe = regexp.MustCompile(`(?i)color\s*/\s*weapon type\s*/\s*move type\s*:?\s*([A-Za-z]+)\s*/\s*([A-Za-z][A-Za-z ]*?)\s*/\s*([A-Za-z]+)`)

	ratingRe = regexp.MustCompile(`(?i)overall rating\s*:?\s*(\d+(?:\.\d+)?)\s*/\s*10`)

	rarityRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d)\s*star`),
		regexp.MustCompile(`★\s*(\d)`),
		regexp.MustCompile(`(\d)\s*★`),
	}

	illustratorRe = regexp.MustCompile(`(?i)illustrator\s*:?\s+([^\n]+)`)
)

// sectionMarkers are heading words that bleed into captured spans. A capture
// is truncated at the first marker found.
var sectionMarkers = []string{
	"Appears In",
	"Voice Actor",
	"Related Guides",
	"How to Get",
	"Stats at Lv",
	"Skills at",
}

// stopwords reject a capture outright: these words indicate the span is a
// heading or a placeholder, not a field value.
var stopwords = []string{"information", "unknown"}

// maxSpanLen bounds a plausible field value. Longer captures are headings or
// paragraphs, never names.
const maxSpanLen = 60

// HeroName extracts the hero display name from the ranking-page anchor
// sentence. Returns ok=false when the anchor is absent or the capture fails
// validation.
func HeroName(text string) (string, bool) {
	m := heroNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return cleanSpan(m[1])
}

// WeaponMove extracts the weapon and movement types from the
// "Color / Weapon Type / Move Type" triple. The color is folded into the
// weapon type ("Red / Sword / Infantry" yields weapon "Red Sword").
func WeaponMove(text string) (weapon, move string, ok bool) {
	m := weaponMoveRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	color, okC := cleanSpan(m[1])
	wpn, okW := cleanSpan(m[2])
	mv, okM := cleanSpan(m[3])
	if !okC || !okW || !okM {
		return "", "", false
	}
	return color + " " + wpn, mv, true
}

// Rating extracts the tier rating from an "Overall Rating N/10" phrase.
// Fractional ratings are truncated to their integer part.
func Rating(text string) (int, bool) {
	m := ratingRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	whole := m[1]
	if i := strings.IndexByte(whole, '.'); i >= 0 {
		whole = whole[:i]
	}
	n, err := strconv.Atoi(whole)
	if err != nil || n < 0 || n > 10 {
		return 0, false
	}
	return n, true
}

// Rarity extracts a star-rarity mention (1-5). The first pattern that
// produces a valid value wins.
func Rarity(text string) (int, bool) {
	for _, re := range rarityRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > 5 {
			continue
		}
		return n, true
	}
	return 0, false
}

// Illustrator extracts the illustrator byline. When the anchor appears more
// than once, the LAST mention wins: in guide prose later mentions are more
// often the authoritative byline, earlier ones quoted incidentally. This is
// a documented tie-break policy, tunable via preferLast, not a derived rule.
func Illustrator(text string) (string, bool) {
	return illustrator(text, true)
}

func illustrator(text string, preferLast bool) (string, bool) {
	ms := illustratorRe.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return "", false
	}
	// Walk candidates in policy order and return the first that survives
	// cleanup; a rejected capture must not mask a valid earlier one.
	if preferLast {
		for i := len(ms) - 1; i >= 0; i-- {
			if v, ok := cleanSpan(ms[i][1]); ok {
				return v, true
			}
		}
		return "", false
	}
	for _, m := range ms {
		if v, ok := cleanSpan(m[1]); ok {
			return v, true
		}
	}
	return "", false
}

// cleanSpan truncates a captured span at the first section-boundary marker,
// then applies the rejection rules: empty after cleanup, longer than
// maxSpanLen, or containing a stopword.
func cleanSpan(s string) (string, bool) {
	cut := len(s)
	for _, marker := range sectionMarkers {
		if i := indexFold(s, marker); i >= 0 && i < cut {
			cut = i
		}
	}
	s = strings.Trim(strings.TrimSpace(s[:cut]), ".,;:-– ")
	if s == "" {
		return "", false
	}
	if len([]rune(s)) > maxSpanLen {
		return "", false
	}
	lower := strings.ToLower(s)
	for _, w := range stopwords {
		if strings.Contains(lower, w) {
			return "", false
		}
	}
	return s, true
}

// indexFold returns the byte offset of the first case-insensitive
// occurrence of substr in s, comparing rune by rune. Unlike searching in
// strings.ToLower(s), the returned offset always lands on a rune boundary
// of s: some runes change byte length when lowered (U+0130 among them)
// and would shift the cut into the middle of a rune.
func indexFold(s, substr string) int {
	rs := []rune(s)
	sub := []rune(substr)
	if len(sub) == 0 {
		return -1
	}
	for i := 0; i+len(sub) <= len(rs); i++ {
		match := true
		for j := range sub {
			if unicode.ToLower(rs[i+j]) != unicode.ToLower(sub[j]) {
				match = false
				break
			}
		}
		if match {
			return len(string(rs[:i]))
		}
	}
	return -1
}
