package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	trailingYearPattern = regexp.MustCompile(`\s*\(\d{4}(?:-\d{2,4})?\)\s*$`)
	anyYearPattern      = regexp.MustCompile(`\((\d{4})(?:-\d{2,4})?\)`)
	squareTagPattern    = regexp.MustCompile(`\s*\[([^\]]*)\]`)
	parenTagPattern     = regexp.MustCompile(`\s*\(([^)]*)\)`)
	dashSuffixPattern   = regexp.MustCompile(`\s+[-–—]\s+([^-–—]+)$`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	doubleBillPattern   = regexp.MustCompile(`(?i)^(.+\(\d{4}\))\s+and\s+(.+)$`)
	slugInvalidPattern  = regexp.MustCompile(`[^a-z0-9-]`)
	slugSeparatorRuns   = regexp.MustCompile(`-+`)
)

// eventPrefixes are screening descriptors cinemas prepend to titles.
// Matched case-insensitively at the start of the title.
var eventPrefixes = []string{
	"preview:",
	"premiere:",
	"sneak preview:",
	"advance screening:",
	"special screening:",
	"member screening:",
	"film club:",
	"q&a:",
	"intro:",
	"relaxed screening:",
	"relaxed:",
	"parent & baby:",
	"baby cinema:",
	"silver screen:",
	"autism friendly:",
	"dementia friendly:",
}

// formatVocabulary lists bracketed annotations that describe presentation
// rather than identity. Unknown bracketed content is preserved.
var formatVocabulary = map[string]struct{}{
	"35mm":      {},
	"70mm":      {},
	"16mm":      {},
	"4k":        {},
	"2k":        {},
	"imax":      {},
	"3d":        {},
	"2d":        {},
	"digital":   {},
	"subtitled": {},
	"dubbed":    {},
	"q&a":       {},
}

// editionSuffixes are dash-separated suffixes that name an edition of the
// same work. Anything else after a dash stays part of the title.
var editionSuffixes = map[string]struct{}{
	"director's cut": {},
	"directors cut":  {},
	"remastered":     {},
	"restored":       {},
	"restoration":    {},
	"4k restoration": {},
	"extended cut":   {},
	"theatrical cut": {},
	"uncut":          {},
}

// NormalizeTitle converts a raw listing title into its canonical matching
// form. It strips trailing year parentheticals, known event prefixes,
// format annotations, and edition suffixes, then collapses whitespace.
// The function is total and idempotent; malformed input yields "".
func NormalizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for {
		next := normalizePass(title)
		if next == title {
			return title
		}
		title = next
	}
}

func normalizePass(title string) string {
	title = trailingYearPattern.ReplaceAllString(title, "")
	title = stripEventPrefix(title)
	title = stripFormatTags(title)
	title = stripEditionSuffix(title)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(title, " "))
}

func stripEventPrefix(title string) string {
	lowered := strings.ToLower(title)
	for _, prefix := range eventPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return strings.TrimSpace(title[len(prefix):])
		}
	}
	return title
}

func stripFormatTags(title string) string {
	title = squareTagPattern.ReplaceAllStringFunc(title, replaceFormatTag)
	return parenTagPattern.ReplaceAllStringFunc(title, replaceFormatTag)
}

func replaceFormatTag(tag string) string {
	inner := strings.Trim(strings.TrimSpace(tag), "[]()")
	if _, ok := formatVocabulary[strings.ToLower(strings.TrimSpace(inner))]; ok {
		return " "
	}
	return tag
}

func stripEditionSuffix(title string) string {
	match := dashSuffixPattern.FindStringSubmatch(title)
	if match == nil {
		return title
	}
	suffix := strings.ToLower(strings.TrimSpace(match[1]))
	if _, ok := editionSuffixes[suffix]; !ok {
		return title
	}
	return title[:len(title)-len(match[0])]
}

// ExtractYear returns the release year carried in a parenthetical such as
// "The Godfather (1972)", or 0 when the title carries no plausible year.
func ExtractYear(raw string) int {
	match := anyYearPattern.FindStringSubmatch(raw)
	if match == nil {
		return 0
	}
	year, err := strconv.Atoi(match[1])
	if err != nil || year < 1880 || year > 2100 {
		return 0
	}
	return year
}

// SplitDoubleBill splits a double-bill listing title into its component
// titles, year parentheticals intact so each part can still be resolved
// with a year hint. A year parenthetical immediately before "and" is the
// signal for a double bill, so titles like "Crime and Punishment" are not
// split. Single titles return a one-element slice.
func SplitDoubleBill(title string) []string {
	trimmed := strings.TrimSpace(title)
	match := doubleBillPattern.FindStringSubmatch(trimmed)
	if match != nil {
		first := strings.TrimSpace(match[1])
		second := strings.TrimSpace(match[2])
		if len(NormalizeTitle(first)) >= 2 && len(NormalizeTitle(second)) >= 2 {
			return []string{first, second}
		}
	}
	return []string{trimmed}
}

// Slugify converts text to a lowercase hyphenated identifier.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = whitespacePattern.ReplaceAllString(slug, "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = slugInvalidPattern.ReplaceAllString(slug, "")
	slug = slugSeparatorRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
