package nlviz

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	bareNumberRe = regexp.MustCompile(`\b(\d{1,3})\b`)
	namedYearRe  = regexp.MustCompile(`\b(20\d{2})\b`)
	byPhraseRe   = regexp.MustCompile(`\bby\s+([a-z0-9_\-\s]+)`)
	versusRe     = regexp.MustCompile(`(?i)\b([a-z0-9_\-\s]+)\s+vs\s+([a-z0-9_\-\s]+)\b`)
)

// Normalize lower-cases s and drops every rune that is not a letter or digit.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FindColumn returns the candidate whose normalized name is the longest
// substring of the normalized text. Ties go to the earlier candidate.
func FindColumn(text string, candidates []string) (string, bool) {
	nt := Normalize(text)
	best, bestLen := "", 0
	for _, c := range candidates {
		nc := Normalize(c)
		if nc == "" || !strings.Contains(nt, nc) {
			continue
		}
		if len(nc) > bestLen {
			best, bestLen = c, len(nc)
		}
	}
	return best, bestLen > 0
}

// MatchBySynonym walks synonyms in priority order and returns the first
// candidate whose normalized name contains the synonym or is contained in it.
// When no synonym matches it falls back to FindColumn over text.
func MatchBySynonym(text string, candidates, synonyms []string) (string, bool) {
	for _, syn := range synonyms {
		ns := Normalize(syn)
		for _, c := range candidates {
			nc := Normalize(c)
			if nc == "" {
				continue
			}
			if strings.Contains(nc, ns) || strings.Contains(ns, nc) {
				return c, true
			}
		}
	}
	return FindColumn(text, candidates)
}

// DeprioritizeIdentifierColumns moves identifier-like columns (ids, codes,
// invoice numbers) after the others, keeping relative order. Returns a new slice.
func DeprioritizeIdentifierColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	var ids []string
	for _, c := range cols {
		if looksLikeIdentifier(c) {
			ids = append(ids, c)
			continue
		}
		out = append(out, c)
	}
	return append(out, ids...)
}

func looksLikeIdentifier(col string) bool {
	n := Normalize(col)
	switch {
	case n == "id", strings.HasSuffix(n, "id"), strings.HasSuffix(n, "code"):
		return true
	case strings.Contains(n, "invoice") && !strings.Contains(n, "amount"):
		return true
	}
	return false
}

// ExtractNumber returns the first standalone number of one to three digits.
func ExtractNumber(text string) (int, bool) {
	m := bareNumberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// ExtractNamedYear returns the first standalone year of the form 20xx.
func ExtractNamedYear(text string) (int, bool) {
	m := namedYearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// wordForm reduces s to space-separated lower-case words, padded with one
// space on each side so that phrases can be matched on word boundaries.
func wordForm(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return " " + strings.Join(fields, " ") + " "
}
