// Package textnorm normalizes article text written in Persian (and mixed
// Persian/Latin) and segments it into words and sentences.
//
// Two normalized forms are produced: a display form that keeps the source
// casing and a match form that is case-folded. Both collapse whitespace and
// resolve the zero-width non-joiner (ZWNJ, U+200C) used inside Persian words:
// runs of ZWNJ become one, and a ZWNJ touching whitespace becomes a plain
// space. The zero-width joiner (U+200D) is removed.
//
// All functions are safe for concurrent use.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	zwnj = '\u200c'
	zwj  = '\u200d'
)

// punctuation is the document punctuation set, Persian marks included.
const punctuation = ".!?؟۔،,;؛:-_()[]{}«»\"'“”‘’"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// cleaner returns a fresh transformer; chained transformers keep state and
// must not be shared between goroutines.
func cleaner() transform.Transformer {
	return transform.Chain(norm.NFC, runes.Remove(runes.Predicate(func(r rune) bool {
		return r == zwj
	})))
}

func clean(s string) string {
	out, _, err := transform.String(cleaner(), s)
	if err != nil {
		return s
	}
	return out
}

// squeeze collapses whitespace runs to a single space, trims both ends and
// resolves ZWNJ: runs become one ZWNJ, and ZWNJ next to whitespace is
// absorbed into that whitespace.
func squeeze(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace, pendingZWNJ := false, false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			pendingZWNJ = false
		case r == zwnj:
			if !pendingSpace {
				pendingZWNJ = true
			}
		default:
			if b.Len() > 0 {
				if pendingSpace {
					b.WriteByte(' ')
				} else if pendingZWNJ {
					b.WriteRune(zwnj)
				}
			}
			pendingSpace, pendingZWNJ = false, false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold case-folds s for comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizeForDisplay cleans joiners and whitespace but keeps case.
func NormalizeForDisplay(s string) string {
	if s == "" {
		return ""
	}
	return squeeze(clean(s))
}

// NormalizeForMatch is NormalizeForDisplay followed by case folding.
func NormalizeForMatch(s string) string {
	if s == "" {
		return ""
	}
	return Fold(NormalizeForDisplay(s))
}

// SplitIntoWords returns the words of s as a reader would count them:
// markup tags and punctuation are removed, and tokens that are empty
// without their ZWNJ or consist only of digits are dropped.
func SplitIntoWords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	s = tagPattern.ReplaceAllString(s, " ")
	s = NormalizeForDisplay(s)
	s = strings.Map(func(r rune) rune {
		if isPunct(r) {
			return ' '
		}
		return r
	}, s)

	var words []string
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, string(zwnj))
		bare := strings.ReplaceAll(w, string(zwnj), "")
		if bare == "" || isDigits(bare) {
			continue
		}
		words = append(words, w)
	}
	return words
}

// CountWords returns len(SplitIntoWords(s)).
func CountWords(s string) int {
	return len(SplitIntoWords(s))
}

// ExtractWords tokenizes s for frequency analysis. Tokens are case-folded;
// any rune that is not a letter, mark, digit or ZWNJ separates tokens.
// Single-rune tokens and pure-digit tokens are dropped.
func ExtractWords(s string) []string {
	if s == "" {
		return nil
	}
	s = NormalizeForMatch(s)

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		if w := keepToken(current.String()); w != "" {
			words = append(words, w)
		}
		current.Reset()
	}

	for _, r := range s {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return words
}

// TokenForm joins the extracted words of s with single spaces. Phrases and
// the text they are matched against are both reduced to this form.
func TokenForm(s string) string {
	return strings.Join(ExtractWords(s), " ")
}

func keepToken(tok string) string {
	tok = strings.Trim(tok, string(zwnj))
	bare := strings.ReplaceAll(tok, string(zwnj), "")
	if bare == "" {
		return ""
	}
	if utf8.RuneCountInString(bare) == 1 {
		return ""
	}
	if isDigits(bare) {
		return ""
	}
	return tok
}

// IsMeaningfulWord reports whether w can carry meaning on its own: longer
// than one rune, not only digits, no rune repeated three or more times in a
// row, and not a short (4-5 rune) mix of Persian and Latin script.
func IsMeaningfulWord(w string) bool {
	n := utf8.RuneCountInString(w)
	if n <= 1 {
		return false
	}
	if isDigits(w) {
		return false
	}
	if hasRepeatedRun(w, 3) {
		return false
	}
	if n > 3 && n < 6 && hasPersian(w) && hasLatin(w) {
		return false
	}
	return true
}

// ContainsPunctuation reports whether s contains any document punctuation.
func ContainsPunctuation(s string) bool {
	return strings.ContainsAny(s, punctuation)
}

func isPunct(r rune) bool {
	return strings.ContainsRune(punctuation, r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == zwnj
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func hasPersian(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) || r == zwnj || r == zwj {
			return true
		}
	}
	return false
}

func hasLatin(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
