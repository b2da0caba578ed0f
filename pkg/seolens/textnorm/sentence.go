package textnorm

import (
	"strings"
	"unicode"
)

// minSentenceWords is the length below which a sentence is merged into the
// one that follows it.
const minSentenceWords = 3

// abbreviationWindow is how far (in runes) around a period the abbreviation
// table is checked.
const abbreviationWindow = 5

// abbreviations suppress sentence breaks when they cover the period.
// Matching is case-sensitive and an abbreviation must start a word.
var abbreviations = [][]rune{
	[]rune("د."), []rune("م."), []rune("ک."), []rune("ص."), []rune("ج."),
	[]rune("ر.ک"), []rune("ه.ش"), []rune("ه.ق"),
	[]rune("Dr."), []rune("Mr."), []rune("Mrs."), []rune("Ms."), []rune("Prof."),
	[]rune("etc."), []rune("e.g."), []rune("i.e."),
}

func isSentenceEnder(r rune) bool {
	switch r {
	case '.', '!', '?', '؟', '۔':
		return true
	}
	return false
}

// SplitIntoSentences segments s into trimmed sentences. A sentence ends at
// one of . ! ? ؟ ۔ unless the period belongs to a known abbreviation, sits
// between two digits, or is part of an ellipsis. Sentences with fewer than
// three words are merged into the following sentence.
func SplitIntoSentences(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	text := []rune(squeeze(s))

	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		r := text[i]
		if !isSentenceEnder(r) {
			continue
		}

		// Ellipsis: consume the whole run of dots, never a break.
		if r == '.' && i+2 < len(text) && text[i+1] == '.' && text[i+2] == '.' {
			for i+1 < len(text) && text[i+1] == '.' {
				i++
			}
			continue
		}
		if r == '.' && isDecimalPoint(text, i) {
			continue
		}
		if isAbbreviationAt(text, i) {
			continue
		}

		end := i + 1
		for end < len(text) && unicode.IsSpace(text[end]) {
			end++
		}
		sentences = appendSentence(sentences, string(text[start:end]))
		start = end
		i = end - 1
	}
	if start < len(text) {
		sentences = appendSentence(sentences, string(text[start:]))
	}

	return mergeShortSentences(sentences)
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || isEnderOnly(s) {
		return sentences
	}
	return append(sentences, s)
}

func isEnderOnly(s string) bool {
	for _, r := range s {
		if !isSentenceEnder(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isDecimalPoint(text []rune, pos int) bool {
	return pos > 0 && pos+1 < len(text) && unicode.IsDigit(text[pos-1]) && unicode.IsDigit(text[pos+1])
}

func isAbbreviationAt(text []rune, pos int) bool {
	lo := pos - abbreviationWindow
	if lo < 0 {
		lo = 0
	}
	hi := pos + abbreviationWindow
	if hi > len(text) {
		hi = len(text)
	}

	for _, abbr := range abbreviations {
		for start := lo; start+len(abbr) <= hi; start++ {
			if start > pos || start+len(abbr) <= pos {
				continue
			}
			if start > 0 && unicode.IsLetter(text[start-1]) {
				continue
			}
			if runesEqual(text[start:start+len(abbr)], abbr) {
				return true
			}
		}
	}
	return false
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeShortSentences(sentences []string) []string {
	merged := make([]string, 0, len(sentences))
	carry := ""
	for i, s := range sentences {
		if carry != "" {
			s = carry + " " + s
			carry = ""
		}
		words := CountWords(s)
		if words < minSentenceWords && i < len(sentences)-1 {
			carry = s
			continue
		}
		if words > 0 {
			merged = append(merged, s)
		}
	}
	return merged
}
