package ngram

import (
	"strings"

	"github.com/cognicore/seolens/pkg/seolens/textnorm"
)

// Default window sizes
const (
	DefaultMinWords = 2
	DefaultMaxWords = 4
)

// Candidate is a phrase that survived filtering
type Candidate struct {
	Phrase        string  `json:"phrase"`
	Frequency     int     `json:"frequency"`
	StopwordRatio float64 `json:"stopwordRatio"`
}

// WordCount returns the number of words in the phrase
func (c Candidate) WordCount() int {
	return len(strings.Fields(c.Phrase))
}

// Extractor produces contiguous word windows from text
type Extractor struct {
	MinWords int
	MaxWords int
}

// NewExtractor returns an extractor for 2 to 4 word phrases
func NewExtractor() *Extractor {
	return &Extractor{MinWords: DefaultMinWords, MaxWords: DefaultMaxWords}
}

// Extract tokenizes text and counts every window of MinWords..MaxWords
// tokens. Keys are the tokens joined by a single space.
func (e *Extractor) Extract(text string) map[string]int {
	return e.ExtractTokens(textnorm.ExtractWords(text))
}

// ExtractTokens is Extract over an already tokenized text
func (e *Extractor) ExtractTokens(tokens []string) map[string]int {
	counts := make(map[string]int)
	minN, maxN := e.bounds()
	for n := minN; n <= maxN; n++ {
		for _, phrase := range Windows(tokens, n) {
			counts[phrase]++
		}
	}
	return counts
}

func (e *Extractor) bounds() (int, int) {
	minN, maxN := e.MinWords, e.MaxWords
	if minN < 1 {
		minN = DefaultMinWords
	}
	if maxN < minN {
		maxN = minN
	}
	return minN, maxN
}

// Windows returns every run of n consecutive tokens joined by a space, in
// order. It returns nil when n < 1 or there are fewer than n tokens.
func Windows(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}
