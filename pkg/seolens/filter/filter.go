// Package filter decides which extracted n-grams are worth scoring.
//
// The checks are conservative: dropping a good phrase costs less than
// letting noise through, since scoring cannot recover from noisy input.
package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/seolens/pkg/seolens/ngram"
	"github.com/cognicore/seolens/pkg/seolens/textnorm"
)

// StopChecker is the part of the stopword service the filter needs.
type StopChecker interface {
	IsStop(word string) bool
	Ratio(phrase string) float64
}

// Reason names why a phrase was rejected
type Reason string

// Rejection reasons, in the order they are checked
const (
	ReasonEmpty          Reason = "empty"
	ReasonNotMeaningful  Reason = "not-meaningful"
	ReasonPunctuation    Reason = "punctuation"
	ReasonStopwordRatio  Reason = "stopword-ratio"
	ReasonEdgeStopword   Reason = "edge-stopword"
	ReasonInnerStopword  Reason = "inner-stopword"
	ReasonRepeatedWord   Reason = "repeated-word"
	ReasonNoise          Reason = "noise-pattern"
	ReasonFewContentWord Reason = "few-content-words"
	ReasonBoundary       Reason = "boundary-pattern"
	ReasonLowFrequency   Reason = "low-frequency"
)

// Rejection explains a failed Check
type Rejection struct {
	Reason Reason
	Detail string // matched rule reason or offending word
}

// Options tune the filter
type Options struct {
	RejectRatio  float64 // reject at or above this stopword ratio
	MinFrequency int
}

// DefaultOptions returns the standard settings
func DefaultOptions() Options {
	return Options{RejectRatio: 0.5, MinFrequency: 1}
}

// minContentRunes is the length a word must exceed to count as content
const minContentRunes = 2

// Filter applies the phrase checks
type Filter struct {
	stops    StopChecker
	noise    *PatternTable
	boundary *PatternTable
	opts     Options
}

// New creates a filter. Nil pattern tables disable those checks.
func New(stops StopChecker, noise, boundary *PatternTable, opts Options) *Filter {
	if opts.RejectRatio <= 0 {
		opts.RejectRatio = DefaultOptions().RejectRatio
	}
	return &Filter{stops: stops, noise: noise, boundary: boundary, opts: opts}
}

// NewDefault creates a filter with the default pattern tables and options.
func NewDefault(stops StopChecker) *Filter {
	return New(stops, MustPatternTable(DefaultNoiseRules()), MustPatternTable(DefaultBoundaryRules()), DefaultOptions())
}

// Check reports whether phrase is rejected, ignoring frequency.
func (f *Filter) Check(phrase string) (Rejection, bool) {
	phrase = strings.TrimSpace(phrase)
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return Rejection{Reason: ReasonEmpty}, true
	}

	if !textnorm.IsMeaningfulWord(phrase) {
		return Rejection{Reason: ReasonNotMeaningful}, true
	}
	if textnorm.ContainsPunctuation(phrase) {
		return Rejection{Reason: ReasonPunctuation}, true
	}
	if f.stops.Ratio(phrase) >= f.opts.RejectRatio {
		return Rejection{Reason: ReasonStopwordRatio}, true
	}

	first, last := words[0], words[len(words)-1]
	if f.stops.IsStop(first) {
		return Rejection{Reason: ReasonEdgeStopword, Detail: first}, true
	}
	if f.stops.IsStop(last) {
		return Rejection{Reason: ReasonEdgeStopword, Detail: last}, true
	}
	for _, w := range words[1 : len(words)-1] {
		if f.stops.IsStop(w) {
			return Rejection{Reason: ReasonInnerStopword, Detail: w}, true
		}
	}

	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			return Rejection{Reason: ReasonRepeatedWord, Detail: w}, true
		}
		seen[w] = struct{}{}
	}

	if why, ok := f.noise.Match(phrase); ok {
		return Rejection{Reason: ReasonNoise, Detail: why}, true
	}

	need := 1
	if len(words) >= 3 {
		need = 2
	}
	if f.contentWords(words) < need {
		return Rejection{Reason: ReasonFewContentWord}, true
	}

	if why, ok := f.boundary.Match(phrase); ok {
		return Rejection{Reason: ReasonBoundary, Detail: why}, true
	}
	return Rejection{}, false
}

func (f *Filter) contentWords(words []string) int {
	n := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > minContentRunes && !f.stops.IsStop(w) {
			n++
		}
	}
	return n
}

// Apply keeps the phrases that pass Check and meet MinFrequency, attaching
// their stopword ratio.
func (f *Filter) Apply(counts map[string]int) map[string]ngram.Candidate {
	out := make(map[string]ngram.Candidate, len(counts))
	for phrase, freq := range counts {
		if freq < f.opts.MinFrequency {
			continue
		}
		if _, rejected := f.Check(phrase); rejected {
			continue
		}
		out[phrase] = ngram.Candidate{
			Phrase:        phrase,
			Frequency:     freq,
			StopwordRatio: f.stops.Ratio(phrase),
		}
	}
	return out
}

// Explain runs Check and the frequency gate together, for diagnostics.
func (f *Filter) Explain(phrase string, freq int) (Rejection, bool) {
	if r, rejected := f.Check(phrase); rejected {
		return r, true
	}
	if freq < f.opts.MinFrequency {
		return Rejection{Reason: ReasonLowFrequency}, true
	}
	return Rejection{}, false
}
