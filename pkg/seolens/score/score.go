// Package score rates candidate phrases against a document and an optional
// target keyword.
//
// Five sub-scores are computed per phrase and combined linearly:
//
//	final = w.Frequency·freq + w.CoOccurrence·co + w.Context·ctx
//	      + w.Proximity·prox + w.Quality·quality
//
// The raw frequency is not normalized; longer documents score higher and
// the ranker's adaptive thresholds account for that.
package score

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/seolens/pkg/seolens/document"
	"github.com/cognicore/seolens/pkg/seolens/ngram"
	"github.com/cognicore/seolens/pkg/seolens/textnorm"
)

// Weights defines the scoring weights
type Weights struct {
	Frequency    float64 `yaml:"frequency" json:"frequency"`
	CoOccurrence float64 `yaml:"co_occurrence" json:"coOccurrence"`
	Context      float64 `yaml:"context" json:"context"`
	Proximity    float64 `yaml:"proximity" json:"proximity"`
	Quality      float64 `yaml:"quality" json:"quality"`
}

// DefaultWeights returns the standard weight table
func DefaultWeights() Weights {
	return Weights{
		Frequency:    0.20,
		CoOccurrence: 0.25,
		Context:      0.20,
		Proximity:    0.15,
		Quality:      0.20,
	}
}

// Sum returns the total weight
func (w Weights) Sum() float64 {
	return w.Frequency + w.CoOccurrence + w.Context + w.Proximity + w.Quality
}

// Params holds the per-layer constants
type Params struct {
	CoOccurrenceMax float64 `yaml:"co_occurrence_max"`

	H1Bonus             float64 `yaml:"h1_bonus"`
	SubheadingBonus     float64 `yaml:"subheading_bonus"`
	FirstParagraphBonus float64 `yaml:"first_paragraph_bonus"`
	ContextMax          float64 `yaml:"context_max"`

	SameSentence float64 `yaml:"same_sentence"`
	NearSentence float64 `yaml:"near_sentence"`
	WindowSize   int     `yaml:"window_size"`
	ProximityMax float64 `yaml:"proximity_max"`

	WordCountBonus    map[int]float64 `yaml:"word_count_bonus"`
	OtherWordBonus    float64         `yaml:"other_word_bonus"`
	MaxFrequencyBonus float64         `yaml:"max_frequency_bonus"`
	HeavyStopRatio    float64         `yaml:"heavy_stop_ratio"`
	MediumStopRatio   float64         `yaml:"medium_stop_ratio"`
	LightStopRatio    float64         `yaml:"light_stop_ratio"`
	HeavyStopPenalty  float64         `yaml:"heavy_stop_penalty"`
	MediumStopPenalty float64         `yaml:"medium_stop_penalty"`
	LightStopPenalty  float64         `yaml:"light_stop_penalty"`
	OptimalLengthMin  int             `yaml:"optimal_length_min"`
	OptimalLengthMax  int             `yaml:"optimal_length_max"`
	LengthBonus       float64         `yaml:"length_bonus"`
	LengthPenalty     float64         `yaml:"length_penalty"`
}

// DefaultParams returns the standard per-layer constants
func DefaultParams() Params {
	return Params{
		CoOccurrenceMax: 25,

		H1Bonus:             15,
		SubheadingBonus:     10,
		FirstParagraphBonus: 8,
		ContextMax:          20,

		SameSentence: 15,
		NearSentence: 5,
		WindowSize:   3,
		ProximityMax: 15,

		WordCountBonus:    map[int]float64{4: 8, 3: 6, 2: 4, 1: 1},
		OtherWordBonus:    1,
		MaxFrequencyBonus: 10,
		HeavyStopRatio:    0.5,
		MediumStopRatio:   0.3,
		LightStopRatio:    0.1,
		HeavyStopPenalty:  5,
		MediumStopPenalty: 3,
		LightStopPenalty:  1,
		OptimalLengthMin:  10,
		OptimalLengthMax:  50,
		LengthBonus:       2,
		LengthPenalty:     2,
	}
}

// Breakdown holds the raw sub-scores
type Breakdown struct {
	Frequency    float64 `json:"frequency"`
	CoOccurrence float64 `json:"coOccurrence"`
	Context      float64 `json:"context"`
	Proximity    float64 `json:"proximity"`
	Quality      float64 `json:"quality"`
}

// Result is the scored phrase
type Result struct {
	Final     float64   `json:"finalScore"`
	Breakdown Breakdown `json:"breakdown"`
}

// Scorer calculates layered scores for candidate phrases
type Scorer struct {
	weights Weights
	params  Params
}

// NewScorer creates a new scorer with the given weights and params
func NewScorer(w Weights, p Params) *Scorer {
	return &Scorer{weights: w, params: p}
}

// NewDefaultScorer creates a scorer with the standard tables
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultWeights(), DefaultParams())
}

// Weights returns the scorer's weights
func (s *Scorer) Weights() Weights { return s.weights }

// Score rates c within idx. keyword may be empty. A candidate with no words
// scores zero.
func (s *Scorer) Score(c ngram.Candidate, keyword string, idx *document.Index) Result {
	phrase := textnorm.TokenForm(c.Phrase)
	if phrase == "" || idx == nil {
		return Result{}
	}
	kw := textnorm.TokenForm(keyword)

	b := Breakdown{
		Frequency:    float64(c.Frequency),
		CoOccurrence: s.coOccurrence(phrase, kw, idx),
		Context:      s.context(phrase, idx),
		Proximity:    s.proximity(phrase, kw, idx),
		Quality:      s.quality(c),
	}
	return Result{Final: s.combine(b), Breakdown: b}
}

func (s *Scorer) combine(b Breakdown) float64 {
	total := s.weights.Frequency*b.Frequency +
		s.weights.CoOccurrence*b.CoOccurrence +
		s.weights.Context*b.Context +
		s.weights.Proximity*b.Proximity +
		s.weights.Quality*b.Quality
	return Round1(total)
}

// Round1 rounds x to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// coOccurrence is the share of the phrase's paragraphs that also hold the
// keyword, scaled to CoOccurrenceMax.
func (s *Scorer) coOccurrence(phrase, kw string, idx *document.Index) float64 {
	if kw == "" || phrase == kw {
		return 0
	}
	paragraphs := idx.Paragraphs()
	if len(paragraphs) == 0 {
		return 0
	}

	withPhrase, withBoth := 0, 0
	for i := range paragraphs {
		if !paragraphs.Contains(i, phrase) {
			continue
		}
		withPhrase++
		if paragraphs.Contains(i, kw) {
			withBoth++
		}
	}
	if withPhrase == 0 {
		return 0
	}
	return float64(withBoth) / float64(withPhrase) * s.params.CoOccurrenceMax
}

func (s *Scorer) context(phrase string, idx *document.Index) float64 {
	total := float64(idx.H1().Count(phrase))*s.params.H1Bonus +
		float64(idx.Subheadings().Count(phrase))*s.params.SubheadingBonus
	if idx.InFirstParagraph(phrase) {
		total += s.params.FirstParagraphBonus
	}
	return math.Min(total, s.params.ContextMax)
}

// proximity averages, over the sentences holding the phrase, how close the
// keyword is: same sentence, within the window, or absent.
func (s *Scorer) proximity(phrase, kw string, idx *document.Index) float64 {
	if kw == "" || phrase == kw {
		return 0
	}
	sentences := idx.Sentences()
	if len(sentences) == 0 {
		return 0
	}

	hits := sentences.Matching(phrase)
	if len(hits) == 0 {
		return 0
	}

	total := 0.0
	for _, i := range hits {
		switch {
		case sentences.Contains(i, kw):
			total += s.params.SameSentence
		case s.keywordNear(sentences, i, kw):
			total += s.params.NearSentence
		}
	}
	return math.Min(total/float64(len(hits)), s.params.ProximityMax)
}

func (s *Scorer) keywordNear(sentences document.Segments, i int, kw string) bool {
	lo := max(0, i-s.params.WindowSize)
	hi := min(len(sentences)-1, i+s.params.WindowSize)
	for j := lo; j <= hi; j++ {
		if j != i && sentences.Contains(j, kw) {
			return true
		}
	}
	return false
}

func (s *Scorer) quality(c ngram.Candidate) float64 {
	p := s.params
	words := len(strings.Fields(c.Phrase))

	q, ok := p.WordCountBonus[words]
	if !ok {
		q = p.OtherWordBonus
	}

	q += math.Min(p.MaxFrequencyBonus, math.Log2(float64(c.Frequency)+1)*2)

	switch {
	case c.StopwordRatio > p.HeavyStopRatio:
		q -= p.HeavyStopPenalty
	case c.StopwordRatio > p.MediumStopRatio:
		q -= p.MediumStopPenalty
	case c.StopwordRatio > p.LightStopRatio:
		q -= p.LightStopPenalty
	}

	n := utf8.RuneCountInString(c.Phrase)
	switch {
	case n >= p.OptimalLengthMin && n <= p.OptimalLengthMax:
		q += p.LengthBonus
	case n > p.OptimalLengthMax:
		q -= p.LengthPenalty
	}

	return math.Max(0, q)
}
