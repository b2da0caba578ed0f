// Package suggest composes extraction, filtering, scoring and clustering into
// ranked keyword suggestions.
//
// Rank returns the best n phrases overall. SuggestMain and SuggestSecondary
// additionally apply a minimum score that grows with document length, and
// fall back to the plain ranking when too few phrases clear it.
package suggest

import (
	"sort"
	"strings"

	"github.com/cognicore/seolens/pkg/seolens/cluster"
	"github.com/cognicore/seolens/pkg/seolens/document"
	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/ngram"
	"github.com/cognicore/seolens/pkg/seolens/score"
)

// Phrase length labels
const (
	TypeTwoWord   = "two-word"
	TypeThreeWord = "three-word"
	TypeFourWord  = "four-word"
)

// Suggestion is one ranked phrase
type Suggestion struct {
	Keyword    string          `json:"keyword"`
	Frequency  int             `json:"frequency"`
	Type       string          `json:"type"`
	FinalScore float64         `json:"finalScore"`
	Breakdown  score.Breakdown `json:"breakdown"`
}

// Quality is the legacy quality figure: twice the quality sub-score.
func (s Suggestion) Quality() float64 {
	return s.Breakdown.Quality * 2
}

// Relevance is the legacy relevance figure: the mean of co-occurrence and
// context.
func (s Suggestion) Relevance() float64 {
	return (s.Breakdown.CoOccurrence + s.Breakdown.Context) / 2
}

// TypeLabel names a phrase by its word count.
func TypeLabel(words int) string {
	switch words {
	case 2:
		return TypeTwoWord
	case 3:
		return TypeThreeWord
	default:
		return TypeFourWord
	}
}

// Options tune the ranker
type Options struct {
	ClusterThreshold float64
	PoolFactor       int // top PoolFactor*n phrases are clustered
	Thresholds       Thresholds
	DefaultMain      int
	DefaultSecondary int
	MainPool         int // SuggestMain ranks MainPool*n phrases
	SecondaryPool    int
}

// DefaultOptions returns the standard ranker settings
func DefaultOptions() Options {
	return Options{
		ClusterThreshold: cluster.DefaultThreshold,
		PoolFactor:       3,
		Thresholds:       DefaultThresholds(),
		DefaultMain:      5,
		DefaultSecondary: 10,
		MainPool:         3,
		SecondaryPool:    2,
	}
}

// Ranker produces suggestions for an indexed document
type Ranker struct {
	extractor *ngram.Extractor
	filter    *filter.Filter
	scorer    *score.Scorer
	opts      Options
}

// NewRanker wires a ranker from its stages. Zero-valued options fall back to
// the defaults.
func NewRanker(f *filter.Filter, s *score.Scorer, opts Options) *Ranker {
	def := DefaultOptions()
	if opts.ClusterThreshold <= 0 {
		opts.ClusterThreshold = def.ClusterThreshold
	}
	if opts.PoolFactor <= 0 {
		opts.PoolFactor = def.PoolFactor
	}
	if len(opts.Thresholds.Main) == 0 && len(opts.Thresholds.Secondary) == 0 {
		opts.Thresholds = def.Thresholds
	}
	if opts.DefaultMain <= 0 {
		opts.DefaultMain = def.DefaultMain
	}
	if opts.DefaultSecondary <= 0 {
		opts.DefaultSecondary = def.DefaultSecondary
	}
	if opts.MainPool <= 0 {
		opts.MainPool = def.MainPool
	}
	if opts.SecondaryPool <= 0 {
		opts.SecondaryPool = def.SecondaryPool
	}
	return &Ranker{
		extractor: ngram.NewExtractor(),
		filter:    f,
		scorer:    s,
		opts:      opts,
	}
}

// Options returns the effective settings
func (r *Ranker) Options() Options { return r.opts }

// Rank returns up to n suggestions, best first, with near-duplicates
// collapsed. An empty document yields no suggestions.
func (r *Ranker) Rank(idx *document.Index, keyword string, n int) []Suggestion {
	if n <= 0 || idx == nil {
		return nil
	}

	scored := r.scoreAll(idx, keyword)
	if len(scored) == 0 {
		return nil
	}

	pool := scored
	if limit := r.opts.PoolFactor * n; len(pool) > limit {
		pool = pool[:limit]
	}

	members := make([]cluster.Member, len(pool))
	for i, s := range pool {
		members[i] = cluster.Member{Phrase: s.Keyword, Score: s.FinalScore}
	}
	reps := cluster.Representatives(members, r.opts.ClusterThreshold)

	out := make([]Suggestion, 0, min(n, len(reps)))
	for _, i := range reps {
		if len(out) == n {
			break
		}
		out = append(out, pool[i])
	}
	return out
}

func (r *Ranker) scoreAll(idx *document.Index, keyword string) []Suggestion {
	candidates := r.filter.Apply(r.extractor.Extract(idx.Text()))

	out := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		res := r.scorer.Score(c, keyword, idx)
		out = append(out, Suggestion{
			Keyword:    c.Phrase,
			Frequency:  c.Frequency,
			Type:       TypeLabel(len(strings.Fields(c.Phrase))),
			FinalScore: res.Final,
			Breakdown:  res.Breakdown,
		})
	}

	// candidates come from a map; the tie-breaks make the order total
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}

// SuggestMain returns up to n main keyword suggestions. n <= 0 uses the
// default count.
func (r *Ranker) SuggestMain(idx *document.Index, keyword string, n int) []Suggestion {
	if n <= 0 {
		n = r.opts.DefaultMain
	}
	return r.suggest(idx, keyword, n, r.opts.MainPool, Main)
}

// SuggestSecondary returns up to n secondary keyword suggestions. n <= 0
// uses the default count.
func (r *Ranker) SuggestSecondary(idx *document.Index, keyword string, n int) []Suggestion {
	if n <= 0 {
		n = r.opts.DefaultSecondary
	}
	return r.suggest(idx, keyword, n, r.opts.SecondaryPool, Secondary)
}

func (r *Ranker) suggest(idx *document.Index, keyword string, n, poolFactor int, mode Mode) []Suggestion {
	if idx == nil {
		return nil
	}
	pool := r.Rank(idx, keyword, poolFactor*n)
	threshold := r.opts.Thresholds.For(mode, idx.WordCount())
	return selectByThreshold(pool, threshold, n)
}

// selectByThreshold keeps the pool entries scoring at least threshold. When
// fewer than n pass, the plain top n of the pool is returned instead.
func selectByThreshold(pool []Suggestion, threshold float64, n int) []Suggestion {
	passed := make([]Suggestion, 0, len(pool))
	for _, s := range pool {
		if s.FinalScore >= threshold {
			passed = append(passed, s)
		}
	}
	if len(passed) >= n {
		return passed[:n]
	}
	if len(pool) > n {
		return pool[:n]
	}
	return pool
}
