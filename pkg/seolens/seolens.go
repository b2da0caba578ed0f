// Package seolens ranks keyword suggestions for article text.
//
// An Engine wraps the stopword list and the suggestion ranker. Analyze
// indexes a document once and returns the main and secondary suggestion
// lists for it. A Session serializes passes over one document being edited.
package seolens

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/seolens/pkg/seolens/document"
	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
	"github.com/cognicore/seolens/pkg/seolens/suggest"
)

// Engine is the keyword suggestion facade
type Engine struct {
	stops  *stoplist.Service
	ranker *suggest.Ranker
	logger *log.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Options configures an Engine
type Options struct {
	Stopwords *stoplist.Service
	Ranker    *suggest.Ranker
	Logger    *log.Logger
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		stops:   opts.Stopwords,
		ranker:  opts.Ranker,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Initialize loads the stopword list. A source failure is returned but is
// not fatal: the built-in list is in place afterwards.
func (e *Engine) Initialize(ctx context.Context) error {
	return e.stops.Initialize(ctx)
}

// Request is one analysis pass
type Request struct {
	Document     document.Document
	Keyword      string // optional target keyword
	MaxMain      int    // <= 0 uses the ranker default
	MaxSecondary int
}

// Report is the result of one pass
type Report struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"createdAt"`
	Keyword   string               `json:"keyword,omitempty"`
	WordCount int                  `json:"wordCount"`
	Main      []suggest.Suggestion `json:"main"`
	Secondary []suggest.Suggestion `json:"secondary"`
}

// Analyze runs one pass. Stopwords are loaded on the first call if
// Initialize was not called. An empty document yields empty lists.
func (e *Engine) Analyze(ctx context.Context, req Request) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if !e.stops.Loaded() {
		if err := e.stops.Initialize(ctx); err != nil {
			if !errors.Is(err, internalerr.ErrSourceUnavailable) {
				return Report{}, err
			}
			e.logger.Printf("Warning: analyzing with built-in stopwords: %v", err)
		}
	}

	keyword := strings.TrimSpace(req.Keyword)
	idx := document.NewIndex(req.Document)
	rep := Report{
		ID:        e.newID(),
		CreatedAt: e.now(),
		Keyword:   keyword,
		WordCount: idx.WordCount(),
		Main:      e.ranker.SuggestMain(idx, keyword, req.MaxMain),
		Secondary: e.ranker.SuggestSecondary(idx, keyword, req.MaxSecondary),
	}
	if rep.Main == nil {
		rep.Main = []suggest.Suggestion{}
	}
	if rep.Secondary == nil {
		rep.Secondary = []suggest.Suggestion{}
	}
	return rep, nil
}

func (e *Engine) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(e.now()), e.entropy).String()
}

// Session guards passes over a single document. A pass cannot start while
// another is running, and every report carries a generation so a caller
// holding an older report can tell it is stale.
type Session struct {
	engine *Engine

	mu         sync.Mutex
	running    bool
	generation uint64
	latest     *Result
}

// Result is a report stamped with its session generation
type Result struct {
	Generation uint64
	Report     Report
}

// NewSession creates a session on engine
func (e *Engine) NewSession() *Session {
	return &Session{engine: e}
}

// Run performs a pass. It returns internalerr.ErrAnalysisInProgress when a
// pass is already running.
func (s *Session) Run(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Result{}, internalerr.ErrAnalysisInProgress
	}
	s.running = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	rep, err := s.engine.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if err != nil {
		return Result{}, err
	}
	res := Result{Generation: gen, Report: rep}
	s.latest = &res
	return res, nil
}

// Latest returns the most recent successful result
func (s *Session) Latest() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Result{}, false
	}
	return *s.latest, true
}

// Current reports whether r is from the latest started pass.
func (s *Session) Current(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Generation == s.generation
}
