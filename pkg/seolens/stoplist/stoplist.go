package stoplist

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/textnorm"
)

// DefaultWaitTimeout bounds how long Load waits for a load started by
// another caller.
const DefaultWaitTimeout = 5 * time.Second

// fallbackStops is installed when the source cannot be read
var fallbackStops = []string{
	// prepositions
	"از", "در", "به", "با", "برای", "تا", "بر", "روی",
	// pronouns
	"من", "تو", "او", "ما", "شما", "آنها", "این", "آن",
	// auxiliaries
	"است", "بود", "باشد", "شود", "می", "نمی", "باید",
	// conjunctions
	"که", "اگر", "و", "یا", "اما", "ولی",
	// general
	"خیلی", "بسیار", "همه", "هر", "هیچ",
	// english
	"the", "a", "an", "and", "or", "but", "in", "on", "at",
	"to", "for", "of", "with", "by", "is", "are", "was", "were",
}

// Fallback returns a copy of the built-in stopword list.
func Fallback() []string {
	out := make([]string, len(fallbackStops))
	copy(out, fallbackStops)
	return out
}

// Service holds the stopword set. It is built without I/O and filled by
// Initialize or Load; after that it is read-only on the hot path.
type Service struct {
	mu      sync.RWMutex
	stops   map[string]struct{}
	loaded  bool
	loading chan struct{} // non-nil while a load is in flight
	lastErr error

	source   Source
	fallback []string
	wait     time.Duration
	logger   *log.Logger
}

// Option configures a Service
type Option func(*Service)

// WithFallback replaces the built-in fallback list.
func WithFallback(words []string) Option {
	return func(s *Service) { s.fallback = words }
}

// WithWaitTimeout sets how long concurrent loaders wait for an in-flight load.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.wait = d
		}
	}
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty, unloaded service reading from source.
// A nil source means the fallback list is the stopword list.
func New(source Source, opts ...Option) *Service {
	s := &Service{
		stops:    make(map[string]struct{}),
		source:   source,
		fallback: fallbackStops,
		wait:     DefaultWaitTimeout,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the stopword set. When the source fails the fallback list
// is installed, the set still counts as loaded, and the source error is
// returned wrapped in internalerr.ErrSourceUnavailable.
func (s *Service) Initialize(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

// Load is Initialize without the error: it reports whether the set is
// loaded. It only reports false when it gave up waiting on another caller's
// load.
func (s *Service) Load(ctx context.Context) bool {
	ok, _ := s.load(ctx)
	return ok
}

func (s *Service) load(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return true, nil
	}
	if s.loading != nil {
		done := s.loading
		s.mu.Unlock()
		return s.waitFor(ctx, done)
	}
	done := make(chan struct{})
	s.loading = done
	s.mu.Unlock()

	var (
		words []string
		err   error
	)
	if s.source == nil {
		words = s.fallback
	} else {
		words, err = s.source.Fetch(ctx)
		if err != nil {
			s.logger.Printf("Warning: stopword source failed, using %d built-in stopwords: %v", len(s.fallback), err)
			words = s.fallback
			err = fmt.Errorf("%w: %w", internalerr.ErrSourceUnavailable, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = normalize(w); w != "" {
			s.stops[w] = struct{}{}
		}
	}
	s.loaded = true
	s.loading = nil
	s.lastErr = err
	close(done)
	return true, err
}

func (s *Service) waitFor(ctx context.Context, done <-chan struct{}) (bool, error) {
	timer := time.NewTimer(s.wait)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded, s.lastErr
}

// Loaded reports whether a load has completed.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Clear empties the set and marks it unloaded.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = make(map[string]struct{})
	s.loaded = false
	s.lastErr = nil
}

// Reload clears the set and loads it again.
func (s *Service) Reload(ctx context.Context) error {
	s.Clear()
	return s.Initialize(ctx)
}

// IsStop checks if a word is a stopword (case-insensitive)
func (s *Service) IsStop(word string) bool {
	w := normalize(word)
	if w == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stops[w]
	return ok
}

// Ratio returns the fraction of whitespace-separated words in phrase that
// are stopwords, or 0 for an empty phrase.
func (s *Service) Ratio(phrase string) float64 {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return 0
	}
	return float64(s.countWords(words)) / float64(len(words))
}

// Count returns the number of stopwords in text.
func (s *Service) Count(text string) int {
	return s.countWords(strings.Fields(text))
}

func (s *Service) countWords(words []string) int {
	n := 0
	for _, w := range words {
		if s.IsStop(w) {
			n++
		}
	}
	return n
}

// Without returns words with stopwords removed.
func (s *Service) Without(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !s.IsStop(w) {
			out = append(out, w)
		}
	}
	return out
}

// Add adds words to the set
func (s *Service) Add(words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		if w = normalize(w); w != "" {
			s.stops[w] = struct{}{}
		}
	}
}

// Remove removes words from the set
func (s *Service) Remove(words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		delete(s.stops, normalize(w))
	}
}

// All returns all stopwords, sorted
func (s *Service) All() []string {
	s.mu.RLock()
	result := make([]string, 0, len(s.stops))
	for w := range s.stops {
		result = append(result, w)
	}
	s.mu.RUnlock()
	sort.Strings(result)
	return result
}

// Len returns the number of stopwords
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stops)
}

func normalize(word string) string {
	return textnorm.Fold(strings.TrimSpace(word))
}
