package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	stops    map[string]struct{}
	patterns map[store.PatternKind][]filter.Rule
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		stops:    make(map[string]struct{}),
		patterns: make(map[store.PatternKind][]filter.Rule),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertStoplist replaces the stopword set.
func (s *Store) UpsertStoplist(ctx context.Context, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = make(map[string]struct{}, len(tokens))
	s.addLocked(tokens)
	return nil
}

// AddStopwords inserts tokens.
func (s *Store) AddStopwords(ctx context.Context, tokens ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(tokens)
	return nil
}

func (s *Store) addLocked(tokens []string) {
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			s.stops[tok] = struct{}{}
		}
	}
}

// RemoveStopwords deletes tokens.
func (s *Store) RemoveStopwords(ctx context.Context, tokens ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range tokens {
		delete(s.stops, tok)
	}
	return nil
}

// Stopwords returns the stopword set, sorted.
func (s *Store) Stopwords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.stops))
	for tok := range s.stops {
		out = append(out, tok)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

// UpsertPatterns replaces the rules of kind.
func (s *Store) UpsertPatterns(ctx context.Context, kind store.PatternKind, rules []filter.Rule) error {
	if err := store.CheckKind(kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns[kind] = append([]filter.Rule(nil), rules...)
	return nil
}

// Patterns returns the rules of kind in order.
func (s *Store) Patterns(ctx context.Context, kind store.PatternKind) ([]filter.Rule, error) {
	if err := store.CheckKind(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]filter.Rule(nil), s.patterns[kind]...), nil
}
