package store

import (
	"context"
	"fmt"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
)

// Store persists the tables the analyzer loads at startup: the stopword
// list and the deny-pattern tables.
type Store interface {
	Close() error

	// Stoplist
	UpsertStoplist(ctx context.Context, tokens []string) error
	AddStopwords(ctx context.Context, tokens ...string) error
	RemoveStopwords(ctx context.Context, tokens ...string) error
	Stopwords(ctx context.Context) ([]string, error)

	// Deny patterns, kept in insertion order per kind
	UpsertPatterns(ctx context.Context, kind PatternKind, rules []filter.Rule) error
	Patterns(ctx context.Context, kind PatternKind) ([]filter.Rule, error)
}

// PatternKind names a deny-pattern table
type PatternKind string

const (
	NoisePatterns    PatternKind = "noise"
	BoundaryPatterns PatternKind = "boundary"
)

// Valid reports whether k is a known kind.
func (k PatternKind) Valid() bool {
	return k == NoisePatterns || k == BoundaryPatterns
}

// CheckKind returns an error wrapping internalerr.ErrInvalidInput for an
// unknown kind.
func CheckKind(k PatternKind) error {
	if !k.Valid() {
		return fmt.Errorf("pattern kind %q: %w", k, internalerr.ErrInvalidInput)
	}
	return nil
}

// StoplistSource serves a store's stopword table to a stoplist.Service.
// An empty table is reported as internalerr.ErrNotFound so the service
// falls back to its built-in list.
type StoplistSource struct {
	Store Store
}

var _ stoplist.Source = StoplistSource{}

// Fetch reads the stopword table
func (s StoplistSource) Fetch(ctx context.Context) ([]string, error) {
	words, err := s.Store.Stopwords(ctx)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("stoplist table: %w", internalerr.ErrNotFound)
	}
	return words, nil
}

// PatternTable loads the rules of kind and compiles them. ok is false when
// the store holds no rules of that kind.
func PatternTable(ctx context.Context, st Store, kind PatternKind) (table *filter.PatternTable, ok bool, err error) {
	rules, err := st.Patterns(ctx, kind)
	if err != nil {
		return nil, false, err
	}
	if len(rules) == 0 {
		return nil, false, nil
	}
	table, err = filter.NewPatternTable(rules)
	if err != nil {
		return nil, false, fmt.Errorf("%s patterns: %w", kind, err)
	}
	return table, true, nil
}
