package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
	"github.com/cognicore/seolens/pkg/seolens/store"
	"github.com/cognicore/seolens/pkg/seolens/store/memstore"
)

func TestStoplistSource(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.UpsertStoplist(ctx, []string{"از", "در"}); err != nil {
		t.Fatal(err)
	}

	svc := stoplist.New(store.StoplistSource{Store: st})
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !svc.IsStop("از") || svc.Len() != 2 {
		t.Errorf("expected stored stopwords, got %v", svc.All())
	}
}

func TestStoplistSourceEmptyTable(t *testing.T) {
	_, err := store.StoplistSource{Store: memstore.New()}.Fetch(context.Background())
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPatternTable(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	_, ok, err := store.PatternTable(ctx, st, store.NoisePatterns)
	if err != nil || ok {
		t.Fatalf("empty kind should report ok=false, got %v, %v", ok, err)
	}

	if err := st.UpsertPatterns(ctx, store.NoisePatterns, []filter.Rule{{Pattern: "^foo", Reason: "foo"}}); err != nil {
		t.Fatal(err)
	}
	table, ok, err := store.PatternTable(ctx, st, store.NoisePatterns)
	if err != nil || !ok {
		t.Fatalf("PatternTable: %v, %v", ok, err)
	}
	if why, matched := table.Match("foo bar"); !matched || why != "foo" {
		t.Errorf("Match = %q, %v", why, matched)
	}

	if err := st.UpsertPatterns(ctx, store.BoundaryPatterns, []filter.Rule{{Pattern: "("}}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.PatternTable(ctx, st, store.BoundaryPatterns); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad stored rule, got %v", err)
	}
}

func TestCheckKind(t *testing.T) {
	if err := store.CheckKind(store.NoisePatterns); err != nil {
		t.Errorf("noise should be valid: %v", err)
	}
	if err := store.CheckKind("other"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
