package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
	"github.com/cognicore/seolens/pkg/seolens/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "seolens.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStoplist(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertStoplist(ctx, []string{"در", "از", "از", ""}); err != nil {
		t.Fatalf("UpsertStoplist: %v", err)
	}
	if err := st.AddStopwords(ctx, "با", "از"); err != nil {
		t.Fatalf("AddStopwords: %v", err)
	}
	if err := st.RemoveStopwords(ctx, "در"); err != nil {
		t.Fatalf("RemoveStopwords: %v", err)
	}

	got, err := st.Stopwords(ctx)
	if err != nil {
		t.Fatalf("Stopwords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 stopwords, got %v", got)
	}

	if err := st.UpsertStoplist(ctx, []string{"که"}); err != nil {
		t.Fatal(err)
	}
	got, _ = st.Stopwords(ctx)
	if !reflect.DeepEqual(got, []string{"که"}) {
		t.Errorf("upsert should replace the set, got %v", got)
	}
}

func TestSQLitePatternsKeepOrder(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	rules := []filter.Rule{
		{Pattern: "^zzz", Reason: "first"},
		{Pattern: "^aaa"},
		{Pattern: "mmm$", Reason: "third"},
	}
	if err := st.UpsertPatterns(ctx, store.NoisePatterns, rules); err != nil {
		t.Fatalf("UpsertPatterns: %v", err)
	}

	got, err := st.Patterns(ctx, store.NoisePatterns)
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if !reflect.DeepEqual(got, rules) {
		t.Errorf("Expected %v, got %v", rules, got)
	}

	boundary, err := st.Patterns(ctx, store.BoundaryPatterns)
	if err != nil || len(boundary) != 0 {
		t.Errorf("boundary table should be empty, got %v, %v", boundary, err)
	}

	if err := st.UpsertPatterns(ctx, store.NoisePatterns, rules[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = st.Patterns(ctx, store.NoisePatterns)
	if len(got) != 1 {
		t.Errorf("upsert should replace the kind's rules, got %v", got)
	}
}

func TestSQLiteUnknownKind(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.Patterns(context.Background(), "bogus"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSQLiteAsStopwordSource(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "stops.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertStoplist(ctx, []string{"the", "از"}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	// reopen to check persistence
	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	svc := stoplist.New(store.StoplistSource{Store: st})
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !svc.IsStop("THE") || !svc.IsStop("از") || svc.Len() != 2 {
		t.Errorf("unexpected stopwords %v", svc.All())
	}
}
