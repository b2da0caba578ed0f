package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/store"
	"github.com/cognicore/seolens/pkg/seolens/store/sqlite"
)

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	defer comp.Close()

	if comp.Stopwords == nil || comp.Filter == nil || comp.Scorer == nil || comp.Ranker == nil {
		t.Fatalf("missing components: %+v", comp)
	}
	if comp.Store != nil {
		t.Error("builtin source should not open a store")
	}
	if comp.Stopwords.Loaded() {
		t.Error("loader should not load stopwords")
	}
	if err := comp.Stopwords.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !comp.Stopwords.IsStop("از") {
		t.Error("builtin list should be in use")
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	if _, err := (&Loader{ConfigPath: "/nonexistent/seolens.yaml"}).Load(context.Background()); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderFileSourceWithExtra(t *testing.T) {
	stops := writeFile(t, "stops.txt", "# list\nاز\nدر\n")
	path := writeFile(t, "seolens.yaml", "stopwords:\n  source: file\n  location: "+stops+"\n  extra: [سئو]\n")

	comp, err := (&Loader{ConfigPath: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := comp.Stopwords.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for _, w := range []string{"از", "در", "سئو"} {
		if !comp.Stopwords.IsStop(w) {
			t.Errorf("Expected %q to be a stopword", w)
		}
	}
	if comp.Stopwords.IsStop("برای") {
		t.Error("file list should replace the builtin list")
	}
}

func TestLoaderEnvOverride(t *testing.T) {
	l := &Loader{Env: func(k string) (string, bool) {
		if k == EnvStopwordsURL {
			return "http://127.0.0.1:1/stops.txt", true
		}
		return "", false
	}}
	comp, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Config.Stopwords.Source != SourceURL {
		t.Errorf("Expected url source, got %q", comp.Config.Stopwords.Source)
	}
}

func TestLoaderSQLiteSource(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "seolens.db")

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.UpsertStoplist(ctx, []string{"گوشی"}); err != nil {
		t.Fatalf("UpsertStoplist: %v", err)
	}
	rules := []filter.Rule{{Pattern: "^بازی", Reason: "games"}}
	if err := st.UpsertPatterns(ctx, store.NoisePatterns, rules); err != nil {
		t.Fatalf("UpsertPatterns: %v", err)
	}
	st.Close()

	cfg := Default()
	cfg.Stopwords.Source = SourceSQLite
	cfg.Stopwords.Location = dbPath
	cfg.Patterns.FromStore = true

	comp, err := Build(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer comp.Close()

	if comp.Store == nil {
		t.Fatal("sqlite source should open a store")
	}
	if err := comp.Stopwords.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !comp.Stopwords.IsStop("گوشی") || comp.Stopwords.IsStop("از") {
		t.Error("stored list should replace the builtin list")
	}

	rej, ok := comp.Filter.Explain("بازی آنلاین رایگان", 3)
	if !ok || rej.Reason != filter.ReasonNoise || rej.Detail != "games" {
		t.Errorf("stored noise rule should apply, got %+v", rej)
	}
}

func TestBuildUnknownSource(t *testing.T) {
	cfg := Default()
	cfg.Stopwords.Source = "ftp"
	if _, err := Build(context.Background(), cfg, nil); err == nil {
		t.Error("Should error on unknown source")
	}
}
