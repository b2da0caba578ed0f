package config

import (
	"context"
	"fmt"
	"log"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/score"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
	"github.com/cognicore/seolens/pkg/seolens/store"
	"github.com/cognicore/seolens/pkg/seolens/store/sqlite"
	"github.com/cognicore/seolens/pkg/seolens/suggest"
)

// Loader loads the configuration and constructs components
type Loader struct {
	ConfigPath string // empty means defaults
	Env        func(string) (string, bool)
	Logger     *log.Logger
}

// Components holds the wired analyzer stages. Stopwords is constructed but
// not loaded.
type Components struct {
	Config    *Config
	Stopwords *stoplist.Service
	Filter    *filter.Filter
	Scorer    *score.Scorer
	Ranker    *suggest.Ranker
	Store     store.Store // set for the sqlite source
}

// Close releases the store, if any
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load reads the configuration and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if l.Env != nil {
		cfg.ApplyEnv(l.Env)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return Build(ctx, cfg, l.Logger)
}

// Build constructs components from cfg.
func Build(ctx context.Context, cfg *Config, logger *log.Logger) (*Components, error) {
	if logger == nil {
		logger = log.Default()
	}
	comp := &Components{Config: cfg}

	if cfg.Stopwords.Source == SourceSQLite {
		st, err := sqlite.OpenSQLite(ctx, cfg.Stopwords.Location)
		if err != nil {
			return nil, fmt.Errorf("open stopword store: %w", err)
		}
		comp.Store = st
	}

	src, err := stopwordSource(cfg.Stopwords, comp.Store)
	if err != nil {
		comp.Close()
		return nil, err
	}
	if len(cfg.Stopwords.Extra) > 0 {
		src = withExtra(src, cfg.Stopwords.Extra)
	}
	comp.Stopwords = stoplist.New(src,
		stoplist.WithWaitTimeout(cfg.Stopwords.WaitTimeout),
		stoplist.WithLogger(logger),
	)

	noise, boundary, err := patternTables(ctx, cfg.Patterns, comp.Store)
	if err != nil {
		comp.Close()
		return nil, err
	}

	comp.Filter = filter.New(comp.Stopwords, noise, boundary, filter.Options{
		RejectRatio:  cfg.Filter.RejectRatio,
		MinFrequency: cfg.Filter.MinFrequency,
	})
	comp.Scorer = score.NewScorer(cfg.Weights, cfg.Scoring)
	comp.Ranker = suggest.NewRanker(comp.Filter, comp.Scorer, suggest.Options{
		ClusterThreshold: cfg.Clustering.Threshold,
		PoolFactor:       cfg.Clustering.PoolFactor,
		Thresholds:       cfg.Thresholds,
		DefaultMain:      cfg.Suggest.DefaultMain,
		DefaultSecondary: cfg.Suggest.DefaultSecondary,
		MainPool:         cfg.Suggest.MainPool,
		SecondaryPool:    cfg.Suggest.SecondaryPool,
	})
	return comp, nil
}

// stopwordSource maps the configured source to a stoplist.Source. The
// builtin source is nil, which makes the service use its fallback list.
func stopwordSource(cfg Stopwords, st store.Store) (stoplist.Source, error) {
	switch cfg.Source {
	case SourceBuiltin, "":
		return nil, nil
	case SourceURL:
		return stoplist.HTTPSource{URL: cfg.Location}, nil
	case SourceFile:
		return stoplist.FileSource{Path: cfg.Location}, nil
	case SourceYAML:
		return stoplist.YAMLSource{Path: cfg.Location}, nil
	case SourceJSON:
		return stoplist.JSONSource{Path: cfg.Location, Query: cfg.JSONQuery}, nil
	case SourceSQLite:
		return store.StoplistSource{Store: st}, nil
	}
	return nil, fmt.Errorf("stopword source %q unknown", cfg.Source)
}

func withExtra(src stoplist.Source, extra []string) stoplist.Source {
	if src == nil {
		src = stoplist.StaticSource(stoplist.Fallback())
	}
	return stoplist.SourceFunc(func(ctx context.Context) ([]string, error) {
		words, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return append(words, extra...), nil
	})
}

func patternTables(ctx context.Context, cfg Patterns, st store.Store) (noise, boundary *filter.PatternTable, err error) {
	noise, err = filter.NewPatternTable(cfg.Noise)
	if err != nil {
		return nil, nil, fmt.Errorf("noise patterns: %w", err)
	}
	boundary, err = filter.NewPatternTable(cfg.Boundary)
	if err != nil {
		return nil, nil, fmt.Errorf("boundary patterns: %w", err)
	}
	if !cfg.FromStore || st == nil {
		return noise, boundary, nil
	}

	if table, ok, err := store.PatternTable(ctx, st, store.NoisePatterns); err != nil {
		return nil, nil, err
	} else if ok {
		noise = table
	}
	if table, ok, err := store.PatternTable(ctx, st, store.BoundaryPatterns); err != nil {
		return nil, nil, err
	} else if ok {
		boundary = table
	}
	return noise, boundary, nil
}
