package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/seolens/pkg/seolens/cluster"
	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/score"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
	"github.com/cognicore/seolens/pkg/seolens/suggest"
)

// Stopword source types
const (
	SourceBuiltin = "builtin"
	SourceURL     = "url"
	SourceFile    = "file"
	SourceYAML    = "yaml"
	SourceJSON    = "json"
	SourceSQLite  = "sqlite"
)

// EnvStopwordsURL overrides the stopword source with a URL when set.
const EnvStopwordsURL = "SEOLENS_STOPWORDS_URL"

// Config is the analyzer configuration
type Config struct {
	Weights    score.Weights      `yaml:"weights"`
	Scoring    score.Params       `yaml:"scoring"`
	Filter     Filter             `yaml:"filter"`
	Clustering Clustering         `yaml:"clustering"`
	Thresholds suggest.Thresholds `yaml:"thresholds"`
	Suggest    Suggest            `yaml:"suggest"`
	Stopwords  Stopwords          `yaml:"stopwords"`
	Patterns   Patterns           `yaml:"patterns"`
}

// Filter holds the phrase filter settings
type Filter struct {
	RejectRatio  float64 `yaml:"reject_ratio"`
	MinFrequency int     `yaml:"min_frequency"`
}

// Clustering holds the diversity settings
type Clustering struct {
	Threshold  float64 `yaml:"threshold"`
	PoolFactor int     `yaml:"pool_factor"`
}

// Suggest holds the suggestion counts
type Suggest struct {
	DefaultMain      int `yaml:"default_main"`
	DefaultSecondary int `yaml:"default_secondary"`
	MainPool         int `yaml:"main_pool"`
	SecondaryPool    int `yaml:"secondary_pool"`
}

// Stopwords selects where the stopword list comes from
type Stopwords struct {
	Source      string        `yaml:"source"`
	Location    string        `yaml:"location"` // URL or path
	JSONQuery   string        `yaml:"json_query"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
	Extra       []string      `yaml:"extra"` // added after every load
}

// Patterns holds the deny-pattern tables
type Patterns struct {
	Noise     []filter.Rule `yaml:"noise"`
	Boundary  []filter.Rule `yaml:"boundary"`
	FromStore bool          `yaml:"from_store"` // prefer tables stored in the sqlite source
}

// Default returns the documented defaults
func Default() *Config {
	return &Config{
		Weights: score.DefaultWeights(),
		Scoring: score.DefaultParams(),
		Filter: Filter{
			RejectRatio:  filter.DefaultOptions().RejectRatio,
			MinFrequency: filter.DefaultOptions().MinFrequency,
		},
		Clustering: Clustering{
			Threshold:  cluster.DefaultThreshold,
			PoolFactor: suggest.DefaultOptions().PoolFactor,
		},
		Thresholds: suggest.DefaultThresholds(),
		Suggest: Suggest{
			DefaultMain:      suggest.DefaultOptions().DefaultMain,
			DefaultSecondary: suggest.DefaultOptions().DefaultSecondary,
			MainPool:         suggest.DefaultOptions().MainPool,
			SecondaryPool:    suggest.DefaultOptions().SecondaryPool,
		},
		Stopwords: Stopwords{
			Source:      SourceBuiltin,
			WaitTimeout: stoplist.DefaultWaitTimeout,
		},
		Patterns: Patterns{
			Noise:    filter.DefaultNoiseRules(),
			Boundary: filter.DefaultBoundaryRules(),
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if url, ok := lookup(EnvStopwordsURL); ok && url != "" {
		c.Stopwords.Source = SourceURL
		c.Stopwords.Location = url
	}
}

// Validate checks the configuration. Every problem is reported, each
// wrapping internalerr.ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, internalerr.ErrInvalidConfig)...))
	}

	w := c.Weights
	if w.Frequency < 0 || w.CoOccurrence < 0 || w.Context < 0 || w.Proximity < 0 || w.Quality < 0 {
		bad("weights must not be negative")
	}
	if w.Sum() <= 0 {
		bad("weights must not all be zero")
	}

	if c.Filter.RejectRatio <= 0 || c.Filter.RejectRatio > 1 {
		bad("filter.reject_ratio %v outside (0,1]", c.Filter.RejectRatio)
	}
	if c.Filter.MinFrequency < 0 {
		bad("filter.min_frequency %d is negative", c.Filter.MinFrequency)
	}

	if c.Clustering.Threshold <= 0 || c.Clustering.Threshold > 1 {
		bad("clustering.threshold %v outside (0,1]", c.Clustering.Threshold)
	}
	if c.Clustering.PoolFactor < 1 {
		bad("clustering.pool_factor %d below 1", c.Clustering.PoolFactor)
	}
	if c.Scoring.WindowSize < 0 {
		bad("scoring.window_size %d is negative", c.Scoring.WindowSize)
	}

	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Stopwords.Source {
	case SourceBuiltin:
	case SourceURL, SourceFile, SourceYAML, SourceJSON, SourceSQLite:
		if c.Stopwords.Location == "" {
			bad("stopwords.location required for source %q", c.Stopwords.Source)
		}
	default:
		bad("stopwords.source %q unknown", c.Stopwords.Source)
	}
	if c.Stopwords.WaitTimeout < 0 {
		bad("stopwords.wait_timeout is negative")
	}

	if _, err := filter.NewPatternTable(c.Patterns.Noise); err != nil {
		errs = append(errs, fmt.Errorf("patterns.noise: %w", err))
	}
	if _, err := filter.NewPatternTable(c.Patterns.Boundary); err != nil {
		errs = append(errs, fmt.Errorf("patterns.boundary: %w", err))
	}

	return errors.Join(errs...)
}
