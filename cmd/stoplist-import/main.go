package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/seolens/pkg/seolens/config"
	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
	"github.com/cognicore/seolens/pkg/seolens/store"
	"github.com/cognicore/seolens/pkg/seolens/store/sqlite"
)

// patternFile is the YAML layout accepted by -patterns
type patternFile struct {
	Noise    []filter.Rule `yaml:"noise"`
	Boundary []filter.Rule `yaml:"boundary"`
}

func main() {
	var (
		dbPath    = flag.String("db", "", "SQLite database to write (required)")
		words     = flag.String("words", "", "Stopword list: .txt, .yaml or .json")
		url       = flag.String("url", "", "Fetch the stopword list over HTTP (default $"+config.EnvStopwordsURL+")")
		jsonQuery = flag.String("json-query", stoplist.DefaultJSONQuery, "gjson path of the word array in a .json list")
		appendTo  = flag.Bool("append", false, "Add to the stored list instead of replacing it")
		patterns  = flag.String("patterns", "", "YAML file with noise and boundary rule lists")
		list      = flag.Bool("list", false, "Print the stored stopwords and exit")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *url == "" && *words == "" {
		*url = os.Getenv(config.EnvStopwordsURL)
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	if *list {
		stops, err := st.Stopwords(ctx)
		if err != nil {
			log.Fatalf("Failed to read stopwords: %v", err)
		}
		for _, w := range stops {
			fmt.Println(w)
		}
		return
	}

	src, err := wordSource(*words, *url, *jsonQuery)
	if err != nil {
		log.Fatal(err)
	}
	if src == nil && *patterns == "" {
		log.Fatal("nothing to import: give --words, --url or --patterns")
	}

	if src != nil {
		tokens, err := src.Fetch(ctx)
		if err != nil {
			log.Fatalf("Failed to read stopwords: %v", err)
		}
		if *appendTo {
			err = st.AddStopwords(ctx, tokens...)
		} else {
			err = st.UpsertStoplist(ctx, tokens)
		}
		if err != nil {
			log.Fatalf("Failed to store stopwords: %v", err)
		}
		total, err := st.Stopwords(ctx)
		if err != nil {
			log.Fatalf("Failed to count stopwords: %v", err)
		}
		log.Printf("Imported %d stopwords (%d stored)", len(tokens), len(total))
	}

	if *patterns != "" {
		if err := importPatterns(ctx, st, *patterns); err != nil {
			log.Fatalf("Failed to import patterns: %v", err)
		}
	}
}

// wordSource picks a source from the file extension, or HTTP when url is set.
func wordSource(path, url, query string) (stoplist.Source, error) {
	if path == "" {
		if url == "" {
			return nil, nil
		}
		return stoplist.HTTPSource{URL: url}, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return stoplist.YAMLSource{Path: path}, nil
	case ".json":
		return stoplist.JSONSource{Path: path, Query: query}, nil
	case ".txt", "":
		return stoplist.FileSource{Path: path}, nil
	}
	return nil, fmt.Errorf("unsupported stopword file %s", path)
}

func importPatterns(ctx context.Context, st store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var pf patternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for kind, rules := range map[store.PatternKind][]filter.Rule{
		store.NoisePatterns:    pf.Noise,
		store.BoundaryPatterns: pf.Boundary,
	} {
		if rules == nil {
			continue
		}
		// refuse rules the analyzer could not compile
		if _, err := filter.NewPatternTable(rules); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		if err := st.UpsertPatterns(ctx, kind, rules); err != nil {
			return err
		}
		log.Printf("Imported %d %s patterns", len(rules), kind)
	}
	return nil
}
