package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cognicore/seolens/internal/batch"
	"github.com/cognicore/seolens/pkg/seolens"
	"github.com/cognicore/seolens/pkg/seolens/config"
	"github.com/cognicore/seolens/pkg/seolens/document"
	"github.com/cognicore/seolens/pkg/seolens/htmldoc"
	"github.com/cognicore/seolens/pkg/seolens/suggest"
)

// EnvConfig names the config file when -config is not given.
const EnvConfig = "SEOLENS_CONFIG"

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML config file (default $"+EnvConfig+")")
		input   = flag.String("input", "", "Article file (default stdin)")
		isHTML  = flag.Bool("html", false, "Parse input as HTML")
		h1      = flag.String("h1", "", "Page title, for plain-text input")
		keyword = flag.String("keyword", "", "Target keyword")
		limit   = flag.Int("max", 0, "Suggestions per list (0 = defaults)")
		mode    = flag.String("mode", "both", "main, secondary or both")
		format  = flag.String("format", "text", "Output format: text or json")
		batchIn = flag.String("batch", "", "JSONL file of articles; writes one JSON report per line")
	)
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	if *cfgPath == "" {
		*cfgPath = os.Getenv(EnvConfig)
	}
	if *mode != "both" {
		if _, err := suggest.ParseMode(*mode); err != nil {
			log.Fatalf("--mode: %v", err)
		}
	}
	if *format != "text" && *format != "json" {
		log.Fatalf("--format must be text or json, got %q", *format)
	}

	ctx := context.Background()
	loader := &config.Loader{ConfigPath: *cfgPath, Env: os.LookupEnv}
	comp, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defer comp.Close()

	engine := seolens.New(seolens.Options{Stopwords: comp.Stopwords, Ranker: comp.Ranker})
	if err := engine.Initialize(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	if *batchIn != "" {
		if err := runBatch(ctx, engine, *batchIn, *limit, os.Stdout); err != nil {
			log.Fatalf("Batch failed: %v", err)
		}
		return
	}

	doc, err := readDocument(*input, *isHTML)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	if *h1 != "" {
		doc.H1 = []string{*h1}
	}

	rep, err := engine.Analyze(ctx, seolens.Request{
		Document:     doc,
		Keyword:      *keyword,
		MaxMain:      *limit,
		MaxSecondary: *limit,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	switch *mode {
	case "main":
		rep.Secondary = nil
	case "secondary":
		rep.Main = nil
	}

	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatal(err)
		}
		return
	}
	printReport(os.Stdout, rep)
}

// batchLine is one output line of -batch
type batchLine struct {
	Article string `json:"article"`
	seolens.Report
}

func runBatch(ctx context.Context, engine *seolens.Engine, path string, limit int, w io.Writer) error {
	articles, err := batch.LoadFromJSONL(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for _, a := range articles {
		doc, err := a.Document()
		if err != nil {
			log.Printf("Warning: skipping %s: %v", a.ID, err)
			continue
		}
		rep, err := engine.Analyze(ctx, seolens.Request{
			Document:     doc,
			Keyword:      a.Keyword,
			MaxMain:      limit,
			MaxSecondary: limit,
		})
		if err != nil {
			return fmt.Errorf("article %s: %w", a.ID, err)
		}
		if err := enc.Encode(batchLine{Article: a.ID, Report: rep}); err != nil {
			return err
		}
	}
	log.Printf("Analyzed %d articles", len(articles))
	return nil
}

func readDocument(path string, isHTML bool) (document.Document, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return document.Document{}, err
		}
		defer f.Close()
		r = f
	}

	if isHTML {
		return htmldoc.Parse(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return document.Document{}, err
	}
	return document.FromText(string(data)), nil
}

func printReport(w io.Writer, rep seolens.Report) {
	fmt.Fprintf(w, "Report %s (%d words)\n", rep.ID, rep.WordCount)
	if rep.Keyword != "" {
		fmt.Fprintf(w, "Keyword: %s\n", rep.Keyword)
	}
	printList(w, "Main keywords", rep.Main)
	printList(w, "Secondary keywords", rep.Secondary)
}

func printList(w io.Writer, title string, list []suggest.Suggestion) {
	if list == nil {
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	if len(list) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, s := range list {
		b := s.Breakdown
		fmt.Fprintf(w, "%2d. %-30s %5.1f  freq=%d co=%.1f ctx=%.1f prox=%.1f qual=%.1f\n",
			i+1, s.Keyword, s.FinalScore, s.Frequency, b.CoOccurrence, b.Context, b.Proximity, b.Quality)
	}
}
