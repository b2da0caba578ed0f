package stoplist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/seolens/pkg/seolens/internalerr"
)

// Source provides the raw stopword list
type Source interface {
	Fetch(ctx context.Context) ([]string, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) ([]string, error)

// Fetch calls f
func (f SourceFunc) Fetch(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticSource serves a fixed list
type StaticSource []string

// Fetch returns a copy of the list
func (s StaticSource) Fetch(context.Context) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// ParseList reads one word per line. Blank lines and lines starting with
// '#' are skipped; entries are trimmed and case-folded.
func ParseList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, normalize(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// FileSource reads a plain word list from disk
type FileSource struct {
	Path string
}

// Fetch reads and parses the file
func (f FileSource) Fetch(context.Context) ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	words, err := ParseList(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return words, nil
}

// HTTPSource fetches a plain word list over HTTP
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Fetch downloads and parses the list
func (h HTTPSource) Fetch(ctx context.Context) ([]string, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", h.URL, resp.StatusCode)
	}
	return ParseList(resp.Body)
}

// YAMLSource reads a stoplist file of the form
//
//	terms:
//	  - از
//	  - در
type YAMLSource struct {
	Path string
}

type yamlStoplist struct {
	Terms []string `yaml:"terms"`
}

// Fetch reads and decodes the file
func (y YAMLSource) Fetch(context.Context) ([]string, error) {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return nil, err
	}

	var sl yamlStoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse %s: %w", y.Path, err)
	}
	return normalizeAll(sl.Terms), nil
}

// DefaultJSONQuery is the gjson path used when JSONSource.Query is empty.
const DefaultJSONQuery = "stopwords"

// JSONSource reads an array of words from a JSON document at a gjson path,
// e.g. {"stopwords": ["از", "در"]}.
type JSONSource struct {
	Path  string
	Query string
}

// Fetch reads the file and selects the array
func (j JSONSource) Fetch(context.Context) ([]string, error) {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse %s: %w: malformed JSON", j.Path, internalerr.ErrInvalidInput)
	}

	query := j.Query
	if query == "" {
		query = DefaultJSONQuery
	}
	res := gjson.GetBytes(data, query)
	if !res.Exists() {
		return nil, fmt.Errorf("%s in %s: %w", query, j.Path, internalerr.ErrNotFound)
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%s in %s: %w: not an array", query, j.Path, internalerr.ErrInvalidInput)
	}

	var words []string
	for _, v := range res.Array() {
		words = append(words, v.String())
	}
	return normalizeAll(words), nil
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = normalize(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
