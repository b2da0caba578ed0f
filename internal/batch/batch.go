package batch

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cognicore/seolens/pkg/seolens/document"
	"github.com/cognicore/seolens/pkg/seolens/htmldoc"
)

// Article is one JSONL input line. HTML wins over Text when both are set.
type Article struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
	H1      string `json:"h1"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Document converts the article to analyzer input
func (a Article) Document() (document.Document, error) {
	if a.HTML != "" {
		doc, err := htmldoc.ParseString(a.HTML)
		if err != nil {
			return document.Document{}, fmt.Errorf("article %s: %w", a.ID, err)
		}
		if a.H1 != "" {
			doc.H1 = []string{a.H1}
		}
		return doc, nil
	}
	doc := document.FromText(a.Text)
	if a.H1 != "" {
		doc.H1 = []string{a.H1}
	}
	return doc, nil
}

// LoadFromJSONL loads articles from a JSONL file. Malformed lines are
// skipped with a warning.
func LoadFromJSONL(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var articles []Article
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var a Article
		if err := json.Unmarshal([]byte(line), &a); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if a.ID == "" {
			a.ID = fmt.Sprintf("line-%d", i+1)
		}
		articles = append(articles, a)
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("no valid articles found in %s", path)
	}
	return articles, nil
}
