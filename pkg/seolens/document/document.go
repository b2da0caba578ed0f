// Package document describes the structural input of an analysis pass:
// the article's plain text together with its headings, first paragraph and
// paragraph segmentation. Markup parsing lives elsewhere (see htmldoc); this
// package only works with plain text.
package document

import (
	"regexp"
	"strings"

	"github.com/cognicore/seolens/pkg/seolens/textnorm"
)

// Document is one article as seen by the analyzer
type Document struct {
	Text           string   `json:"text"`
	H1             []string `json:"h1,omitempty"`
	Subheadings    []string `json:"subheadings,omitempty"` // h2 and h3
	FirstParagraph string   `json:"firstParagraph,omitempty"`
	Paragraphs     []string `json:"paragraphs,omitempty"`
}

var blankLines = regexp.MustCompile(`\n[ \t\r\f\v]*\n`)

// SplitParagraphs splits text on blank lines, dropping empty segments.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range blankLines.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromText builds a Document from plain text with blank-line paragraphs
// and no headings.
func FromText(text string) Document {
	paragraphs := SplitParagraphs(text)
	doc := Document{Text: text, Paragraphs: paragraphs}
	if len(paragraphs) > 0 {
		doc.FirstParagraph = paragraphs[0]
	}
	return doc
}

// Segments are text units reduced to token form and padded with a space on
// each side, so a phrase matches only on whole words.
type Segments []string

func newSegments(texts []string) Segments {
	segs := make(Segments, len(texts))
	for i, t := range texts {
		segs[i] = pad(textnorm.TokenForm(t))
	}
	return segs
}

func pad(s string) string {
	return " " + s + " "
}

// Contains reports whether segment i holds phrase, which must already be in
// token form.
func (s Segments) Contains(i int, phrase string) bool {
	if phrase == "" || i < 0 || i >= len(s) {
		return false
	}
	return strings.Contains(s[i], pad(phrase))
}

// Matching returns the indices of segments holding phrase.
func (s Segments) Matching(phrase string) []int {
	var idx []int
	for i := range s {
		if s.Contains(i, phrase) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Count returns how many segments hold phrase.
func (s Segments) Count(phrase string) int {
	n := 0
	for i := range s {
		if s.Contains(i, phrase) {
			n++
		}
	}
	return n
}

// Index is a Document prepared for phrase matching. Build it once per pass.
type Index struct {
	doc            Document
	wordCount      int
	h1             Segments
	subheadings    Segments
	firstParagraph Segments
	paragraphs     Segments
	sentences      Segments
}

// NewIndex prepares doc. When doc has no paragraphs they are derived from
// its text by blank lines.
func NewIndex(doc Document) *Index {
	paragraphs := doc.Paragraphs
	if len(paragraphs) == 0 {
		paragraphs = SplitParagraphs(doc.Text)
	}

	var first []string
	if strings.TrimSpace(doc.FirstParagraph) != "" {
		first = []string{doc.FirstParagraph}
	}

	return &Index{
		doc:            doc,
		wordCount:      textnorm.CountWords(doc.Text),
		h1:             newSegments(doc.H1),
		subheadings:    newSegments(doc.Subheadings),
		firstParagraph: newSegments(first),
		paragraphs:     newSegments(paragraphs),
		sentences:      newSegments(textnorm.SplitIntoSentences(doc.Text)),
	}
}

// Document returns the indexed document
func (x *Index) Document() Document { return x.doc }

// Text returns the document's plain text
func (x *Index) Text() string { return x.doc.Text }

// WordCount returns the reader-facing word count of the text
func (x *Index) WordCount() int { return x.wordCount }

// H1 returns the level-1 headings
func (x *Index) H1() Segments { return x.h1 }

// Subheadings returns the level-2 and level-3 headings
func (x *Index) Subheadings() Segments { return x.subheadings }

// Paragraphs returns the paragraph segments
func (x *Index) Paragraphs() Segments { return x.paragraphs }

// Sentences returns the sentence segments in document order
func (x *Index) Sentences() Segments { return x.sentences }

// InFirstParagraph reports whether the first paragraph holds phrase.
func (x *Index) InFirstParagraph(phrase string) bool {
	return x.firstParagraph.Contains(0, phrase)
}
