// Package htmldoc turns editor HTML into a document.Document.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/seolens/pkg/seolens/document"
)

// blocks end a run of text
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Blockquote: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Tr: true,
	atom.Td: true, atom.Th: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Pre: true, atom.Figure: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// paragraphLike elements can form a paragraph
var paragraphLike = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Blockquote: true,
}

// Parse reads HTML and extracts headings, paragraphs and the plain text.
// Script and style content is ignored.
func Parse(r io.Reader) (document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return document.Document{}, fmt.Errorf("parse html: %w", err)
	}

	var doc document.Document
	var walk func(n *html.Node, inH1 bool)
	walk = func(n *html.Node, inH1 bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.H1:
				if t := textOf(n); t != "" {
					doc.H1 = append(doc.H1, t)
				}
				inH1 = true
			case atom.H2, atom.H3:
				if t := textOf(n); t != "" {
					doc.Subheadings = append(doc.Subheadings, t)
				}
			}

			if paragraphLike[n.DataAtom] {
				if t := textOf(n); t != "" {
					if n.DataAtom == atom.P && doc.FirstParagraph == "" && !inH1 {
						doc.FirstParagraph = t
					}
					if n.DataAtom == atom.P || !hasBlockChild(n) {
						doc.Paragraphs = append(doc.Paragraphs, t)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inH1)
		}
	}
	walk(root, false)

	doc.Text = plainText(root)
	if len(doc.Paragraphs) == 0 {
		doc.Paragraphs = document.SplitParagraphs(doc.Text)
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (document.Document, error) {
	return Parse(strings.NewReader(s))
}

func skipped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	return false
}

// textOf returns the text under n with whitespace collapsed.
func textOf(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (blocks[n.DataAtom] || n.DataAtom == atom.Br) {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if blocks[c.DataAtom] {
			return true
		}
		// inline wrappers around blocks still count
		if hasBlockChild(c) {
			return true
		}
	}
	return false
}

// plainText renders the document text with a blank line between blocks.
func plainText(root *html.Node) string {
	var segments []string
	var cur strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			segments = append(segments, s)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			cur.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			cur.WriteByte(' ')
			return
		}
		block := n.Type == html.ElementNode && blocks[n.DataAtom]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(root)
	flush()
	return strings.Join(segments, "\n\n")
}
