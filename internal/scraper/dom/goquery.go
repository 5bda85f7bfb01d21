// Package dom adapts a rendered page's HTML snapshot into the element
// handles the selector chains operate on. Extraction runs over the snapshot
// rather than live browser elements, so a page mutating under the scraper
// cannot invalidate a half-finished card.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobwatch/internal/scraper/selector"
)

// Document is a parsed HTML snapshot implementing selector.Finder.
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML snapshot into a Document.
func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// FindAll returns every element matching the CSS selector, in document order.
func (d *Document) FindAll(css string) []selector.Element {
	return collect(d.doc.Find(css))
}

// First returns the first element matching the CSS selector.
func (d *Document) First(css string) (selector.Element, bool) {
	return first(d.doc.Find(css))
}

type node struct {
	sel *goquery.Selection
}

func (n *node) FindAll(css string) []selector.Element {
	return collect(n.sel.Find(css))
}

func (n *node) First(css string) (selector.Element, bool) {
	return first(n.sel.Find(css))
}

func (n *node) Text() string {
	return n.sel.Text()
}

func (n *node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func collect(sel *goquery.Selection) []selector.Element {
	elements := make([]selector.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &node{sel: s})
	})
	return elements
}

func first(sel *goquery.Selection) (selector.Element, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return &node{sel: sel.First()}, true
}
