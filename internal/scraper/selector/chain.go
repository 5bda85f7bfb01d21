package selector

import "strings"

// By is the lookup mechanism for a strategy.
type By int

const (
	// ByClass finds elements by class name (dots inside the query are kept,
	// so stacked utility classes like "css-ehf62e.eu4oa1w0" work).
	ByClass By = iota
	// ByCSS finds elements by a full CSS selector.
	ByCSS
)

// Strategy is one lookup step for a logical target: a selector plus the
// mechanism to evaluate it, and optionally the attribute to read instead of
// the element text.
type Strategy struct {
	By    By
	Query string
	// Attr, when set, means "read this attribute, falling back to the
	// element text when the attribute is empty".
	Attr string
}

// CSS returns the strategy's query as a CSS selector.
func (s Strategy) CSS() string {
	if s.By == ByClass {
		return "." + s.Query
	}
	return s.Query
}

// Chain is an ordered sequence of fallback strategies for one logical
// target. Strategies are evaluated in fixed order and the first one returning
// a non-empty match wins; the rest are never tried.
type Chain []Strategy

// Class builds a ByClass strategy.
func Class(query string) Strategy { return Strategy{By: ByClass, Query: query} }

// CSS builds a ByCSS strategy.
func CSS(query string) Strategy { return Strategy{By: ByCSS, Query: query} }

// CSSAttr builds a ByCSS strategy that reads an attribute before the text.
func CSSAttr(query, attr string) Strategy { return Strategy{By: ByCSS, Query: query, Attr: attr} }

// Finder locates elements below some root (a page or another element).
// Implementations must treat "nothing matched" as an empty result, never as a
// hard failure the chain has to distinguish.
type Finder interface {
	FindAll(css string) []Element
	First(css string) (Element, bool)
}

// Element is one located DOM element.
type Element interface {
	Finder
	Text() string
	Attr(name string) (string, bool)
}

// FirstMatch evaluates chains in order and returns the elements of the first
// strategy that yields at least one element, along with the winning strategy.
// A strategy that matches nothing is skipped; exhausting every chain returns
// ok=false.
func FirstMatch(root Finder, chains ...Chain) ([]Element, Strategy, bool) {
	for _, chain := range chains {
		for _, strat := range chain {
			if elements := root.FindAll(strat.CSS()); len(elements) > 0 {
				return elements, strat, true
			}
		}
	}
	return nil, Strategy{}, false
}

// ResolveValue evaluates the chain against root and returns the first
// non-empty trimmed value. A strategy whose element is missing, or whose
// value is blank, counts as no match and the chain advances.
func ResolveValue(root Finder, chain Chain) (string, bool) {
	for _, strat := range chain {
		element, ok := root.First(strat.CSS())
		if !ok {
			continue
		}
		if value := strings.TrimSpace(strategyValue(element, strat)); value != "" {
			return value, true
		}
	}
	return "", false
}

func strategyValue(element Element, strat Strategy) string {
	if strat.Attr != "" {
		if value, ok := element.Attr(strat.Attr); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return element.Text()
}
