package indeed

import "jobwatch/internal/scraper/selector"

// LocateCards finds the repeating job-card elements on a results page,
// trying the class-name chain first and the attribute/CSS chain second. The
// first strategy yielding at least one element wins. ok=false means every
// strategy in both chains came up empty; the caller distinguishes that from
// an explicit zero-results page via ProbeNoResults.
func LocateCards(page selector.Finder) ([]selector.Element, selector.Strategy, bool) {
	return selector.FirstMatch(page, cardClassChain, cardCSSChain)
}

// ProbeNoResults checks for Indeed's explicit "no jobs found" message. Only
// consulted after both card chains are exhausted; a positive probe is
// recorded in the debug trace, not treated as a different failure path.
func ProbeNoResults(page selector.Finder) bool {
	_, found := page.First(noResultsCSS)
	return found
}
