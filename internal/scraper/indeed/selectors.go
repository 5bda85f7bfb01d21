package indeed

import "jobwatch/internal/scraper/selector"

// Selector chains for Indeed's results markup. The site reshuffles class
// names across deployments, so every logical target carries ordered
// fallbacks, newest observed markup first.

// Job card location: class-name strategies are tried before the
// attribute/CSS strategies.
var (
	cardClassChain = selector.Chain{
		selector.Class("css-ehf62e.eu4oa1w0"),
		selector.Class("job_seen_beacon"),
		selector.Class("cardOutline"),
		selector.Class("slider_item"),
		selector.Class("resultContent"),
	}

	cardCSSChain = selector.Chain{
		selector.CSS("li[data-jk]"),
		selector.CSS("div.job_seen_beacon"),
		selector.CSS("div[data-jk]"),
		selector.CSS(".cardOutline"),
		selector.CSS("td.resultContent"),
	}
)

// Per-field chains. Title prefers the span's title attribute over its text.
var (
	titleChain = selector.Chain{
		selector.CSSAttr("h2.jobTitle span[title]", "title"),
		selector.CSS("h2.jobTitle a span"),
		selector.CSS("h2.jobTitle"),
		selector.CSS("a.jcs-JobTitle span"),
		selector.CSS(".jobTitle span"),
		selector.CSSAttr("h2 span[title]", "title"),
	}

	companyChain = selector.Chain{
		selector.CSS("[data-testid='company-name']"),
		selector.CSS("span.companyName"),
		selector.CSS(".companyName"),
		selector.CSS("span[data-testid='company-name']"),
	}

	locationChain = selector.Chain{
		selector.CSS("[data-testid='text-location']"),
		selector.CSS("div.companyLocation"),
		selector.CSS(".companyLocation"),
		selector.CSS("div[data-testid='text-location']"),
	}

	salaryChain = selector.Chain{
		selector.CSS("[data-testid='attribute_snippet_testid']"),
		selector.CSS(".salary-snippet-container"),
		selector.CSS(".salary-snippet"),
		selector.CSS("div.salary-snippet"),
		selector.CSS(".metadata.salary-snippet-container"),
	}
)

// Job link: the listing identifier is read from the card root first, then
// from a nested title anchor.
const (
	jobKeyAttr     = "data-jk"
	titleAnchorCSS = "h2.jobTitle a, a.jcs-JobTitle"
	noResultsCSS   = ".jobsearch-NoResult-messageHeader"
)

// Candidate chains for the interactive search form inputs.
var (
	whatInputChain = selector.Chain{
		selector.CSS("#text-input-what"),
		selector.CSS("input[name='q']"),
		selector.CSS("input[aria-label='search: Job title, keywords, or company']"),
	}

	whereInputChain = selector.Chain{
		selector.CSS("#text-input-where"),
		selector.CSS("input[name='l']"),
		selector.CSS("input[aria-label='search: City, state, zip code, or \"remote\"']"),
	}
)
